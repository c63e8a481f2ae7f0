package compiler

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	typeBlockRe    = regexp.MustCompile(`^\s*(?:export\s+)?(?:declare\s+)?(?:type\s+[A-Za-z_$][A-Za-z0-9_$]*\s*(?:<[^>]*>)?\s*=|interface\s+[A-Za-z_$])`)
	specifierRe    = regexp.MustCompile(`(["'])([^"']+)\.ts(["'])`)
	exportHeadRe   = regexp.MustCompile(`^(\s*)export\s+(?:declare\s+)?(?:abstract\s+)?(const|let|var|function|class|enum)\s+(.*)$`)
	trailingOpenRe = regexp.MustCompile(`\s*[{=].*$`)
)

// emit writes, for every program file, a compiled module and (when enabled)
// its declaration counterpart under the configured out directory, mirroring
// the source tree.
func (c *Compiler) emit(program []*sourceFile, result *domain.CompileResult) error {
	outRoot := filepath.Join(c.cfg.Root, c.cfg.Compiler.OutDir)

	for _, file := range program {
		rel, err := filepath.Rel(c.cfg.Root, file.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return zerr.With(zerr.New("program file outside workspace root"), "path", file.Path)
		}

		outPath := filepath.Join(outRoot, strings.TrimSuffix(rel, domain.SourceExt)+domain.CodeExt)
		if err := writeFile(outPath, emitCode(file)); err != nil {
			return err
		}
		result.EmittedFiles = append(result.EmittedFiles, outPath)

		if c.cfg.Compiler.Declaration {
			declPath := domain.DeclCounterpart(outPath)
			if err := writeFile(declPath, emitDeclaration(file)); err != nil {
				return err
			}
			result.EmittedFiles = append(result.EmittedFiles, declPath)
		}
	}

	return nil
}

// Transpile compiles a single source file in isolation: type-only
// constructs are erased and explicit source extensions in specifiers are
// rewritten. The dev server uses it for on-demand module serving.
func Transpile(path string, data []byte) string {
	return emitCode(parseSource(path, data))
}

// emitCode erases type-only constructs and rewrites explicit source
// extensions in specifiers; everything else passes through unchanged.
func emitCode(file *sourceFile) string {
	typeOnly := typeOnlyImportLines(file)
	var b strings.Builder

	skipUntilBalance := 0
	for i, line := range file.Lines {
		if skipUntilBalance > 0 {
			skipUntilBalance += braceDelta(line)
			continue
		}
		if typeOnly[i+1] {
			continue
		}
		if typeBlockRe.MatchString(line) {
			if delta := braceDelta(line); delta > 0 {
				skipUntilBalance = delta
			}
			continue
		}
		b.WriteString(rewriteSpecifiers(line))
		if i < len(file.Lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// emitDeclaration extracts the file's declaration surface: import and
// re-export clauses, type/interface blocks verbatim, and value exports as
// body-elided declare statements.
func emitDeclaration(file *sourceFile) string {
	importLines := make(map[int]bool, len(file.Imports))
	for _, imp := range file.Imports {
		importLines[imp.Line] = true
	}

	var b strings.Builder
	copyUntilBalance := 0
	for i, line := range file.Lines {
		if copyUntilBalance > 0 {
			copyUntilBalance += braceDelta(line)
			b.WriteString(line + "\n")
			continue
		}
		switch {
		case importLines[i+1]:
			b.WriteString(rewriteSpecifiers(line) + "\n")
		case typeBlockRe.MatchString(line) && strings.Contains(line, "export"):
			b.WriteString(line + "\n")
			if delta := braceDelta(line); delta > 0 {
				copyUntilBalance = delta
			}
		case exportHeadRe.MatchString(line):
			m := exportHeadRe.FindStringSubmatch(line)
			head := trailingOpenRe.ReplaceAllString(m[3], "")
			b.WriteString(m[1] + "export declare " + m[2] + " " + strings.TrimSpace(head) + ";\n")
		case exportListRe.MatchString(line):
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// typeOnlyImportLines returns the 1-based lines holding erased clauses.
func typeOnlyImportLines(file *sourceFile) map[int]bool {
	out := make(map[int]bool)
	for _, imp := range file.Imports {
		if imp.TypeOnly {
			out[imp.Line] = true
		}
	}
	return out
}

// rewriteSpecifiers maps explicit ".ts" suffixes in quoted specifiers to
// the compiled ".js" extension.
func rewriteSpecifiers(line string) string {
	return specifierRe.ReplaceAllString(line, "${1}${2}.js${3}")
}

// braceDelta counts net brace nesting on one line.
func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", path)
	}
	if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", path)
	}
	return nil
}
