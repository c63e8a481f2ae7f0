package compiler

import (
	"regexp"
	"strings"
)

// importStmt is one import or re-export clause found in a source file.
type importStmt struct {
	// Specifier is the quoted module reference.
	Specifier string
	// Names are the imported (pre-"as") binding names; empty for
	// side-effect, namespace and star imports.
	Names []string
	// Line is the 1-based source line of the clause.
	Line int
	// TypeOnly marks "import type"/"export type ... from" clauses, which
	// are erased from the code emit.
	TypeOnly bool
	// Reexport marks "export ... from" clauses.
	Reexport bool
}

// sourceFile is one parsed member of the compilation unit.
type sourceFile struct {
	Path    string
	Hash    uint64
	Lines   []string
	Imports []importStmt
	Exports map[string]struct{}
}

var (
	importRe     = regexp.MustCompile(`^\s*import\s+(type\s+)?(?:(.+?)\s+from\s+)?["']([^"']+)["']`)
	exportFromRe = regexp.MustCompile(`^\s*export\s+(type\s+)?(\{[^}]*\}|\*)\s+from\s+["']([^"']+)["']`)
	exportDeclRe = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:abstract\s+)?(const|let|var|function|class|interface|type|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	exportListRe = regexp.MustCompile(`^\s*export\s+(?:type\s+)?\{([^}]*)\}\s*;?\s*$`)
)

// parseSource scans a source file for import clauses and exported names.
// The scan is line-oriented: the source convention keeps one import or
// export clause per line.
func parseSource(path string, data []byte) *sourceFile {
	f := &sourceFile{
		Path:    path,
		Lines:   strings.Split(string(data), "\n"),
		Exports: make(map[string]struct{}),
	}

	for i, line := range f.Lines {
		if m := exportFromRe.FindStringSubmatch(line); m != nil {
			stmt := importStmt{
				Specifier: m[3],
				Line:      i + 1,
				TypeOnly:  m[1] != "",
				Reexport:  true,
			}
			if strings.HasPrefix(m[2], "{") {
				stmt.Names = parseBindingList(m[2])
			}
			f.Imports = append(f.Imports, stmt)
			// Re-exported names become part of this module's surface.
			for _, name := range parseReexportedNames(m[2]) {
				f.Exports[name] = struct{}{}
			}
			continue
		}

		if m := importRe.FindStringSubmatch(line); m != nil {
			stmt := importStmt{
				Specifier: m[3],
				Line:      i + 1,
				TypeOnly:  m[1] != "",
			}
			if clause := m[2]; strings.Contains(clause, "{") {
				stmt.Names = parseBindingList(clause[strings.Index(clause, "{"):])
			}
			f.Imports = append(f.Imports, stmt)
			continue
		}

		if m := exportDeclRe.FindStringSubmatch(line); m != nil {
			f.Exports[m[2]] = struct{}{}
			continue
		}

		if m := exportListRe.FindStringSubmatch(line); m != nil {
			for _, name := range splitBindings(m[1]) {
				// "local as exported" exports the right-hand name.
				if parts := strings.Split(name, " as "); len(parts) == 2 {
					name = strings.TrimSpace(parts[1])
				}
				if name != "" {
					f.Exports[name] = struct{}{}
				}
			}
		}
	}

	return f
}

// parseBindingList extracts the pre-"as" names from "{A, B as C}".
// Those are the names the target module must export.
func parseBindingList(clause string) []string {
	open := strings.Index(clause, "{")
	end := strings.Index(clause, "}")
	if open < 0 || end < open {
		return nil
	}
	var names []string
	for _, name := range splitBindings(clause[open+1 : end]) {
		if parts := strings.Split(name, " as "); len(parts) == 2 {
			name = strings.TrimSpace(parts[0])
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "type "))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parseReexportedNames extracts the post-"as" names from a re-export
// clause; "*" re-exports contribute no statically known names.
func parseReexportedNames(clause string) []string {
	if clause == "*" {
		return nil
	}
	open := strings.Index(clause, "{")
	end := strings.Index(clause, "}")
	if open < 0 || end < open {
		return nil
	}
	var names []string
	for _, name := range splitBindings(clause[open+1 : end]) {
		if parts := strings.Split(name, " as "); len(parts) == 2 {
			name = strings.TrimSpace(parts[1])
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "type "))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func splitBindings(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// specifiers returns all import specifiers of a file, in line order.
func (f *sourceFile) specifiers() []string {
	out := make([]string, len(f.Imports))
	for i, imp := range f.Imports {
		out[i] = imp.Specifier
	}
	return out
}
