package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/mono/internal/core/domain"
)

const (
	stateVisiting = 1
	stateDone     = 2
)

// lineRef ties one output line back to its origin for the source map.
// A negative source index marks a synthesized line.
type lineRef struct {
	Source int
	Line   int
}

type externalImport struct {
	Text  string
	Names []string
}

// linker flattens one bundle descriptor's module graph into a single
// output: relative imports are inlined depth-first, bare imports are
// hoisted and deduplicated at the top.
type linker struct {
	desc    domain.BundleDescriptor
	ext     string
	modules map[string]*module
	state   map[string]int

	body []string
	refs []lineRef

	sources []string
	srcIdx  map[string]int

	externals []externalImport
	extSeen   map[string]int

	warnings []domain.BundleWarning
}

func newLinker(desc domain.BundleDescriptor) *linker {
	ext := domain.CodeExt
	if desc.Kind == domain.BundleDecl {
		ext = domain.DeclExt
	}
	return &linker{
		desc:    desc,
		ext:     ext,
		modules: map[string]*module{},
		state:   map[string]int{},
		srcIdx:  map[string]int{},
		extSeen: map[string]int{},
	}
}

// run links the graph rooted at the descriptor input and returns the
// assembled output lines with their origin refs.
func (l *linker) run() ([]string, []lineRef, error) {
	if err := l.link(l.desc.Input, true); err != nil {
		return nil, nil, err
	}
	l.pruneUnusedExternals()

	out := make([]string, 0, len(l.externals)+len(l.body))
	refs := make([]lineRef, 0, cap(out))
	for _, ext := range l.externals {
		out = append(out, ext.Text)
		refs = append(refs, lineRef{Source: -1})
	}
	out = append(out, l.body...)
	refs = append(refs, l.refs...)
	return out, refs, nil
}

func (l *linker) link(path string, entry bool) error {
	m, err := l.load(path)
	if err != nil {
		return err
	}
	l.state[path] = stateVisiting
	src := l.source(path)
	dir := filepath.Dir(path)

	for i, line := range m.Lines {
		if line.Specifier == "" {
			l.emit(l.transform(line, entry), src, i)
			continue
		}

		if l.desc.External(line.Specifier) {
			if entry && line.Reexport {
				// A re-export of an external module cannot be inlined.
				l.emit(line.Text, src, i)
			} else {
				l.hoist(line)
			}
			continue
		}

		target, ok := l.resolveRelative(dir, line.Specifier)
		if !ok {
			l.warn(domain.WarnUnresolvedImport,
				fmt.Sprintf("%q could not be resolved from %s", line.Specifier, path))
			continue
		}

		switch l.state[target] {
		case stateVisiting:
			l.warn(domain.WarnCircularDependency,
				fmt.Sprintf("circular dependency: %s -> %s", path, target))
			continue
		case stateDone:
			// Already inlined above.
		default:
			if err := l.link(target, false); err != nil {
				return err
			}
		}

		if line.Star {
			// Star re-exports widen this module's surface with the
			// target's statically known names.
			m.Exports = append(m.Exports, l.modules[target].Exports...)
			if entry {
				l.emit(exportList(l.modules[target].Exports), src, i)
			}
			continue
		}
		if entry && line.Reexport {
			// The target is inlined, so the names are in scope.
			l.emit(exportList(line.Names), src, i)
		}
	}

	l.state[path] = stateDone
	return nil
}

func (l *linker) load(path string) (*module, error) {
	if m, ok := l.modules[path]; ok {
		return m, nil
	}
	m, err := loadModule(path)
	if err != nil {
		return nil, err
	}
	l.modules[path] = m
	return m, nil
}

var exportKeywordRe = regexp.MustCompile(`^(\s*)export\s+`)

// transform rewrites one plain line for its position in the bundle: inner
// modules lose the export keyword, since their declarations merge into the
// entry's scope.
func (l *linker) transform(line moduleLine, entry bool) string {
	if entry {
		return line.Text
	}
	if line.Names != nil {
		// Local export list of an inlined module; the bindings are
		// already in scope under their declared names.
		return ""
	}
	return exportKeywordRe.ReplaceAllString(line.Text, "$1")
}

// emit appends one output line; empty strings produced by the transform
// are dropped entirely, not kept as blanks.
func (l *linker) emit(text string, source, line int) {
	if text == "" && line >= 0 {
		return
	}
	l.body = append(l.body, text)
	l.refs = append(l.refs, lineRef{Source: source, Line: line})
}

// hoist records an external import, deduplicated by its normalized text.
func (l *linker) hoist(line moduleLine) {
	text := strings.TrimSpace(line.Text)
	text = strings.Replace(text, "export ", "import ", 1)
	if _, ok := l.extSeen[text]; ok {
		return
	}
	l.extSeen[text] = len(l.externals)
	l.externals = append(l.externals, externalImport{Text: text, Names: line.Names})
}

// pruneUnusedExternals drops hoisted imports whose bindings never occur in
// the assembled body.
func (l *linker) pruneUnusedExternals() {
	joined := strings.Join(l.body, "\n")
	kept := l.externals[:0]
	for _, ext := range l.externals {
		if len(ext.Names) == 0 || anyIdentUsed(joined, ext.Names) {
			kept = append(kept, ext)
			continue
		}
		l.warn(domain.WarnUnusedExternalImport,
			fmt.Sprintf("external import %q is never used", ext.Text))
	}
	l.externals = kept
}

func anyIdentUsed(body string, names []string) bool {
	for _, name := range names {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if re.MatchString(body) {
			return true
		}
	}
	return false
}

// resolveRelative probes the inlining candidates for a relative specifier
// against the importer's directory.
func (l *linker) resolveRelative(dir, spec string) (string, bool) {
	base := spec
	if !filepath.IsAbs(base) && !driveRe.MatchString(base) {
		base = filepath.Join(dir, spec)
	}

	var candidates []string
	if strings.HasSuffix(base, domain.CodeExt) && l.ext == domain.DeclExt {
		// Compiled declaration files reference their siblings with the
		// code extension; the declaration counterpart wins over the
		// code file sitting next to it.
		candidates = append(candidates, strings.TrimSuffix(base, domain.CodeExt)+domain.DeclExt)
	}
	candidates = append(candidates, base, base+l.ext, filepath.Join(base, "index"+l.ext))

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

func (l *linker) source(path string) int {
	if idx, ok := l.srcIdx[path]; ok {
		return idx
	}
	idx := len(l.sources)
	l.srcIdx[path] = idx
	l.sources = append(l.sources, path)
	return idx
}

func (l *linker) warn(code, message string) {
	l.warnings = append(l.warnings, domain.BundleWarning{Code: code, Message: message})
}

func exportList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "export {" + strings.Join(names, ", ") + "};"
}
