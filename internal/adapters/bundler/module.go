package bundler

import (
	"os"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// moduleLine classifies one line of a compiled module.
type moduleLine struct {
	Text string
	// Specifier is set for import and re-export clauses.
	Specifier string
	Reexport  bool
	// Star marks "export * from" clauses.
	Star bool
	// Names are the clause's binding names after aliasing: what the
	// re-export adds to the module surface, or what an import binds.
	Names []string
}

// module is one compiled file participating in a bundle.
type module struct {
	Path  string
	Lines []moduleLine
	// Exports are the module's statically known exported names, in
	// declaration order.
	Exports []string
}

var (
	moduleImportRe     = regexp.MustCompile(`^\s*import\s+(?:type\s+)?(?:(.+?)\s+from\s+)?["']([^"']+)["']`)
	moduleExportFromRe = regexp.MustCompile(`^\s*export\s+(?:type\s+)?(\{[^}]*\}|\*)\s+from\s+["']([^"']+)["']`)
	moduleExportHeadRe = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:abstract\s+)?(?:const|let|var|function|class|interface|type|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	moduleExportListRe = regexp.MustCompile(`^\s*export\s+(?:type\s+)?\{([^}]*)\}\s*;?\s*$`)
	identRe            = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)
)

// loadModule reads and classifies one compiled file.
func loadModule(path string) (*module, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Paths derive from the bundle descriptor
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read bundle input"), "path", path)
	}

	m := &module{Path: path}
	for _, raw := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		line := moduleLine{Text: raw}

		if g := moduleExportFromRe.FindStringSubmatch(raw); g != nil {
			line.Specifier = g[2]
			line.Reexport = true
			if g[1] == "*" {
				line.Star = true
			} else {
				line.Names = aliasedNames(g[1])
				m.Exports = append(m.Exports, line.Names...)
			}
		} else if g := moduleImportRe.FindStringSubmatch(raw); g != nil {
			line.Specifier = g[2]
			line.Names = boundNames(g[1])
		} else if g := moduleExportHeadRe.FindStringSubmatch(raw); g != nil {
			m.Exports = append(m.Exports, g[1])
		} else if g := moduleExportListRe.FindStringSubmatch(raw); g != nil {
			names := aliasedNames("{" + g[1] + "}")
			line.Names = names
			m.Exports = append(m.Exports, names...)
		}

		m.Lines = append(m.Lines, line)
	}
	return m, nil
}

// aliasedNames extracts the surface names of "{a, b as c}": the post-"as"
// side, the one visible to importers.
func aliasedNames(clause string) []string {
	open := strings.Index(clause, "{")
	end := strings.Index(clause, "}")
	if open < 0 || end < open {
		return nil
	}
	var names []string
	for _, part := range strings.Split(clause[open+1:end], ",") {
		name := strings.TrimSpace(part)
		if alias := strings.Split(name, " as "); len(alias) == 2 {
			name = strings.TrimSpace(alias[1])
		}
		name = strings.TrimSpace(strings.TrimPrefix(name, "type "))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// boundNames extracts every identifier an import clause binds locally,
// covering named, aliased, default and namespace forms.
func boundNames(clause string) []string {
	if clause == "" {
		return nil
	}
	var names []string
	if open := strings.Index(clause, "{"); open >= 0 {
		names = aliasedNames(clause)
		clause = clause[:open]
	}
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "* as "))
		if identRe.MatchString(part) {
			names = append(names, identRe.FindString(part))
		}
	}
	return names
}
