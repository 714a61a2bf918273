package mermaid

import "fmt"

// RewriteLines serializes every modeled edge back onto its source line,
// preserving the original indent and arrow glyphs. Rewriting is idempotent:
// unchanged edges re-serialize to their canonical form. Lines that were not
// modeled as edges are left untouched.
func (m *Model) RewriteLines(lines []string) {
	for _, e := range m.Edges {
		if e.HasLabel && e.Label != "" {
			lines[e.Position] = fmt.Sprintf("%s%s %s|\"%s\"| %s", e.Indent, e.Source, e.Arrow, e.Label, e.Destination)
		} else {
			lines[e.Position] = fmt.Sprintf("%s%s %s %s", e.Indent, e.Source, e.Arrow, e.Destination)
		}
	}
}
