package normalize

import "git.home.luguber.info/inful/docnorm/internal/mermaid"

// mermaidTransform runs diagram sanitation last, after all link rewriting,
// so it sees the final label text.
type mermaidTransform struct{}

func (mermaidTransform) Name() string  { return "sanitize_mermaid" }
func (mermaidTransform) Priority() int { return 70 }

func (mermaidTransform) Apply(doc *Document) error {
	out, stats := mermaid.SanitizeDocument(doc.Content)
	doc.Content = out
	doc.Diagrams.Blocks += stats.Blocks
	doc.Diagrams.Flowcharts += stats.Flowcharts
	doc.Diagrams.Relocated += stats.Relocated
	return nil
}
