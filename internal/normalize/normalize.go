// Package normalize runs the per-document transform pipeline: preamble and
// noise stripping, link absolutization, and mermaid diagram sanitation.
package normalize

import (
	"sort"

	"git.home.luguber.info/inful/docnorm/internal/config"
	"git.home.luguber.info/inful/docnorm/internal/mermaid"
)

// Document is the unit flowing through the pipeline. Transforms mutate
// Content in place; Diagrams accumulates what the mermaid stage did.
type Document struct {
	RelPath  string
	Content  string
	Diagrams mermaid.Stats
}

// Transform is one content transformation stage. Lower priority runs first.
type Transform interface {
	Name() string
	Priority() int
	Apply(doc *Document) error
}

// Normalizer owns an ordered transform pipeline built from configuration.
type Normalizer struct {
	transforms []Transform
}

// New assembles the full pipeline in its canonical order. The order is part
// of the tool's observable behavior: anchor rewriting must run before blob-SHA
// stripping so section links end up SHA-less.
func New(cfg *config.Config) *Normalizer {
	ts := []Transform{
		stripPreambleTransform{},
		linkCopiedTransform{},
		noiseLineTransform{prefixes: cfg.NoiseLinePrefixes},
		internalLinksTransform{},
		newSectionLinksTransform(cfg.SectionAnchors),
		blobSHATransform{},
		mermaidTransform{},
	}
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].Priority() == ts[j].Priority() {
			return ts[i].Name() < ts[j].Name()
		}
		return ts[i].Priority() < ts[j].Priority()
	})
	return &Normalizer{transforms: ts}
}

// Transforms returns the pipeline stages in execution order.
func (n *Normalizer) Transforms() []Transform { return n.transforms }

// Process runs the pipeline over one document and reports whether the
// content changed.
func (n *Normalizer) Process(doc *Document) (changed bool, err error) {
	original := doc.Content
	for _, t := range n.transforms {
		if err := t.Apply(doc); err != nil {
			return false, err
		}
	}
	return doc.Content != original, nil
}

// ProcessText is a convenience wrapper for callers without path context.
func (n *Normalizer) ProcessText(text string) (string, bool, error) {
	doc := &Document{Content: text}
	changed, err := n.Process(doc)
	if err != nil {
		return "", false, err
	}
	return doc.Content, changed, nil
}
