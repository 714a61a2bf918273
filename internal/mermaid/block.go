package mermaid

import (
	"strings"

	"git.home.luguber.info/inful/docnorm/internal/markdown"
)

// Stats summarizes what one document-level sanitation pass did.
type Stats struct {
	Blocks     int // mermaid blocks visited
	Flowcharts int // blocks that went through branch resolution
	Relocated  int // branch labels moved
}

// SanitizeDocument rewrites every mermaid block in a markdown document.
// All blocks have their node labels sanitized; blocks classified as
// flowcharts additionally run branch-label relocation. Everything outside
// the blocks is reproduced byte-for-byte.
func SanitizeDocument(text string) (string, Stats) {
	var stats Stats
	source := []byte(text)

	var edits []markdown.Edit
	for _, block := range markdown.FindFencedBlocks(source, "mermaid") {
		stats.Blocks++

		lines, trailingNewline := block.BodyLines(source)
		if lines == nil {
			continue
		}
		relocated, flowchart := sanitizeBlock(lines)
		stats.Relocated += relocated
		if flowchart {
			stats.Flowcharts++
		}

		body := strings.Join(lines, "\n")
		if trailingNewline {
			body += "\n"
		}
		if body == block.Body(source) {
			continue
		}
		edits = append(edits, markdown.Edit{Start: block.Start, End: block.End, Replacement: []byte(body)})
	}

	out, err := markdown.ApplyEdits(source, edits)
	if err != nil {
		// Block ranges come straight from the parser and never overlap;
		// treat a failure as "no change" rather than corrupting the document.
		return text, stats
	}
	return string(out), stats
}

// sanitizeBlock mutates the block lines in place and reports how many branch
// labels were relocated and whether the block was a flowchart.
func sanitizeBlock(lines []string) (relocated int, flowchart bool) {
	sanitized := SanitizeNodeLabels(lines)
	copy(lines, sanitized)

	if !isFlowchart(lines) {
		return 0, false
	}
	model := ParseBlock(lines)
	relocated = model.RelocateBranchLabels()
	model.RewriteLines(lines)
	return relocated, true
}

// isFlowchart classifies the block by its first non-blank line: only a
// flowchart/graph declaration enables branch resolution.
func isFlowchart(lines []string) bool {
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		return strings.HasPrefix(stripped, "flowchart") || strings.HasPrefix(stripped, "graph")
	}
	return false
}
