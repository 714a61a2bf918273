// Package mermaid repairs mermaid diagram markup in exported documentation:
// node labels carrying unsupported markdown are replaced with placeholders,
// and yes/no/true/false branch labels that the exporter attached to the wrong
// edge are relocated onto the correct outgoing edge of the decision node.
package mermaid

import (
	"regexp"
	"strings"
)

var (
	// IDENT["display text"], non-greedy so multiple labels on one line each match.
	nodeLabelRe = regexp.MustCompile(`\["(.*?)"\]`)

	// [indent]SRC ARROW DST with an optional |"label"| directly after the arrow,
	// and nothing else on the line. ARROW is one or more of -.= followed by >.
	edgeRe = regexp.MustCompile(`^(\s*)([A-Za-z0-9_]+)\s*([-.=]+>)\s*(?:\|"([^"]*)"\|\s*)?([A-Za-z0-9_]+)\s*$`)
)

// Edge is one directed connection parsed from a diagram line.
//
// Position is the index of the source line within the block so the rewriter
// can put the result back in place. HasLabel distinguishes an absent label
// from an explicitly empty |""| one: only truly unlabeled edges are valid
// relocation targets.
type Edge struct {
	Position    int
	Indent      string
	Source      string
	Destination string
	Arrow       string
	Label       string
	HasLabel    bool
}

// Model is the structural view of one flowchart block: the edge list in file
// order, the node-id to display-text lookup, and the per-source outgoing
// index the resolver queries. All of it is rebuilt per block and discarded
// after the block is rewritten.
type Model struct {
	Edges      []*Edge
	NodeLabels map[string]string
	Outgoing   map[string][]int
}

// ParseBlock builds the edge model from the raw lines of one diagram block.
// Lines matching neither the node-declaration nor the edge pattern are not
// modeled; the rewriter reproduces them verbatim.
func ParseBlock(lines []string) *Model {
	m := &Model{
		NodeLabels: make(map[string]string),
		Outgoing:   make(map[string][]int),
	}

	for idx, line := range lines {
		if lm := nodeLabelRe.FindStringSubmatch(line); lm != nil {
			// Node id is whatever precedes the first [" on the line.
			// A repeated declaration overwrites the earlier one.
			prefix := strings.TrimSpace(line[:strings.Index(line, `["`)])
			if prefix != "" {
				m.NodeLabels[prefix] = lm[1]
			}
		}

		em := edgeRe.FindStringSubmatchIndex(line)
		if em == nil {
			continue
		}
		edge := &Edge{
			Position:    idx,
			Indent:      line[em[2]:em[3]],
			Source:      line[em[4]:em[5]],
			Arrow:       line[em[6]:em[7]],
			Destination: line[em[10]:em[11]],
		}
		if em[8] >= 0 {
			edge.Label = line[em[8]:em[9]]
			edge.HasLabel = true
		}
		m.Outgoing[edge.Source] = append(m.Outgoing[edge.Source], len(m.Edges))
		m.Edges = append(m.Edges, edge)
	}

	return m
}
