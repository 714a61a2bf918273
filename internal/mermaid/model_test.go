package mermaid

import "testing"

func TestParseBlock_EdgePatterns(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantEdge bool
		indent   string
		src      string
		arrow    string
		dst      string
		label    string
		hasLabel bool
	}{
		{
			name:     "plain arrow",
			line:     "A --> B",
			wantEdge: true,
			src:      "A", arrow: "-->", dst: "B",
		},
		{
			name:     "indented edge keeps indent",
			line:     "    Node1 --> Node2",
			wantEdge: true,
			indent:   "    ",
			src:      "Node1", arrow: "-->", dst: "Node2",
		},
		{
			name:     "dotted arrow",
			line:     "A -.-> B",
			wantEdge: true,
			src:      "A", arrow: "-.->", dst: "B",
		},
		{
			name:     "thick arrow",
			line:     "A ==> B",
			wantEdge: true,
			src:      "A", arrow: "==>", dst: "B",
		},
		{
			name:     "long arrow",
			line:     "A ---> B",
			wantEdge: true,
			src:      "A", arrow: "--->", dst: "B",
		},
		{
			name:     "labeled edge",
			line:     `A -->|"yes"| B`,
			wantEdge: true,
			src:      "A", arrow: "-->", dst: "B",
			label:    "yes", hasLabel: true,
		},
		{
			name:     "explicitly empty label still counts as labeled",
			line:     `A -->|""| B`,
			wantEdge: true,
			src:      "A", arrow: "-->", dst: "B",
			label:    "", hasLabel: true,
		},
		{
			name:     "trailing whitespace tolerated",
			line:     "A --> B   ",
			wantEdge: true,
			src:      "A", arrow: "-->", dst: "B",
		},
		{
			name:     "trailing text disqualifies the line",
			line:     "A --> B and more",
			wantEdge: false,
		},
		{
			name:     "node declaration is not an edge",
			line:     `A["Some label"]`,
			wantEdge: false,
		},
		{
			name:     "bidirectional style is not recognized",
			line:     "A <--> B",
			wantEdge: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseBlock([]string{tt.line})
			if !tt.wantEdge {
				if len(m.Edges) != 0 {
					t.Fatalf("expected no edge for %q, got %+v", tt.line, m.Edges[0])
				}
				return
			}
			if len(m.Edges) != 1 {
				t.Fatalf("expected one edge for %q, got %d", tt.line, len(m.Edges))
			}
			e := m.Edges[0]
			if e.Indent != tt.indent || e.Source != tt.src || e.Arrow != tt.arrow || e.Destination != tt.dst {
				t.Errorf("parsed %+v, want indent=%q src=%q arrow=%q dst=%q", e, tt.indent, tt.src, tt.arrow, tt.dst)
			}
			if e.Label != tt.label || e.HasLabel != tt.hasLabel {
				t.Errorf("label = (%q,%v), want (%q,%v)", e.Label, e.HasLabel, tt.label, tt.hasLabel)
			}
		})
	}
}

func TestParseBlock_NodeLabels(t *testing.T) {
	lines := []string{
		"flowchart TD",
		`A["First declaration"]`,
		`B["Other node"]`,
		`A["Second declaration"]`,
		`["no id on this line"]`,
		"A --> B",
	}
	m := ParseBlock(lines)

	if got := m.NodeLabels["A"]; got != "Second declaration" {
		t.Errorf("later declaration should win, got %q", got)
	}
	if got := m.NodeLabels["B"]; got != "Other node" {
		t.Errorf("NodeLabels[B] = %q", got)
	}
	if len(m.NodeLabels) != 2 {
		t.Errorf("expected 2 node labels, got %v", m.NodeLabels)
	}
}

func TestParseBlock_OutgoingIndexPreservesFileOrder(t *testing.T) {
	lines := []string{
		"B --> Z",
		"A --> C",
		"B --> Y",
		"B --> X",
	}
	m := ParseBlock(lines)

	want := []int{0, 2, 3}
	got := m.Outgoing["B"]
	if len(got) != len(want) {
		t.Fatalf("Outgoing[B] = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Outgoing[B] = %v, want %v", got, want)
		}
	}
	if m.Edges[got[0]].Destination != "Z" || m.Edges[got[1]].Destination != "Y" || m.Edges[got[2]].Destination != "X" {
		t.Errorf("outgoing index out of file order")
	}
}

func TestRewriteLines_Idempotent(t *testing.T) {
	lines := []string{
		"flowchart TD",
		"  A -->|\"yes\"| B",
		"  B -.-> C",
		"  %% a comment the model ignores",
	}
	m := ParseBlock(lines)
	m.RewriteLines(lines)

	if lines[1] != "  A -->|\"yes\"| B" {
		t.Errorf("labeled edge changed: %q", lines[1])
	}
	if lines[2] != "  B -.-> C" {
		t.Errorf("unlabeled edge changed: %q", lines[2])
	}
	if lines[3] != "  %% a comment the model ignores" {
		t.Errorf("non-edge line changed: %q", lines[3])
	}
}

func TestRewriteLines_NormalizesSpacing(t *testing.T) {
	lines := []string{"A-->B", `C  ==>|"no"|   D`}
	m := ParseBlock(lines)
	m.RewriteLines(lines)

	if lines[0] != "A --> B" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[1] != `C ==>|"no"| D` {
		t.Errorf("lines[1] = %q", lines[1])
	}
}
