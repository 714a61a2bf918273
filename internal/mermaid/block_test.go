package mermaid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDocument_RelocatesInsideFencedBlock(t *testing.T) {
	doc := strings.Join([]string{
		"# Title",
		"",
		"Some prose.",
		"",
		"```mermaid",
		"flowchart TD",
		`    A -->|"yes"| B`,
		"    B --> C",
		"    B --> D",
		`    C["Success"]`,
		`    D["Error: timeout"]`,
		"```",
		"",
		"Trailing prose.",
		"",
	}, "\n")

	got, stats := SanitizeDocument(doc)

	assert.Contains(t, got, `B -->|"yes"| C`)
	assert.Contains(t, got, "    A --> B\n")
	assert.Contains(t, got, "# Title")
	assert.Contains(t, got, "Trailing prose.")
	assert.Equal(t, 1, stats.Blocks)
	assert.Equal(t, 1, stats.Flowcharts)
	assert.Equal(t, 1, stats.Relocated)
}

func TestSanitizeDocument_Idempotent(t *testing.T) {
	doc := strings.Join([]string{
		"intro",
		"```mermaid",
		"flowchart TD",
		`    A -->|"no"| B`,
		"    B --> C",
		"    B --> D",
		`    C["Ready"]`,
		`    D["Blocked: missing"]`,
		"```",
		"outro",
		"",
	}, "\n")

	once, _ := SanitizeDocument(doc)
	twice, _ := SanitizeDocument(once)
	require.Equal(t, once, twice)
}

func TestSanitizeDocument_StableWhenAlreadyCorrect(t *testing.T) {
	// The label already sits on the edge that scores highest; a re-run must
	// not shuffle anything.
	doc := strings.Join([]string{
		"```mermaid",
		"flowchart TD",
		"A --> B",
		`B -->|"yes"| C`,
		"B --> D",
		`C["Ready"]`,
		`D["Blocked: missing"]`,
		"```",
		"",
	}, "\n")

	got, stats := SanitizeDocument(doc)
	assert.Equal(t, doc, got)
	assert.Equal(t, 0, stats.Relocated)
}

func TestSanitizeDocument_NonFlowchartSkipsResolution(t *testing.T) {
	doc := strings.Join([]string{
		"```mermaid",
		"sequenceDiagram",
		`    participant A`,
		`    Note right of A: see B["- broken"]`,
		"    A-->B",
		"```",
		"",
	}, "\n")

	got, stats := SanitizeDocument(doc)

	// Labels are sanitized in every mermaid block...
	assert.Contains(t, got, `B["Unsupported markdown: list"]`)
	// ...but edge lines are not rewritten outside flowcharts.
	assert.Contains(t, got, "    A-->B")
	assert.Equal(t, 0, stats.Flowcharts)
}

func TestSanitizeDocument_PassThroughOutsideBlocks(t *testing.T) {
	doc := strings.Join([]string{
		"A --> B",
		`X["- not a diagram"]`,
		"```go",
		`fmt.Println("A --> B")`,
		"```",
		"",
	}, "\n")

	got, stats := SanitizeDocument(doc)
	assert.Equal(t, doc, got)
	assert.Equal(t, 0, stats.Blocks)
}

func TestSanitizeDocument_UnparseableLinesAreInert(t *testing.T) {
	doc := strings.Join([]string{
		"```mermaid",
		"flowchart LR",
		"   %% comment line",
		"   subgraph cluster",
		"   A --> B",
		"   end",
		"   not (an) edge --> at all!",
		"```",
		"",
	}, "\n")

	got, _ := SanitizeDocument(doc)
	assert.Contains(t, got, "   %% comment line")
	assert.Contains(t, got, "   subgraph cluster")
	assert.Contains(t, got, "   not (an) edge --> at all!")
}

func TestSanitizeDocument_MultipleBlocksAreIndependent(t *testing.T) {
	doc := strings.Join([]string{
		"```mermaid",
		"flowchart TD",
		`A -->|"yes"| B`,
		"B --> C",
		"B --> D",
		`C["Success"]`,
		`D["Timeout"]`,
		"```",
		"between",
		"```mermaid",
		"flowchart TD",
		`A -->|"yes"| B`,
		"B --> C",
		"B --> D",
		`C["Failure"]`,
		`D["Proceed"]`,
		"```",
		"",
	}, "\n")

	got, stats := SanitizeDocument(doc)

	require.Equal(t, 2, stats.Blocks)
	assert.Equal(t, 2, stats.Relocated)
	// First block: positive label lands on Success; second on Proceed.
	first := got[:strings.Index(got, "between")]
	second := got[strings.Index(got, "between"):]
	assert.Contains(t, first, `B -->|"yes"| C`)
	assert.Contains(t, second, `B -->|"yes"| D`)
}

func TestSanitizeDocument_UnterminatedFinalBlock(t *testing.T) {
	doc := strings.Join([]string{
		"prose",
		"```mermaid",
		"flowchart TD",
		`A -->|"yes"| B`,
		"B --> C",
		"B --> D",
		`C["Success"]`,
		`D["Invalid input"]`,
	}, "\n") + "\n"

	got, stats := SanitizeDocument(doc)
	assert.Equal(t, 1, stats.Blocks)
	assert.Contains(t, got, `B -->|"yes"| C`)
}
