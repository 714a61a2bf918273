package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFencedBlocks(t *testing.T) {
	source := []byte("# Doc\n\n```mermaid\nflowchart TD\n    A --> B\n```\n\n```go\nfunc main() {}\n```\n")

	t.Run("filter by info substring", func(t *testing.T) {
		blocks := FindFencedBlocks(source, "mermaid")
		require.Len(t, blocks, 1)
		assert.Equal(t, "mermaid", blocks[0].Info)
		assert.Equal(t, "flowchart TD\n    A --> B\n", blocks[0].Body(source))
	})

	t.Run("empty filter matches all", func(t *testing.T) {
		blocks := FindFencedBlocks(source, "")
		assert.Len(t, blocks, 2)
	})

	t.Run("body offsets round-trip", func(t *testing.T) {
		blocks := FindFencedBlocks(source, "go")
		require.Len(t, blocks, 1)
		b := blocks[0]
		assert.Equal(t, "func main() {}\n", string(source[b.Start:b.End]))
	})
}

func TestFindFencedBlocks_EmptyBodyOmitted(t *testing.T) {
	source := []byte("```mermaid\n```\n")
	assert.Empty(t, FindFencedBlocks(source, "mermaid"))
}

func TestFindFencedBlocks_UnterminatedFence(t *testing.T) {
	source := []byte("intro\n\n```mermaid\nflowchart TD\n    A --> B\n")
	blocks := FindFencedBlocks(source, "mermaid")
	require.Len(t, blocks, 1)
	assert.Equal(t, "flowchart TD\n    A --> B\n", blocks[0].Body(source))
}

func TestBodyLines(t *testing.T) {
	source := []byte("```mermaid\nflowchart TD\n    A --> B\n```\n")
	blocks := FindFencedBlocks(source, "mermaid")
	require.Len(t, blocks, 1)

	lines, trailing := blocks[0].BodyLines(source)
	assert.True(t, trailing)
	assert.Equal(t, []string{"flowchart TD", "    A --> B"}, lines)
}
