package pdfexport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessMermaid_KeepsCodeBlockWithoutMmdc(t *testing.T) {
	e := &Exporter{hasMmdc: false}
	in := "before\n```mermaid\nflowchart TD\n    A --> B\n```\nafter\n"

	got := e.processMermaid(context.Background(), in, t.TempDir(), "sec1-doc")

	assert.Contains(t, got, "before\n")
	assert.Contains(t, got, "after\n")
	assert.Contains(t, got, "\n```\nflowchart TD\n    A --> B\n\n```\n")
	assert.NotContains(t, got, "```mermaid", "info string is dropped so pandoc treats it as plain code")
}

func TestProcessMermaid_NonMermaidFencesUntouched(t *testing.T) {
	e := &Exporter{hasMmdc: false}
	in := "```go\nfunc main() {}\n```\n"

	got := e.processMermaid(context.Background(), in, t.TempDir(), "p")
	assert.Equal(t, in, got)
}

func TestConsolidateProject_OrderAndTitleStripping(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Project Title\nintro text\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02-b.md"), []byte("# B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-a.md"), []byte("# A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	e := &Exporter{hasMmdc: false}
	got, err := e.consolidateProject(context.Background(), dir, t.TempDir())
	require.NoError(t, err)

	assert.NotContains(t, got, "# Project Title", "README heading is dropped")
	assert.Contains(t, got, "intro text")

	posA := strings.Index(got, "# A")
	posB := strings.Index(got, "# B")
	require.GreaterOrEqual(t, posA, 0)
	require.GreaterOrEqual(t, posB, 0)
	assert.Less(t, posA, posB, "sections follow file-name order")
	assert.Contains(t, got, "\n\n---\n\n")
}

func TestSortedMarkdownFiles_ExcludesReadme(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"README.md", "z.md", "a.md", "sub"} {
		if name == "sub" {
			require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := sortedMarkdownFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.md", filepath.Base(files[0]))
	assert.Equal(t, "z.md", filepath.Base(files[1]))
}

func TestTitlePage_EscapesUnderscores(t *testing.T) {
	got := titlePage("my_project")
	assert.Contains(t, got, `my\_project`)
	assert.Contains(t, got, `\begin{titlepage}`)
}

