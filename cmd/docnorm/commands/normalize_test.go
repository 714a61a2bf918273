package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnorm/internal/errors"
)

func testRoot(t *testing.T) *CLI {
	t.Helper()
	// Point at a missing config file so defaults apply.
	return &CLI{Config: filepath.Join(t.TempDir(), "config.yaml")}
}

func TestNormalize_RequiresOutputOrInPlace(t *testing.T) {
	cmd := &NormalizeCmd{Input: t.TempDir()}
	err := cmd.Run(&Global{}, testRoot(t))
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))
}

func TestNormalize_RequiresInput(t *testing.T) {
	cmd := &NormalizeCmd{Output: t.TempDir()}
	err := cmd.Run(&Global{}, testRoot(t))
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))
}

func TestNormalize_InPlaceRejectsOutput(t *testing.T) {
	cmd := &NormalizeCmd{Input: t.TempDir(), Output: t.TempDir(), InPlace: true}
	err := cmd.Run(&Global{}, testRoot(t))
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))
}

func TestNormalize_BranchRequiresRepo(t *testing.T) {
	cmd := &NormalizeCmd{Input: t.TempDir(), InPlace: true, Branch: "main"}
	err := cmd.Run(&Global{}, testRoot(t))
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))
}

func TestNormalize_EndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "doc.md"),
		[]byte("export junk\n# Title\nLink copied!\nSee [a](/org/repo/file.md).\n"), 0o644))

	cmd := &NormalizeCmd{Input: in, Output: out}
	require.NoError(t, cmd.Run(&Global{}, testRoot(t)))

	got, err := os.ReadFile(filepath.Join(out, "doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\nSee [a](https://github.com/org/repo/file.md).\n", string(got))
}

func TestNormalize_DryRunWritesNothing(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "doc.md"), []byte("junk\n# Title\n"), 0o644))

	cmd := &NormalizeCmd{Input: in, Output: out, DryRun: true}
	require.NoError(t, cmd.Run(&Global{}, testRoot(t)))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNormalize_OrdinalsRenameAfterMirroring(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "README.md"), []byte("- [Intro](intro.md)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "intro.md"), []byte("# Intro\n"), 0o644))

	cmd := &NormalizeCmd{Input: in, Output: out, Ordinals: true}
	require.NoError(t, cmd.Run(&Global{}, testRoot(t)))

	_, err := os.Stat(filepath.Join(out, "01-intro.md"))
	assert.NoError(t, err)
	readme, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "](01-intro.md)")
	// The input tree is untouched.
	_, err = os.Stat(filepath.Join(in, "intro.md"))
	assert.NoError(t, err)
}

func TestInit_WritesConfig(t *testing.T) {
	root := testRoot(t)
	cmd := &InitCmd{}
	require.NoError(t, cmd.Run(&Global{}, root))

	data, err := os.ReadFile(root.Config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "section_anchors")

	// Refuses to overwrite without --force.
	err = cmd.Run(&Global{}, root)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.CategoryOf(err))

	force := &InitCmd{Force: true}
	require.NoError(t, force.Run(&Global{}, root))
}
