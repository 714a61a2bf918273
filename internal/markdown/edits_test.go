package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdits(t *testing.T) {
	source := []byte("0123456789")

	t.Run("no edits returns source", func(t *testing.T) {
		out, err := ApplyEdits(source, nil)
		require.NoError(t, err)
		assert.Equal(t, source, out)
	})

	t.Run("single replacement", func(t *testing.T) {
		out, err := ApplyEdits(source, []Edit{{Start: 2, End: 5, Replacement: []byte("XY")}})
		require.NoError(t, err)
		assert.Equal(t, "01XY56789", string(out))
	})

	t.Run("multiple edits applied independently of order", func(t *testing.T) {
		edits := []Edit{
			{Start: 0, End: 1, Replacement: []byte("A")},
			{Start: 8, End: 10, Replacement: []byte("B")},
			{Start: 4, End: 4, Replacement: []byte("+")},
		}
		out, err := ApplyEdits(source, edits)
		require.NoError(t, err)
		assert.Equal(t, "A123+4567B", string(out))
	})

	t.Run("insertion at end", func(t *testing.T) {
		out, err := ApplyEdits(source, []Edit{{Start: 10, End: 10, Replacement: []byte("!")}})
		require.NoError(t, err)
		assert.Equal(t, "0123456789!", string(out))
	})

	t.Run("overlap rejected", func(t *testing.T) {
		_, err := ApplyEdits(source, []Edit{
			{Start: 2, End: 6, Replacement: []byte("x")},
			{Start: 5, End: 8, Replacement: []byte("y")},
		})
		assert.Error(t, err)
	})

	t.Run("out of bounds rejected", func(t *testing.T) {
		_, err := ApplyEdits(source, []Edit{{Start: 4, End: 11, Replacement: nil}})
		assert.Error(t, err)
	})

	t.Run("negative start rejected", func(t *testing.T) {
		_, err := ApplyEdits(source, []Edit{{Start: -1, End: 2, Replacement: nil}})
		assert.Error(t, err)
	})
}
