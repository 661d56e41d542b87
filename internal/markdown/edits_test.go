package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dokumentor/internal/content"
)

func edit(src, old, repl string) Edit {
	start := strings.Index(src, old)
	return Edit{Start: start, End: start + len(old), Replacement: content.FromString(repl)}
}

func TestApply_SingleReplacement(t *testing.T) {
	src := "Before <!-- old --> after.\n"
	out, err := Apply(content.FromString(src), []Edit{edit(src, "<!-- old -->", "<!-- new -->")})
	require.NoError(t, err)
	assert.Equal(t, "Before <!-- new --> after.\n", out.String())
}

func TestApply_UnorderedEdits(t *testing.T) {
	src := "A: one\nB: two\n"
	out, err := Apply(content.FromString(src), []Edit{
		edit(src, "two", "2"),
		edit(src, "one", "1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "A: 1\nB: 2\n", out.String())
}

func TestApply_CRLFPreserved(t *testing.T) {
	src := "A: x\r\nB: y\r\n"
	out, err := Apply(content.FromString(src), []Edit{edit(src, "x", "z")})
	require.NoError(t, err)
	assert.Equal(t, "A: z\r\nB: y\r\n", out.String())
}

func TestApply_Insertion(t *testing.T) {
	out, err := Apply(content.FromString("ac"), []Edit{{Start: 1, End: 1, Replacement: content.FromString("b")}})
	require.NoError(t, err)
	assert.Equal(t, "abc", out.String())
}

func TestApply_NoEdits(t *testing.T) {
	src := content.FromString("unchanged")
	out, err := Apply(src, nil)
	require.NoError(t, err)
	assert.True(t, src.Equal(out))
}

func TestApply_Invalid(t *testing.T) {
	src := content.FromString("0123456789")
	tests := []struct {
		name  string
		edits []Edit
	}{
		{"negative", []Edit{{Start: -1, End: 2}}},
		{"end before start", []Edit{{Start: 5, End: 2}}},
		{"out of bounds", []Edit{{Start: 5, End: 20}}},
		{"overlapping", []Edit{{Start: 1, End: 5}, {Start: 4, End: 6}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(src, tt.edits)
			require.Error(t, err)
		})
	}

	_, err := Apply(src, []Edit{{Start: 1, End: 5}, {Start: 2, End: 3}})
	assert.ErrorIs(t, err, ErrOverlappingEdits)
}

func TestDisjoint(t *testing.T) {
	kept := Disjoint([]Edit{
		{Start: 10, End: 12},
		{Start: 0, End: 4},
		{Start: 2, End: 6},
		{Start: 4, End: 8},
	})
	require.Len(t, kept, 3)
	assert.Equal(t, 0, kept[0].Start)
	assert.Equal(t, 4, kept[1].Start)
	assert.Equal(t, 10, kept[2].Start)
}
