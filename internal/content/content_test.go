package content

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytes_CopiesInput(t *testing.T) {
	src := []byte("hello")
	c := FromBytes(src)
	src[0] = 'J'

	assert.Equal(t, "hello", c.String())
}

func TestBytes_DoesNotExposeBackingArray(t *testing.T) {
	c := FromString("hello")
	b := c.Bytes()
	b[0] = 'J'

	assert.Equal(t, "hello", c.String())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Content{}.IsEmpty())
	assert.True(t, FromString("").IsEmpty())
	assert.True(t, FromBytes(nil).IsEmpty())
	assert.False(t, FromString(" ").IsEmpty())
	assert.True(t, FromString(" \n\t").IsBlank())
}

func TestConcat_IsAssociative(t *testing.T) {
	a, b, c := FromString("a"), FromString("bb"), FromString("ccc")

	left := a.Concat(b).Concat(c)
	right := a.Concat(b.Concat(c))

	assert.True(t, left.Equal(right))
	assert.Equal(t, "abbccc", left.String())
	assert.Equal(t, "a", a.String(), "receiver must not change")
}

func TestJoin(t *testing.T) {
	sep := FromString("\n\n")
	assert.Equal(t, "", Join(sep).String())
	assert.Equal(t, "one", Join(sep, FromString("one")).String())
	assert.Equal(t, "one\n\ntwo\n\nthree", Join(sep, FromString("one"), FromString("two"), FromString("three")).String())
}

func TestTrimBlankLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank only", "\n  \n\t\n", ""},
		{"keeps indentation", "\n\n    code\nmore\n\n\n", "    code\nmore"},
		{"crlf", "\r\n\r\nbody\r\n\r\n", "body"},
		{"no change", "text", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromString(tt.in).TrimBlankLines().String())
		})
	}
}

func TestEscape(t *testing.T) {
	c := FromString("a|b*c")

	assert.Equal(t, `a\|b\*c`, c.Escape("|*").String())
	assert.True(t, c.Escape("#").Equal(c), "characters absent from the input leave it unchanged")
	assert.True(t, c.Escape("").Equal(c))
	assert.Equal(t, "a|b*c", c.String())
}

func TestLines(t *testing.T) {
	assert.Nil(t, Content{}.Lines())

	lines := FromString("one\r\ntwo\nthree\n").Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "one", lines[0].String())
	assert.Equal(t, "two", lines[1].String())
	assert.Equal(t, "three", lines[2].String())
}

func TestPredicates(t *testing.T) {
	c := FromString("<!-- inputs:start -->\nbody\n")

	assert.True(t, c.HasPrefix(FromString("<!--")))
	assert.True(t, c.HasSuffix("\n"))
	assert.True(t, c.Contains(FromString("body")))
	assert.Equal(t, "<!-- inputs:start -->\nBODY\n", c.ReplaceAll("body", "BODY").String())
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := FromString("data").WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, "data", buf.String())
}
