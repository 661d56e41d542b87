// Package content provides Content, the immutable text value passed between
// generators, formatters, the synchronizer and renderers.
//
// Content never exposes its backing array: constructors copy their input and
// Bytes returns a copy, so a value can be shared freely across goroutines.
package content

import (
	"bytes"
	"io"
	"strings"
)

// Content is an immutable sequence of bytes. The zero value is empty.
type Content struct {
	data []byte
}

// FromBytes returns Content holding a copy of b.
func FromBytes(b []byte) Content {
	if len(b) == 0 {
		return Content{}
	}
	return Content{data: append([]byte(nil), b...)}
}

// FromString returns Content holding s.
func FromString(s string) Content {
	if s == "" {
		return Content{}
	}
	return Content{data: []byte(s)}
}

// Join concatenates parts, inserting sep between consecutive parts.
func Join(sep Content, parts ...Content) Content {
	switch len(parts) {
	case 0:
		return Content{}
	case 1:
		return parts[0]
	}
	size := len(sep.data) * (len(parts) - 1)
	for _, p := range parts {
		size += len(p.data)
	}
	out := make([]byte, 0, size)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep.data...)
		}
		out = append(out, p.data...)
	}
	return Content{data: out}
}

// Bytes returns a copy of the underlying bytes.
func (c Content) Bytes() []byte {
	return append([]byte(nil), c.data...)
}

// String returns the content as a string.
func (c Content) String() string {
	return string(c.data)
}

// Len returns the length in bytes.
func (c Content) Len() int {
	return len(c.data)
}

// IsEmpty reports whether the content has zero length.
func (c Content) IsEmpty() bool {
	return len(c.data) == 0
}

// IsBlank reports whether the content holds only whitespace.
func (c Content) IsBlank() bool {
	return len(bytes.TrimSpace(c.data)) == 0
}

// Equal reports whether both values hold the same bytes.
func (c Content) Equal(other Content) bool {
	return bytes.Equal(c.data, other.data)
}

// Concat returns c followed by others.
func (c Content) Concat(others ...Content) Content {
	return Join(Content{}, append([]Content{c}, others...)...)
}

// Append returns c followed by s.
func (c Content) Append(s string) Content {
	return c.Concat(FromString(s))
}

// HasPrefix reports whether c begins with prefix.
func (c Content) HasPrefix(prefix Content) bool {
	return bytes.HasPrefix(c.data, prefix.data)
}

// HasSuffix reports whether c ends with s.
func (c Content) HasSuffix(s string) bool {
	return bytes.HasSuffix(c.data, []byte(s))
}

// Contains reports whether sub occurs within c.
func (c Content) Contains(sub Content) bool {
	return bytes.Contains(c.data, sub.data)
}

// TrimSpace removes leading and trailing whitespace.
func (c Content) TrimSpace() Content {
	return FromBytes(bytes.TrimSpace(c.data))
}

// TrimBlankLines removes leading whitespace-only lines and all trailing
// whitespace. Indentation of the first non-blank line is kept.
func (c Content) TrimBlankLines() Content {
	data := bytes.TrimRight(c.data, " \t\r\n")
	for len(data) > 0 {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 || len(bytes.TrimSpace(data[:nl])) > 0 {
			break
		}
		data = data[nl+1:]
	}
	return FromBytes(data)
}

// Escape returns a copy of c in which every byte found in chars is prefixed
// with a backslash. chars is a set of ASCII control characters; characters
// absent from c leave it unchanged.
func (c Content) Escape(chars string) Content {
	if chars == "" || !bytes.ContainsAny(c.data, chars) {
		return c
	}
	out := make([]byte, 0, len(c.data)+8)
	for _, b := range c.data {
		if strings.IndexByte(chars, b) >= 0 {
			out = append(out, '\\')
		}
		out = append(out, b)
	}
	return Content{data: out}
}

// ReplaceAll returns a copy of c with every old replaced by repl.
func (c Content) ReplaceAll(old, repl string) Content {
	if old == "" || !bytes.Contains(c.data, []byte(old)) {
		return c
	}
	return FromBytes(bytes.ReplaceAll(c.data, []byte(old), []byte(repl)))
}

// Lines splits c on "\n". A trailing newline does not produce an empty last line.
func (c Content) Lines() []Content {
	if len(c.data) == 0 {
		return nil
	}
	data := bytes.TrimSuffix(c.data, []byte("\n"))
	parts := bytes.Split(data, []byte("\n"))
	out := make([]Content, len(parts))
	for i, p := range parts {
		out[i] = FromBytes(bytes.TrimSuffix(p, []byte("\r")))
	}
	return out
}

// WriteTo writes the content to w.
func (c Content) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.data)
	return int64(n), err
}

// Reader returns a reader over the content.
func (c Content) Reader() io.Reader {
	return bytes.NewReader(c.data)
}
