// Package format holds the output-language strategies used by section
// generators and by the marker protocol.
//
// A Formatter knows the syntax of one target language: headings, tables,
// code fences, and the comment syntax that keeps markers invisible once the
// document is rendered.
package format

import (
	"fmt"
	"sort"

	"git.home.luguber.info/inful/dokumentor/internal/content"
)

// Range is a half-open byte range [Start, End) of a source document.
type Range struct {
	Start int
	End   int
}

// Overlaps reports whether r intersects [start, end).
func (r Range) Overlaps(start, end int) bool {
	return start < r.End && end > r.Start
}

// Formatter renders structural elements of one output language.
type Formatter interface {
	// Language is the registry name of the formatter (for example "markdown").
	Language() string

	// Comment wraps c in the language's invisible comment syntax.
	Comment(c content.Content) content.Content
	// Uncomment returns the inner text when line is exactly one comment.
	Uncomment(line []byte) (string, bool)
	// CommentSpans returns the byte ranges of every comment on line.
	CommentSpans(line []byte) []Range
	// CodeRanges returns the byte ranges of src occupied by code blocks and
	// inline code.
	CodeRanges(src []byte) []Range

	Heading(c content.Content, level int) content.Content
	Paragraph(c content.Content) content.Content
	Bold(c content.Content) content.Content
	Italic(c content.Content) content.Content
	InlineCode(c content.Content) content.Content
	Code(c content.Content, language string) content.Content
	Link(text content.Content, url string) content.Content
	Image(alt content.Content, url string) content.Content
	Table(headers []content.Content, rows [][]content.Content) content.Content
	List(items []content.Content, ordered bool) content.Content
	Center(c content.Content) content.Content
	HorizontalRule() content.Content
	LineBreak() content.Content
	Escape(c content.Content) content.Content
}

// UnsupportedFormatError reports a formatter name with no registered implementation.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q", e.Name)
}

var registry = map[string]func() Formatter{
	"markdown": func() Formatter { return NewMarkdown() },
	"md":       func() Formatter { return NewMarkdown() },
}

// Get returns a new formatter for the named language.
func Get(name string) (Formatter, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, &UnsupportedFormatError{Name: name}
	}
	return factory(), nil
}

// Languages lists the registered formatter names.
func Languages() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
