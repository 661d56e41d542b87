package format

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/dokumentor/internal/content"
)

// markdownSpecials are the characters Escape protects in free text.
const markdownSpecials = "\\`*_[]<>|"

var (
	commentLine = regexp.MustCompile(`^<!--\s*(.*?)\s*-->$`)
	commentSpan = regexp.MustCompile(`<!--.*?-->`)
)

// Markdown is a GitHub flavoured markdown formatter.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown returns a markdown formatter.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New()}
}

func (m *Markdown) Language() string { return "markdown" }

func (m *Markdown) Comment(c content.Content) content.Content {
	return content.FromString("<!-- ").Concat(c).Append(" -->")
}

func (m *Markdown) Uncomment(line []byte) (string, bool) {
	match := commentLine.FindSubmatch(bytes.TrimSpace(line))
	if match == nil {
		return "", false
	}
	return string(match[1]), true
}

// CommentSpans returns the byte ranges of the comments on line.
func (m *Markdown) CommentSpans(line []byte) []Range {
	var spans []Range
	for _, loc := range commentSpan.FindAllIndex(line, -1) {
		spans = append(spans, Range{Start: loc[0], End: loc[1]})
	}
	return spans
}

// CodeRanges parses src with goldmark and reports fenced and indented code
// blocks and inline code spans.
func (m *Markdown) CodeRanges(src []byte) []Range {
	if len(src) == 0 {
		return nil
	}
	root := m.md.Parser().Parse(text.NewReader(src))

	var ranges []Range
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch n.Kind() {
		case gmast.KindFencedCodeBlock, gmast.KindCodeBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				ranges = append(ranges, Range{
					Start: lines.At(0).Start,
					End:   lines.At(lines.Len() - 1).Stop,
				})
			}
			return gmast.WalkSkipChildren, nil
		case gmast.KindCodeSpan:
			if r, ok := spanRange(n); ok {
				ranges = append(ranges, r)
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return ranges
}

// spanRange covers the text segments of a code span.
func spanRange(n gmast.Node) (Range, bool) {
	r := Range{Start: -1}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := child.(*gmast.Text)
		if !ok {
			continue
		}
		if r.Start < 0 {
			r.Start = t.Segment.Start
		}
		r.End = t.Segment.Stop
	}
	return r, r.Start >= 0
}

func (m *Markdown) Heading(c content.Content, level int) content.Content {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return content.FromString(strings.Repeat("#", level) + " ").Concat(c.TrimSpace()).Append("\n")
}

func (m *Markdown) Paragraph(c content.Content) content.Content {
	return c.TrimBlankLines().Append("\n")
}

func (m *Markdown) Bold(c content.Content) content.Content {
	return content.FromString("**").Concat(c).Append("**")
}

func (m *Markdown) Italic(c content.Content) content.Content {
	return content.FromString("*").Concat(c).Append("*")
}

// InlineCode uses a backtick run longer than any run inside c. Content holding
// a backtick is padded with spaces so it never touches the fence.
func (m *Markdown) InlineCode(c content.Content) content.Content {
	inner := c.String()
	fence := strings.Repeat("`", longestRun(inner, '`')+1)
	if strings.Contains(inner, "`") {
		inner = " " + inner + " "
	}
	return content.FromString(fence + inner + fence)
}

// Code renders a fenced block whose fence is longer than any backtick run in c.
func (m *Markdown) Code(c content.Content, language string) content.Content {
	fence := strings.Repeat("`", max(3, longestRun(c.String(), '`')+1))
	body := strings.TrimRight(c.String(), "\n")
	return content.FromString(fence + language + "\n" + body + "\n" + fence + "\n")
}

func (m *Markdown) Link(text content.Content, url string) content.Content {
	return content.FromString("[").Concat(text).Append("](" + url + ")")
}

func (m *Markdown) Image(alt content.Content, url string) content.Content {
	return content.FromString("![").Concat(alt).Append("](" + url + ")")
}

// Table renders a GitHub table. Cells are flattened to one line and pipes escaped.
func (m *Markdown) Table(headers []content.Content, rows [][]content.Content) content.Content {
	if len(headers) == 0 {
		return content.Content{}
	}
	var b strings.Builder
	writeRow := func(cells []content.Content) {
		b.WriteString("|")
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = tableCell(cells[i])
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return content.FromString(b.String())
}

func (m *Markdown) List(items []content.Content, ordered bool) content.Content {
	var b strings.Builder
	for i, item := range items {
		prefix := "- "
		if ordered {
			prefix = strconv.Itoa(i+1) + ". "
		}
		b.WriteString(prefix + strings.ReplaceAll(item.TrimBlankLines().String(), "\n", "\n"+strings.Repeat(" ", len(prefix))) + "\n")
	}
	return content.FromString(b.String())
}

func (m *Markdown) Center(c content.Content) content.Content {
	return content.FromString("<div align=\"center\">\n\n").Concat(c.TrimBlankLines()).Append("\n\n</div>\n")
}

func (m *Markdown) HorizontalRule() content.Content { return content.FromString("---\n") }

func (m *Markdown) LineBreak() content.Content { return content.FromString("\n") }

func (m *Markdown) Escape(c content.Content) content.Content {
	return c.Escape(markdownSpecials)
}

func tableCell(c content.Content) string {
	s := strings.TrimSpace(strings.ReplaceAll(c.String(), "\r\n", "\n"))
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br />")
}

func longestRun(s string, r byte) int {
	longest, current := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == r {
			current++
			longest = max(longest, current)
			continue
		}
		current = 0
	}
	return longest
}
