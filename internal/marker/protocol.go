// Package marker implements the comment markers that delimit the regions
// dokumentor owns inside a destination document, and the parser that splits a
// document into owned and untouched blocks.
//
// A region looks like this in markdown:
//
//	<!-- inputs:start -->
//
//	| Input | Description |
//	...
//
//	<!-- inputs:end -->
//
// Markers are one per line; a marker sharing its line with other text makes
// the document malformed. Marker-shaped text inside code blocks and inline
// code is ordinary text.
package marker

import (
	"bytes"
	"strings"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

const (
	startSuffix = "start"
	endSuffix   = "end"
)

// Protocol emits and recognises markers using a formatter's comment syntax.
type Protocol struct {
	formatter format.Formatter
}

// Default is the markdown protocol.
var Default = NewProtocol(format.NewMarkdown())

// NewProtocol returns a protocol for f.
func NewProtocol(f format.Formatter) *Protocol {
	return &Protocol{formatter: f}
}

// Formatter returns the formatter the protocol writes comments with.
func (p *Protocol) Formatter() format.Formatter {
	return p.formatter
}

// Start returns the opening marker for id.
func (p *Protocol) Start(id section.ID) content.Content {
	return p.formatter.Comment(content.FromString(string(id) + ":" + startSuffix))
}

// End returns the closing marker for id.
func (p *Protocol) End(id section.ID) content.Content {
	return p.formatter.Comment(content.FromString(string(id) + ":" + endSuffix))
}

// Wrap returns the owned region for id holding body, trimmed of surrounding
// blank lines. The region ends with a newline.
func (p *Protocol) Wrap(id section.ID, body content.Content) content.Content {
	return p.Start(id).
		Append("\n\n").
		Concat(body.TrimBlankLines()).
		Append("\n\n").
		Concat(p.End(id)).
		Append("\n")
}

// ContainsMarker reports whether c holds a marker for a canonical identifier
// outside code, on its own line or inline.
func (p *Protocol) ContainsMarker(c content.Content) bool {
	s := p.newScanner(c.Bytes())
	for s.next() {
		if _, _, ok := s.marker(); ok {
			return true
		}
	}
	return false
}

type markerKind int

const (
	kindStart markerKind = iota
	kindEnd
)

type parsedMarker struct {
	id   section.ID
	kind markerKind
	// column is the byte offset of the marker within its line.
	column int
}

// match decodes a single line. The comment body is split at its last colon so
// that whitespace around the parts is tolerated.
func (p *Protocol) match(line []byte) (parsedMarker, bool) {
	if !bytes.Contains(line, []byte(":")) {
		return parsedMarker{}, false
	}
	inner, ok := p.formatter.Uncomment(line)
	if !ok {
		return parsedMarker{}, false
	}
	sep := strings.LastIndexByte(inner, ':')
	if sep < 0 {
		return parsedMarker{}, false
	}
	id, err := section.Parse(inner[:sep])
	if err != nil {
		return parsedMarker{}, false
	}
	switch strings.ToLower(strings.TrimSpace(inner[sep+1:])) {
	case startSuffix:
		return parsedMarker{id: id, kind: kindStart}, true
	case endSuffix:
		return parsedMarker{id: id, kind: kindEnd}, true
	}
	return parsedMarker{}, false
}

// scanner walks a document line by line. Code ranges are computed on the first
// candidate marker only, so documents without markers are never parsed as
// markdown.
type scanner struct {
	p      *Protocol
	src    []byte
	start  int
	end    int
	code   []format.Range
	parsed bool
}

func (p *Protocol) newScanner(src []byte) *scanner {
	return &scanner{p: p, src: src}
}

func (s *scanner) next() bool {
	if s.end >= len(s.src) {
		return false
	}
	s.start = s.end
	if nl := bytes.IndexByte(s.src[s.start:], '\n'); nl >= 0 {
		s.end = s.start + nl + 1
	} else {
		s.end = len(s.src)
	}
	return true
}

func (s *scanner) line() []byte {
	return s.src[s.start:s.end]
}

// marker decodes the current line. inline is set when a marker comment shares
// the line with other text.
func (s *scanner) marker() (m parsedMarker, inline, ok bool) {
	line := s.line()
	if !bytes.Contains(line, []byte(":")) {
		return parsedMarker{}, false, false
	}
	if m, ok := s.p.match(line); ok {
		if s.inCode(s.start, s.end) {
			return parsedMarker{}, false, false
		}
		return m, false, true
	}
	for _, r := range s.p.formatter.CommentSpans(line) {
		m, ok := s.p.match(line[r.Start:r.End])
		if !ok || s.inCode(s.start+r.Start, s.start+r.End) {
			continue
		}
		m.column = r.Start
		return m, true, true
	}
	return parsedMarker{}, false, false
}

func (s *scanner) inCode(start, end int) bool {
	if !s.parsed {
		s.code = s.p.formatter.CodeRanges(s.src)
		s.parsed = true
	}
	for _, r := range s.code {
		if r.Overlaps(start, end) {
			return true
		}
	}
	return false
}
