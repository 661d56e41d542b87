package marker

import (
	"fmt"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

// Kind classifies a Block.
type Kind int

const (
	// Untouched text is never modified by dokumentor.
	Untouched Kind = iota
	// Owned text lies between a start and an end marker.
	Owned
)

func (k Kind) String() string {
	if k == Owned {
		return "owned"
	}
	return "untouched"
}

// Block is one contiguous piece of a parsed document.
type Block struct {
	Kind Kind
	// ID is set for owned blocks.
	ID section.ID
	// Body is the text strictly between the marker lines of an owned block.
	Body content.Content
	// Raw is the exact source text of the block, marker lines included.
	Raw content.Content
	// Offset is the byte offset of Raw in the source.
	Offset int
}

// MalformedDocumentError reports marker structure that cannot be
// synchronized safely.
type MalformedDocumentError struct {
	ID     section.ID
	Offset int
	Line   int
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed document at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed document at line %d (section %s): %s", e.Line, e.ID, e.Reason)
}

// Parse splits doc into blocks in a single forward pass. Concatenating the
// Raw text of the returned blocks reproduces doc exactly.
func (p *Protocol) Parse(doc content.Content) ([]Block, error) {
	src := doc.Bytes()
	if len(src) == 0 {
		return nil, nil
	}

	var (
		blocks    []Block
		textStart int
		open      section.ID
		openAt    int
		bodyAt    int
		lineNo    int
		openLine  int
	)
	seen := make(map[section.ID]struct{})
	malformed := func(id section.ID, offset, line int, format string, args ...any) error {
		return &MalformedDocumentError{ID: id, Offset: offset, Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	s := p.newScanner(src)
	for s.next() {
		lineNo++
		m, inline, ok := s.marker()
		if !ok {
			continue
		}
		if inline {
			return nil, malformed(m.id, s.start+m.column, lineNo, "marker must be on its own line")
		}
		switch m.kind {
		case kindStart:
			if open != "" {
				return nil, malformed(m.id, s.start, lineNo, "start marker inside open section %q", open)
			}
			if _, dup := seen[m.id]; dup {
				return nil, malformed(m.id, s.start, lineNo, "section appears more than once")
			}
			if s.start > textStart {
				blocks = append(blocks, untouched(src, textStart, s.start))
			}
			open, openAt, bodyAt, openLine = m.id, s.start, s.end, lineNo
		case kindEnd:
			if open == "" {
				return nil, malformed(m.id, s.start, lineNo, "end marker without matching start")
			}
			if m.id != open {
				return nil, malformed(m.id, s.start, lineNo, "end marker does not match open section %q", open)
			}
			blocks = append(blocks, Block{
				Kind:   Owned,
				ID:     open,
				Body:   content.FromBytes(src[bodyAt:s.start]),
				Raw:    content.FromBytes(src[openAt:s.end]),
				Offset: openAt,
			})
			seen[open] = struct{}{}
			open = ""
			textStart = s.end
		}
	}
	if open != "" {
		return nil, malformed(open, openAt, openLine, "start marker without matching end")
	}
	if textStart < len(src) {
		blocks = append(blocks, untouched(src, textStart, len(src)))
	}
	return blocks, nil
}

func untouched(src []byte, start, end int) Block {
	return Block{Kind: Untouched, Raw: content.FromBytes(src[start:end]), Offset: start}
}

// Parse splits doc with the default protocol.
func Parse(doc content.Content) ([]Block, error) {
	return Default.Parse(doc)
}
