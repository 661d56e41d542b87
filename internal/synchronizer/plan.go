// Package synchronizer merges freshly generated sections into an existing
// document. Regions between markers are owned and replaced; every other byte
// of the document is preserved.
package synchronizer

import (
	"errors"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/marker"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

var (
	// ErrDuplicateEntry is returned when a plan names a section twice.
	ErrDuplicateEntry = errors.New("section listed more than once")
	// ErrMarkerInContent is returned when generated content would be read back
	// as marker structure.
	ErrMarkerInContent = errors.New("section content contains marker lines")
	// ErrUnstableOutput is returned when a synchronized document does not
	// parse back to the planned sections.
	ErrUnstableOutput = errors.New("synchronized document does not round-trip")
)

// Entry is one generated section. Its rank is its position in the plan.
type Entry struct {
	ID      section.ID
	Content content.Content
}

// Plan is a validated, ordered list of entries.
type Plan struct {
	protocol *marker.Protocol
	entries  []Entry
}

// NewPlan validates entries against the default marker protocol.
func NewPlan(entries ...Entry) (*Plan, error) {
	return NewPlanFor(marker.Default, entries...)
}

// NewPlanFor validates entries for protocol p. All checks run before any
// document is read.
func NewPlanFor(p *marker.Protocol, entries ...Entry) (*Plan, error) {
	seen := make(map[section.ID]struct{}, len(entries))
	for _, e := range entries {
		if !e.ID.Valid() {
			return nil, ferrors.ValidationError("invalid section entry").
				WithCause(&section.UnknownIdentifierError{Name: string(e.ID)}).
				Build()
		}
		if _, dup := seen[e.ID]; dup {
			return nil, ferrors.ValidationError("invalid section entry").
				WithCause(ErrDuplicateEntry).
				WithContext("section", string(e.ID)).
				Build()
		}
		seen[e.ID] = struct{}{}

		if !e.Content.IsBlank() && !wrapsCleanly(p, e) {
			return nil, ferrors.ValidationError("invalid section entry").
				WithCause(ErrMarkerInContent).
				WithContext("section", string(e.ID)).
				Build()
		}
	}
	return &Plan{protocol: p, entries: append([]Entry(nil), entries...)}, nil
}

// wrapsCleanly reports whether the wrapped entry parses back to exactly its
// own region.
func wrapsCleanly(p *marker.Protocol, e Entry) bool {
	blocks, err := p.Parse(p.Wrap(e.ID, e.Content))
	return err == nil && len(blocks) == 1 && blocks[0].Kind == marker.Owned && blocks[0].ID == e.ID
}

// Entries returns a copy of the plan's entries in order.
func (p *Plan) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// IDs returns the identifiers that produce a region, in order. Entries
// with blank content are excluded.
func (p *Plan) IDs() []section.ID {
	ids := make([]section.ID, 0, len(p.entries))
	for _, e := range p.entries {
		if !e.Content.IsBlank() {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Protocol returns the marker protocol the plan was validated for.
func (p *Plan) Protocol() *marker.Protocol {
	return p.protocol
}
