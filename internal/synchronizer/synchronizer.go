package synchronizer

import (
	"log/slog"
	"slices"
	"strings"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
	"git.home.luguber.info/inful/dokumentor/internal/marker"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

var separator = content.FromString("\n")

type options struct {
	logger *slog.Logger
}

// Option configures Synchronize.
type Option func(*options)

// WithLogger sets the logger used for debug output about removed and
// relocated regions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// layout is a parsed document split around its owned regions.
type layout struct {
	head  content.Content
	tail  content.Content
	owned []section.ID
	after map[section.ID]content.Content
}

func split(blocks []marker.Block) layout {
	l := layout{after: make(map[section.ID]content.Content)}
	first, last := -1, -1
	for i, b := range blocks {
		if b.Kind == marker.Owned {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		for _, b := range blocks {
			l.head = l.head.Concat(b.Raw)
		}
		return l
	}
	for i, b := range blocks {
		switch {
		case i < first:
			l.head = l.head.Concat(b.Raw)
		case i > last:
			l.tail = l.tail.Concat(b.Raw)
		case b.Kind == marker.Owned:
			l.owned = append(l.owned, b.ID)
		default:
			prev := l.owned[len(l.owned)-1]
			l.after[prev] = l.after[prev].Concat(b.Raw)
		}
	}
	return l
}

// Synchronize returns current with the plan's regions written in plan order.
// The result is a fixpoint: synchronizing it again with the same plan
// returns it unchanged.
func Synchronize(current content.Content, plan *Plan, opts ...Option) (content.Content, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	p := plan.protocol

	blocks, err := p.Parse(current)
	if err != nil {
		return content.Content{}, ferrors.DocumentError("destination has malformed section markers").
			WithCause(err).
			Build()
	}
	doc := split(blocks)

	planned := plan.IDs()
	for _, id := range doc.owned {
		if !slices.Contains(planned, id) {
			o.logger.Debug("Removing section", logfields.Section(string(id)))
		}
	}

	// Text that followed a dropped region moves to the nearest earlier
	// surviving region, or to the end.
	attached := make(map[section.ID][]content.Content)
	var orphans []content.Content
	for i, id := range doc.owned {
		text := interstitial(doc.after[id])
		if text.IsEmpty() {
			continue
		}
		owner := section.ID("")
		for j := i; j >= 0; j-- {
			if slices.Contains(planned, doc.owned[j]) {
				owner = doc.owned[j]
				break
			}
		}
		if owner == "" {
			o.logger.Debug("Relocating text of removed section", logfields.Section(string(id)))
			orphans = append(orphans, text)
			continue
		}
		attached[owner] = append(attached[owner], text)
	}

	var parts []content.Content
	for _, e := range plan.entries {
		if e.Content.IsBlank() {
			continue
		}
		parts = append(parts, p.Wrap(e.ID, e.Content))
		parts = append(parts, attached[e.ID]...)
	}
	parts = append(parts, orphans...)

	var out content.Content
	if !doc.head.IsBlank() {
		out = doc.head
		if len(parts) > 0 {
			out = ensureBlankLine(out)
		}
	}
	out = out.Concat(content.Join(separator, parts...))
	if !doc.tail.IsBlank() {
		if !out.IsEmpty() && !doc.tail.HasPrefix(separator) {
			out = out.Append("\n")
		}
		out = out.Concat(doc.tail)
	}

	if err := verify(p, out, planned); err != nil {
		return content.Content{}, err
	}
	return out, nil
}

// interstitial normalizes text found between two regions. Whitespace-only
// text is dropped.
func interstitial(c content.Content) content.Content {
	if c.IsBlank() {
		return content.Content{}
	}
	return content.FromString(strings.Trim(c.String(), "\r\n") + "\n")
}

func ensureBlankLine(c content.Content) content.Content {
	switch {
	case c.HasSuffix("\n\n"):
		return c
	case c.HasSuffix("\n"):
		return c.Append("\n")
	default:
		return c.Append("\n\n")
	}
}

func verify(p *marker.Protocol, out content.Content, planned []section.ID) error {
	blocks, err := p.Parse(out)
	if err != nil {
		return ferrors.DocumentError("synchronized document is malformed").
			WithCause(ErrUnstableOutput).
			WithContext("parse_error", err.Error()).
			Build()
	}
	var got []section.ID
	for _, b := range blocks {
		if b.Kind == marker.Owned {
			got = append(got, b.ID)
		}
	}
	if !slices.Equal(got, planned) {
		return ferrors.DocumentError("synchronized document does not contain the planned sections").
			WithCause(ErrUnstableOutput).
			Build()
	}
	return nil
}
