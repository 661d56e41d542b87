// Package markdown applies byte-range edits to markdown sources without
// re-rendering them, so bytes outside the edited ranges are kept exactly.
package markdown

import (
	"errors"
	"fmt"
	"sort"

	"git.home.luguber.info/inful/dokumentor/internal/content"
)

// ErrOverlappingEdits is returned by Apply when two edits share bytes.
var ErrOverlappingEdits = errors.New("invalid edits: overlapping ranges")

// Edit replaces source[Start:End] with Replacement. Offsets refer to the
// original source; End is exclusive.
type Edit struct {
	Start       int
	End         int
	Replacement content.Content
}

// Apply returns source with every edit applied. Edits may be given in any
// order but must not overlap.
func Apply(source content.Content, edits []Edit) (content.Content, error) {
	if len(edits) == 0 {
		return source, nil
	}
	sorted := sortEdits(edits)

	src := source.Bytes()
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < 0:
			return content.Content{}, fmt.Errorf("invalid edit[%d]: negative range", i)
		case e.End < e.Start:
			return content.Content{}, fmt.Errorf("invalid edit[%d]: end before start", i)
		case e.End > len(src):
			return content.Content{}, fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		case i > 0 && e.Start < sorted[i-1].End:
			return content.Content{}, ErrOverlappingEdits
		}
	}

	parts := make([]content.Content, 0, 2*len(sorted)+1)
	pos := 0
	for _, e := range sorted {
		parts = append(parts, content.FromBytes(src[pos:e.Start]), e.Replacement)
		pos = e.End
	}
	parts = append(parts, content.FromBytes(src[pos:]))
	return content.Join(content.Content{}, parts...), nil
}

// Disjoint returns the edits in source order, dropping every edit that
// overlaps one kept before it.
func Disjoint(edits []Edit) []Edit {
	sorted := sortEdits(edits)
	kept := sorted[:0]
	end := -1
	for _, e := range sorted {
		if e.Start < end {
			continue
		}
		kept = append(kept, e)
		end = e.End
	}
	return kept
}

// sortEdits orders a copy of edits by start offset, longer edits first on ties.
func sortEdits(edits []Edit) []Edit {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}
