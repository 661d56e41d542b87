// Package migration rewrites section markers written by other README
// generators into dokumentor markers, so an existing document can be adopted
// without losing its generated regions.
//
// Rewriting is a single regular expression pass per marker family. Foreign
// documents are not guaranteed to be well nested, so a malformed source can
// leave mismatched markers behind; the next synchronization reports those.
package migration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/marker"
	"git.home.luguber.info/inful/dokumentor/internal/markdown"
	"git.home.luguber.info/inful/dokumentor/internal/render"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

// Adapter migrates the markers of one foreign tool.
type Adapter interface {
	Name() string
	// SupportsDestination reports whether the file holds at least one marker
	// of the tool. A missing file is not supported.
	SupportsDestination(path string) (bool, error)
	// Migrate rewrites every recognised marker in c, giving each rewritten
	// marker a line of its own. Unrecognised text, including markers for
	// unmapped sections, is returned unchanged.
	Migrate(c content.Content) content.Content
	// MigrateDocumentation reads destination through r and queues the
	// migrated document. r must be uninitialized or already initialized for
	// destination. The caller finalizes r.
	MigrateDocumentation(destination string, r render.Renderer) error
}

// UnsupportedToolError reports a tool name with no registered adapter.
type UnsupportedToolError struct {
	Name      string
	Available []string
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("unsupported migration tool %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Tool is a regular expression driven Adapter.
//
// Each pattern must define a "section" group naming the foreign section. A
// "kind" group matching start or end marks one side of a pair; patterns
// without it match self-closing markers, which become an empty region.
type Tool struct {
	name     string
	patterns []*regexp.Regexp
	sections map[string]section.ID
	protocol *marker.Protocol
}

func newTool(name string, p *marker.Protocol, sections map[string]section.ID, patterns ...string) *Tool {
	t := &Tool{name: name, sections: sections, protocol: p}
	for _, expr := range patterns {
		t.patterns = append(t.patterns, regexp.MustCompile(expr))
	}
	return t
}

func (t *Tool) Name() string { return t.name }

func (t *Tool) SupportsDestination(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, ferrors.FileSystemError("failed to read destination").
			WithCause(err).
			WithContext("destination", path).
			Build()
	}
	for _, re := range t.patterns {
		if re.Match(data) {
			return true, nil
		}
	}
	return false, nil
}

func (t *Tool) Migrate(c content.Content) content.Content {
	src := c.Bytes()
	var edits []markdown.Edit
	for _, re := range t.patterns {
		sectionGroup := re.SubexpIndex("section")
		kindGroup := re.SubexpIndex("kind")
		for _, m := range re.FindAllSubmatchIndex(src, -1) {
			name := strings.ToLower(string(src[m[2*sectionGroup]:m[2*sectionGroup+1]]))
			id, ok := t.sections[name]
			if !ok {
				continue
			}
			var repl content.Content
			switch {
			case kindGroup < 0 || m[2*kindGroup] < 0:
				repl = t.protocol.Start(id).Append("\n").Concat(t.protocol.End(id))
			case strings.EqualFold(string(src[m[2*kindGroup]:m[2*kindGroup+1]]), "start"):
				repl = t.protocol.Start(id)
			default:
				repl = t.protocol.End(id)
			}
			edits = append(edits, markdown.Edit{Start: m[0], End: m[1], Replacement: repl})
		}
	}

	out, err := markdown.Apply(c, onOwnLines(src, markdown.Disjoint(edits)))
	if err != nil {
		return c
	}
	return out
}

// onOwnLines breaks lines around rewritten markers that share their line with
// other text, since native markers are only recognised on a line of their
// own. edits must be in source order.
func onOwnLines(src []byte, edits []markdown.Edit) []markdown.Edit {
	for i, e := range edits {
		before := src[bytes.LastIndexByte(src[:e.Start], '\n')+1 : e.Start]
		if len(bytes.TrimSpace(before)) > 0 && (i == 0 || edits[i-1].End != e.Start) {
			e.Replacement = content.FromString("\n").Concat(e.Replacement)
		}
		after := src[e.End:]
		if nl := bytes.IndexByte(after, '\n'); nl >= 0 {
			after = after[:nl]
		}
		if len(bytes.TrimSpace(after)) > 0 {
			e.Replacement = e.Replacement.Append("\n")
		}
		edits[i] = e
	}
	return edits
}

func (t *Tool) MigrateDocumentation(destination string, r render.Renderer) error {
	switch r.Destination() {
	case "":
		if err := r.Initialize(destination, t.protocol.Formatter()); err != nil {
			return err
		}
	case destination:
	default:
		return ferrors.MigrationError("renderer is initialized for another destination").
			WithContext("destination", destination).
			WithContext("initialized", r.Destination()).
			Build()
	}
	return r.ReplaceContent(t.Migrate(r.Original()))
}
