package render

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
)

const diffContext = 3

// DiffRenderer reports the change it would make as a unified diff and never
// writes to the filesystem.
type DiffRenderer struct {
	session
}

// NewDiffRenderer returns a dry-run renderer.
func NewDiffRenderer(opts ...Option) *DiffRenderer {
	return &DiffRenderer{session: newSession(opts)}
}

// Finalize returns the unified diff between the destination and its new
// content, or an empty string when nothing changes.
func (r *DiffRenderer) Finalize() (string, error) {
	out, err := r.render()
	if err != nil {
		return "", err
	}
	if !r.changed {
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(r.original.String()),
		B:        splitLines(out.String()),
		FromFile: "a/" + r.destination,
		ToFile:   "b/" + r.destination,
		Context:  diffContext,
	})
	if err != nil {
		return "", ferrors.InternalError("failed to compute diff").
			WithCause(err).
			WithContext("destination", r.destination).
			Build()
	}
	r.logger.Debug("Computed diff", logfields.Destination(r.destination), logfields.DryRun(true))
	return diff, nil
}

const noNewline = "\\ No newline at end of file\n"

// splitLines splits s into newline-terminated lines. Unlike difflib.SplitLines
// it does not report a trailing empty line. An unterminated last line carries
// the "\ No newline at end of file" annotation, so a change to the final
// newline alone still shows in the diff.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n" + noNewline
	}
	return lines
}
