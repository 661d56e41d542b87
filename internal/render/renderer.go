// Package render turns a set of generated sections into the final state of a
// destination document, either by writing the file or by describing the
// change as a unified diff.
package render

import (
	"io/fs"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
	"git.home.luguber.info/inful/dokumentor/internal/marker"
	"git.home.luguber.info/inful/dokumentor/internal/section"
	"git.home.luguber.info/inful/dokumentor/internal/synchronizer"
)

// Renderer accumulates sections for one destination and produces its new
// content on Finalize. A renderer is used for a single destination and is not
// safe for concurrent use.
type Renderer interface {
	// Initialize reads the destination. A missing file is empty content.
	Initialize(destination string, f format.Formatter) error
	// WriteSection queues a section. Blank content removes the section.
	WriteSection(id section.ID, c content.Content) error
	// ReplaceContent sets the whole document, bypassing section merging.
	ReplaceContent(c content.Content) error
	// Finalize computes the new document and applies the strategy.
	Finalize() (string, error)

	Destination() string
	Formatter() format.Formatter
	// Original is the destination content read by Initialize.
	Original() content.Content
	// Changed reports whether Finalize produced content different from Original.
	Changed() bool
}

// Option configures a renderer.
type Option func(*session)

// WithLogger sets the renderer's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *session) { s.logger = l }
}

// New returns a DiffRenderer when dryRun is set and a FileRenderer otherwise.
func New(dryRun bool, opts ...Option) Renderer {
	if dryRun {
		return NewDiffRenderer(opts...)
	}
	return NewFileRenderer(opts...)
}

// session holds the state shared by every strategy.
type session struct {
	logger      *slog.Logger
	destination string
	formatter   format.Formatter
	protocol    *marker.Protocol
	original    content.Content
	mode        fs.FileMode
	entries     []synchronizer.Entry
	replacement *content.Content
	initialized bool
	finalized   bool
	changed     bool
}

func newSession(opts []Option) session {
	s := session{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s *session) Initialize(destination string, f format.Formatter) error {
	if s.initialized {
		return ferrors.InternalError("renderer already initialized").
			WithContext("destination", destination).
			Build()
	}
	if destination == "" {
		return ferrors.ValidationError("destination path is required").Build()
	}

	s.mode = 0o644
	data, err := os.ReadFile(destination)
	switch {
	case err == nil:
		if info, statErr := os.Stat(destination); statErr == nil {
			s.mode = info.Mode().Perm()
		}
	case os.IsNotExist(err):
		data = nil
	default:
		return ferrors.FileSystemError("failed to read destination").
			WithCause(err).
			WithContext("destination", destination).
			Build()
	}

	s.destination = destination
	s.formatter = f
	s.protocol = marker.NewProtocol(f)
	s.original = content.FromBytes(data)
	s.initialized = true
	s.logger.Debug("Renderer initialized",
		logfields.Destination(destination),
		slog.Int("bytes", s.original.Len()))
	return nil
}

func (s *session) WriteSection(id section.ID, c content.Content) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !id.Valid() {
		return ferrors.ValidationError("cannot write section").
			WithCause(&section.UnknownIdentifierError{Name: string(id)}).
			Build()
	}
	if s.replacement != nil {
		return ferrors.ValidationError("cannot write sections after the content was replaced").
			WithContext("destination", s.destination).
			Build()
	}
	s.entries = append(s.entries, synchronizer.Entry{ID: id, Content: c})
	return nil
}

func (s *session) ReplaceContent(c content.Content) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(s.entries) > 0 {
		return ferrors.ValidationError("cannot replace content after sections were written").
			WithContext("destination", s.destination).
			Build()
	}
	s.replacement = &c
	return nil
}

func (s *session) Destination() string         { return s.destination }
func (s *session) Formatter() format.Formatter { return s.formatter }
func (s *session) Original() content.Content   { return s.original }
func (s *session) Changed() bool               { return s.changed }

func (s *session) ready() error {
	if !s.initialized {
		return ferrors.InternalError("renderer used before Initialize").Build()
	}
	if s.finalized {
		return ferrors.InternalError("renderer already finalized").
			WithContext("destination", s.destination).
			Build()
	}
	return nil
}

// render computes the new document. Without queued sections or a
// replacement the original is returned unchanged.
func (s *session) render() (content.Content, error) {
	if err := s.ready(); err != nil {
		return content.Content{}, err
	}
	s.finalized = true

	var out content.Content
	switch {
	case s.replacement != nil:
		out = *s.replacement
	case len(s.entries) == 0:
		out = s.original
	default:
		plan, err := synchronizer.NewPlanFor(s.protocol, s.entries...)
		if err != nil {
			return content.Content{}, err
		}
		out, err = synchronizer.Synchronize(s.original, plan, synchronizer.WithLogger(s.logger))
		if err != nil {
			return content.Content{}, err
		}
	}
	s.changed = !out.Equal(s.original)
	return out, nil
}
