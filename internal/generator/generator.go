// Package generator produces the content of each documentation section from
// a parsed manifest.
//
// Generators are plain values registered in a Registry at startup. A
// generator that has nothing to say about a manifest returns empty content,
// which removes the section from the destination.
package generator

import (
	"log/slog"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
	"git.home.luguber.info/inful/dokumentor/internal/manifest"
	"git.home.luguber.info/inful/dokumentor/internal/repository"
	"git.home.luguber.info/inful/dokumentor/internal/section"
	"git.home.luguber.info/inful/dokumentor/internal/synchronizer"
)

// SectionGenerator renders one section.
type SectionGenerator interface {
	ID() section.ID
	// Generate renders the section. repo may be nil.
	Generate(m *manifest.Manifest, f format.Formatter, repo *repository.Info) (content.Content, error)
}

// Registry maps section identifiers to generators.
type Registry struct {
	generators map[section.ID]SectionGenerator
}

// NewRegistry returns a registry holding gens.
func NewRegistry(gens ...SectionGenerator) *Registry {
	r := &Registry{generators: make(map[section.ID]SectionGenerator, len(gens))}
	for _, g := range gens {
		r.Register(g)
	}
	return r
}

// Default returns a registry with every built-in generator.
func Default() *Registry {
	return NewRegistry(
		Header{},
		Overview{},
		Usage{},
		Inputs{},
		Outputs{},
		Secrets{},
		Contributing{},
		Security{},
		License{},
		Generated{},
	)
}

// Register adds g, replacing any generator with the same ID.
func (r *Registry) Register(g SectionGenerator) {
	r.generators[g.ID()] = g
}

// Get returns the generator for id.
func (r *Registry) Get(id section.ID) (SectionGenerator, bool) {
	g, ok := r.generators[id]
	return g, ok
}

// IDs returns the registered identifiers in canonical order.
func (r *Registry) IDs() []section.ID {
	var ids []section.ID
	for _, id := range section.All() {
		if _, ok := r.generators[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Generate runs the selected generators in order. Sections without a
// registered generator are skipped.
func (r *Registry) Generate(m *manifest.Manifest, f format.Formatter, repo *repository.Info, sel Selection) ([]synchronizer.Entry, error) {
	var entries []synchronizer.Entry
	for _, id := range sel.Resolve() {
		g, ok := r.generators[id]
		if !ok {
			continue
		}
		c, err := g.Generate(m, f, repo)
		if err != nil {
			return nil, ferrors.InternalError("section generation failed").
				WithCause(err).
				WithContext("section", string(id)).
				WithContext("manifest", m.Path).
				Build()
		}
		slog.Debug("Generated section", logfields.Section(string(id)), slog.Int("bytes", c.Len()))
		entries = append(entries, synchronizer.Entry{ID: id, Content: c})
	}
	return entries, nil
}

// Selection picks and orders sections. Order lists sections that come
// first; the remaining sections follow in canonical order. An empty Include
// keeps every section.
type Selection struct {
	Include []section.ID
	Exclude []section.ID
	Order   []section.ID
}

// Resolve returns the selected identifiers in document order.
func (s Selection) Resolve() []section.ID {
	ordered := make([]section.ID, 0, len(section.All()))
	for _, id := range append(slices.Clone(s.Order), section.All()...) {
		if id.Valid() && !slices.Contains(ordered, id) {
			ordered = append(ordered, id)
		}
	}
	return slices.DeleteFunc(ordered, func(id section.ID) bool {
		if len(s.Include) > 0 && !slices.Contains(s.Include, id) {
			return true
		}
		return slices.Contains(s.Exclude, id)
	})
}

// titled renders a level two heading titled after id followed by body.
func titled(f format.Formatter, id section.ID, body content.Content) content.Content {
	return f.Heading(content.FromString(id.Title()), 2).Append("\n").Concat(body)
}

// info never returns nil.
func info(repo *repository.Info) *repository.Info {
	if repo == nil {
		return &repository.Info{}
	}
	return repo
}

// relativeToManifest returns the slash separated path of rel (relative to
// the repository root) as seen from the manifest's directory.
func relativeToManifest(m *manifest.Manifest, repo *repository.Info, rel string) string {
	dir, err := filepath.Abs(filepath.Dir(m.Path))
	if err != nil || repo.RootDir == "" {
		return filepath.ToSlash(rel)
	}
	root, err := filepath.Abs(repo.RootDir)
	if err != nil {
		return filepath.ToSlash(rel)
	}
	out, err := filepath.Rel(dir, filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(out)
}
