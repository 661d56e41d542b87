package migration

import (
	"sort"

	"git.home.luguber.info/inful/dokumentor/internal/format"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/marker"
)

// Registry holds the adapters available to the migrate command.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry returns a registry with every built-in tool, emitting markers
// with formatter f.
func NewRegistry(f format.Formatter) *Registry {
	p := marker.NewProtocol(f)
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(NewActdocs(p))
	r.Register(NewActionDocs(p))
	r.Register(NewAutoDoc(p))
	r.Register(NewGitHubActionReadmeGenerator(p))
	return r
}

// Register adds or replaces an adapter.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the named adapter without touching the filesystem.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, ferrors.ValidationError("cannot migrate documentation").
			WithCause(&UnsupportedToolError{Name: name, Available: r.Names()}).
			Build()
	}
	return a, nil
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns the adapters whose markers appear in path, sorted by name.
func (r *Registry) Detect(path string) ([]Adapter, error) {
	var found []Adapter
	for _, name := range r.Names() {
		ok, err := r.adapters[name].SupportsDestination(path)
		if err != nil {
			return nil, err
		}
		if ok {
			found = append(found, r.adapters[name])
		}
	}
	return found, nil
}
