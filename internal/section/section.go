// Package section defines the canonical section identifiers that name the
// regions dokumentor owns inside a destination document.
package section

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/dokumentor/internal/foundation"
)

// ID names one logical region of a generated document.
type ID string

const (
	Header       ID = "header"
	Overview     ID = "overview"
	Usage        ID = "usage"
	Inputs       ID = "inputs"
	Outputs      ID = "outputs"
	Secrets      ID = "secrets"
	Examples     ID = "examples"
	Contributing ID = "contributing"
	Security     ID = "security"
	License      ID = "license"
	Generated    ID = "generated"
)

// canonical is the default document ordering.
var canonical = []ID{
	Header,
	Overview,
	Usage,
	Inputs,
	Outputs,
	Secrets,
	Examples,
	Contributing,
	Security,
	License,
	Generated,
}

var normalizer = func() *foundation.Normalizer[ID] {
	values := make(map[string]ID, len(canonical))
	for _, id := range canonical {
		values[string(id)] = id
	}
	return foundation.NewNormalizer(values, ID(""))
}()

// UnknownIdentifierError reports a section name outside the canonical set.
type UnknownIdentifierError struct {
	Name string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown section identifier %q", e.Name)
}

// All returns the canonical identifiers in default document order.
func All() []ID {
	return append([]ID(nil), canonical...)
}

// Parse converts a user or document supplied name into an ID.
func Parse(name string) (ID, error) {
	id, ok := normalizer.Lookup(name)
	if !ok {
		return "", &UnknownIdentifierError{Name: name}
	}
	return id, nil
}

// ParseList parses every name, failing on the first unknown one.
func ParseList(names []string) ([]ID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ids := make([]ID, 0, len(names))
	for _, name := range names {
		id, err := Parse(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Valid reports whether id is canonical.
func (id ID) Valid() bool {
	return id.Rank() >= 0
}

// Rank returns the position of id in the default ordering, or -1.
func (id ID) Rank() int {
	for i, c := range canonical {
		if c == id {
			return i
		}
	}
	return -1
}

// Title returns the human readable heading for the section.
// A Caser is stateful, so one is built per call.
func (id ID) Title() string {
	return cases.Title(language.English).String(string(id))
}

func (id ID) String() string {
	return string(id)
}
