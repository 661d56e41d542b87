package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// flag accepts both YAML booleans and quoted booleans such as 'true', which
// are common in action.yml files.
type flag bool

func (f *flag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a boolean", value.Line)
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid boolean %q", value.Line, value.Value)
	}
	*f = flag(b)
	return nil
}

type rawParameter struct {
	Description        string    `yaml:"description"`
	Required           flag      `yaml:"required"`
	Type               string    `yaml:"type"`
	DeprecationMessage string    `yaml:"deprecationMessage"`
	Options            []string  `yaml:"options"`
	Default            yaml.Node `yaml:"default"`
}

type rawSecret struct {
	Description string `yaml:"description"`
	Required    flag   `yaml:"required"`
}

func document(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return nil
}

// lookup returns the value of key in mapping n, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// pairs calls fn for every key of mapping n in declaration order.
func pairs(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func scalar(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

// value renders any node as text. Sequences and mappings use YAML flow style.
func value(n *yaml.Node) string {
	if n == nil || n.Kind == 0 {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		return scalar(n)
	}
	flow := *n
	flow.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&flow)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// parameters parses an inputs mapping. With requiredWithoutDefault set, an
// input is required exactly when it declares no default.
func parameters(n *yaml.Node, requiredWithoutDefault bool) ([]Parameter, error) {
	var params []Parameter
	err := pairs(n, func(name string, v *yaml.Node) error {
		var raw rawParameter
		if v.Kind == yaml.MappingNode {
			if err := v.Decode(&raw); err != nil {
				return fmt.Errorf("input %q: %w", name, err)
			}
		}
		p := Parameter{
			Name:        name,
			Description: strings.TrimSpace(raw.Description),
			Default:     value(&raw.Default),
			Type:        raw.Type,
			Required:    bool(raw.Required),
			Deprecated:  strings.TrimSpace(raw.DeprecationMessage),
			Options:     raw.Options,
		}
		if requiredWithoutDefault {
			p.Required = raw.Default.Kind == 0
		}
		params = append(params, p)
		return nil
	})
	return params, err
}

func outputs(n *yaml.Node) []Output {
	var out []Output
	_ = pairs(n, func(name string, v *yaml.Node) error {
		out = append(out, Output{
			Name:        name,
			Description: scalar(lookup(v, "description")),
			Value:       scalar(lookup(v, "value")),
		})
		return nil
	})
	return out
}

func secrets(n *yaml.Node) ([]Secret, error) {
	var out []Secret
	err := pairs(n, func(name string, v *yaml.Node) error {
		var raw rawSecret
		if v.Kind == yaml.MappingNode {
			if err := v.Decode(&raw); err != nil {
				return fmt.Errorf("secret %q: %w", name, err)
			}
		}
		out = append(out, Secret{Name: name, Description: strings.TrimSpace(raw.Description), Required: bool(raw.Required)})
		return nil
	})
	return out, err
}
