package generator

import (
	"strings"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/manifest"
	"git.home.luguber.info/inful/dokumentor/internal/repository"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

func cells(values ...string) []content.Content {
	out := make([]content.Content, len(values))
	for i, v := range values {
		out[i] = content.FromString(v)
	}
	return out
}

func code(f format.Formatter, s string) string {
	if s == "" {
		return ""
	}
	return f.InlineCode(content.FromString(s)).String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Inputs renders the input table. Workflows and components also show the
// declared type.
type Inputs struct{}

func (Inputs) ID() section.ID { return section.Inputs }

func (Inputs) Generate(m *manifest.Manifest, f format.Formatter, _ *repository.Info) (content.Content, error) {
	if len(m.Inputs) == 0 {
		return content.Content{}, nil
	}
	typed := m.Platform != manifest.GitHubAction

	headers := cells("Input", "Description", "Required", "Default")
	if typed {
		headers = cells("Input", "Description", "Type", "Required", "Default")
	}

	rows := make([][]content.Content, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		desc := in.Description
		if len(in.Options) > 0 {
			opts := make([]string, len(in.Options))
			for i, o := range in.Options {
				opts[i] = code(f, o)
			}
			desc = strings.TrimSpace(desc + "\nAllowed values: " + strings.Join(opts, ", "))
		}
		if in.Deprecated != "" {
			desc = strings.TrimSpace(desc + "\n" + f.Bold(content.FromString("Deprecated:")).String() + " " + in.Deprecated)
		}
		row := []string{code(f, in.Name), desc}
		if typed {
			row = append(row, in.Type)
		}
		row = append(row, yesNo(in.Required), code(f, in.Default))
		rows = append(rows, cells(row...))
	}
	return titled(f, section.Inputs, f.Table(headers, rows)), nil
}

// Outputs renders the output table.
type Outputs struct{}

func (Outputs) ID() section.ID { return section.Outputs }

func (Outputs) Generate(m *manifest.Manifest, f format.Formatter, _ *repository.Info) (content.Content, error) {
	if len(m.Outputs) == 0 {
		return content.Content{}, nil
	}
	rows := make([][]content.Content, 0, len(m.Outputs))
	for _, o := range m.Outputs {
		rows = append(rows, cells(code(f, o.Name), o.Description))
	}
	return titled(f, section.Outputs, f.Table(cells("Output", "Description"), rows)), nil
}

// Secrets renders the secrets a reusable workflow accepts.
type Secrets struct{}

func (Secrets) ID() section.ID { return section.Secrets }

func (Secrets) Generate(m *manifest.Manifest, f format.Formatter, _ *repository.Info) (content.Content, error) {
	if len(m.Secrets) == 0 {
		return content.Content{}, nil
	}
	rows := make([][]content.Content, 0, len(m.Secrets))
	for _, s := range m.Secrets {
		rows = append(rows, cells(code(f, s.Name), s.Description, yesNo(s.Required)))
	}
	return titled(f, section.Secrets, f.Table(cells("Secret", "Description", "Required"), rows)), nil
}
