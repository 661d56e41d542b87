package migration

import (
	"git.home.luguber.info/inful/dokumentor/internal/marker"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

// Names of the supported foreign tools.
const (
	ToolActdocs                     = "actdocs"
	ToolActionDocs                  = "action-docs"
	ToolAutoDoc                     = "auto-doc"
	ToolGitHubActionReadmeGenerator = "github-action-readme-generator"
)

// NewActdocs handles <!-- actdocs inputs start --> / <!-- actdocs inputs end -->.
func NewActdocs(p *marker.Protocol) *Tool {
	return newTool(ToolActdocs, p,
		map[string]section.ID{
			"description": section.Overview,
			"usage":       section.Usage,
			"inputs":      section.Inputs,
			"outputs":     section.Outputs,
			"secrets":     section.Secrets,
		},
		`<!--\s*actdocs\s+(?P<section>[A-Za-z0-9_-]+)\s+(?P<kind>start|end)\s*-->`,
	)
}

// NewActionDocs handles the self-closing <!-- action-docs-inputs source="action.yml" -->.
func NewActionDocs(p *marker.Protocol) *Tool {
	return newTool(ToolActionDocs, p,
		map[string]section.ID{
			"header":      section.Header,
			"description": section.Overview,
			"usage":       section.Usage,
			"inputs":      section.Inputs,
			"outputs":     section.Outputs,
		},
		`<!--\s*action-docs-(?P<section>[a-z]+)(?:\s+[^>]*?)?\s*-->`,
	)
}

// NewAutoDoc handles <!-- AUTO-DOC-INPUT:START - Do not remove or modify this section -->.
func NewAutoDoc(p *marker.Protocol) *Tool {
	return newTool(ToolAutoDoc, p,
		map[string]section.ID{
			"input":   section.Inputs,
			"output":  section.Outputs,
			"secret":  section.Secrets,
			"secrets": section.Secrets,
		},
		`<!--\s*AUTO-DOC-(?P<section>[A-Z]+):(?P<kind>START|END)(?:\s[^>]*?)?\s*-->`,
	)
}

// NewGitHubActionReadmeGenerator handles <!-- start inputs --> / <!-- end inputs -->.
func NewGitHubActionReadmeGenerator(p *marker.Protocol) *Tool {
	return newTool(ToolGitHubActionReadmeGenerator, p,
		map[string]section.ID{
			"title":       section.Header,
			"description": section.Overview,
			"usage":       section.Usage,
			"inputs":      section.Inputs,
			"outputs":     section.Outputs,
		},
		`<!--\s*(?P<kind>start|end)\s+(?P<section>[a-z]+)\s*-->`,
	)
}
