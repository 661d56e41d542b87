// Package manifest loads the CI/CD definitions dokumentor documents: GitHub
// actions, GitHub reusable workflows and GitLab CI/CD components.
//
// Parsing walks yaml.v3 nodes instead of decoding into maps so that inputs,
// outputs and secrets keep the order they are declared in.
package manifest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
)

// Platform identifies the manifest flavour.
type Platform string

const (
	GitHubAction    Platform = "github-action"
	GitHubWorkflow  Platform = "github-workflow"
	GitLabComponent Platform = "gitlab-component"
)

func (p Platform) String() string { return string(p) }

// Parameter is a declared input.
type Parameter struct {
	Name        string
	Description string
	Default     string
	Type        string
	Required    bool
	// Deprecated holds the deprecation message, if any.
	Deprecated string
	// Options lists the allowed values, if restricted.
	Options []string
}

// Output is a declared output.
type Output struct {
	Name        string
	Description string
	Value       string
}

// Secret is a secret accepted by a reusable workflow.
type Secret struct {
	Name        string
	Description string
	Required    bool
}

// Branding is the marketplace icon of an action.
type Branding struct {
	Icon  string
	Color string
}

// Runs describes how an action executes.
type Runs struct {
	Using string
	Main  string
	Image string
}

// Manifest is the documented definition.
type Manifest struct {
	Path        string
	Platform    Platform
	Name        string
	Description string
	Author      string
	Branding    Branding
	Runs        Runs
	Inputs      []Parameter
	Outputs     []Output
	Secrets     []Secret
}

// Slug is the manifest name as used in references: the file base name for
// workflows and components, and the directory name for actions.
func (m *Manifest) Slug() string {
	base := strings.TrimSuffix(filepath.Base(m.Path), filepath.Ext(m.Path))
	if m.Platform == GitHubAction || (m.Platform == GitLabComponent && base == "template") {
		dir, err := filepath.Abs(filepath.Dir(m.Path))
		if err != nil {
			dir = filepath.Dir(m.Path)
		}
		return filepath.Base(dir)
	}
	return base
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ManifestError("manifest not found").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.ManifestError("failed to read manifest").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	m, err := Parse(path, data)
	if err != nil {
		return nil, ferrors.ManifestError("failed to parse manifest").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return m, nil
}

// Parse parses data as the manifest located at path. The path selects the
// platform when the document itself is ambiguous.
func Parse(path string, data []byte) (*Manifest, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, err
	}
	doc := document(&root)
	if doc == nil || doc.Kind != yaml.MappingNode {
		return nil, errors.New("manifest root must be a mapping")
	}

	m := &Manifest{Path: path}
	switch detect(path, doc) {
	case GitHubAction:
		m.Platform = GitHubAction
		return m, parseAction(m, doc)
	case GitHubWorkflow:
		m.Platform = GitHubWorkflow
		return m, parseWorkflow(m, doc)
	case GitLabComponent:
		m.Platform = GitLabComponent
		return m, parseComponent(m, doc, data)
	}
	return nil, errors.New("unrecognised manifest: expected a GitHub action, a reusable workflow or a GitLab component")
}

func detect(path string, doc *yaml.Node) Platform {
	base := strings.ToLower(filepath.Base(path))
	slashed := filepath.ToSlash(path)
	switch {
	case base == "action.yml" || base == "action.yaml":
		return GitHubAction
	case strings.Contains(slashed, ".github/workflows/"):
		return GitHubWorkflow
	case lookup(doc, "spec") != nil:
		return GitLabComponent
	case lookup(doc, "runs") != nil:
		return GitHubAction
	case lookup(lookup(doc, "on"), "workflow_call") != nil:
		return GitHubWorkflow
	}
	return ""
}

func parseAction(m *Manifest, doc *yaml.Node) error {
	m.Name = scalar(lookup(doc, "name"))
	m.Description = scalar(lookup(doc, "description"))
	m.Author = scalar(lookup(doc, "author"))

	branding := lookup(doc, "branding")
	m.Branding = Branding{Icon: scalar(lookup(branding, "icon")), Color: scalar(lookup(branding, "color"))}

	runs := lookup(doc, "runs")
	m.Runs = Runs{
		Using: scalar(lookup(runs, "using")),
		Main:  scalar(lookup(runs, "main")),
		Image: scalar(lookup(runs, "image")),
	}

	var err error
	if m.Inputs, err = parameters(lookup(doc, "inputs"), false); err != nil {
		return err
	}
	m.Outputs = outputs(lookup(doc, "outputs"))
	return nil
}

func parseWorkflow(m *Manifest, doc *yaml.Node) error {
	m.Name = scalar(lookup(doc, "name"))
	if m.Name == "" {
		m.Name = m.Slug()
	}
	call := lookup(lookup(doc, "on"), "workflow_call")

	var err error
	if m.Inputs, err = parameters(lookup(call, "inputs"), false); err != nil {
		return err
	}
	if m.Secrets, err = secrets(lookup(call, "secrets")); err != nil {
		return err
	}
	m.Outputs = outputs(lookup(call, "outputs"))
	return nil
}

func parseComponent(m *Manifest, doc *yaml.Node, data []byte) error {
	m.Name = m.Slug()
	m.Description = leadingComment(data)

	var err error
	m.Inputs, err = parameters(lookup(lookup(doc, "spec"), "inputs"), true)
	return err
}

// leadingComment returns the comment block at the top of a file without its
// comment markers.
func leadingComment(data []byte) string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			break
		}
		lines = append(lines, strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
