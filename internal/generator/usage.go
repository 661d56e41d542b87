package generator

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/dokumentor/internal/content"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/manifest"
	"git.home.luguber.info/inful/dokumentor/internal/repository"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

// defaultRef pins usage examples when the checked out ref is unknown.
const defaultRef = "main"

// Usage renders a copyable YAML example for the manifest's platform. It
// needs the repository slug and is empty without it.
type Usage struct{}

func (Usage) ID() section.ID { return section.Usage }

func (Usage) Generate(m *manifest.Manifest, f format.Formatter, repo *repository.Info) (content.Content, error) {
	repo = info(repo)
	if repo.Slug() == "" {
		return content.Content{}, nil
	}
	ref := repo.Ref
	if ref == "" {
		ref = defaultRef
	}

	var b strings.Builder
	switch m.Platform {
	case manifest.GitHubAction:
		uses := repo.Slug()
		if dir := repoPath(repo, filepath.Dir(m.Path)); dir != "" && dir != "." {
			uses += "/" + dir
		}
		fmt.Fprintf(&b, "- uses: %s@%s\n", uses, ref)
		writeInputs(&b, "  with:", "    ", m.Inputs)
	case manifest.GitHubWorkflow:
		fmt.Fprintf(&b, "jobs:\n  %s:\n", m.Slug())
		fmt.Fprintf(&b, "    uses: %s/%s@%s\n", repo.Slug(), repoPath(repo, m.Path), ref)
		writeInputs(&b, "    with:", "      ", m.Inputs)
		if len(m.Secrets) > 0 {
			b.WriteString("    secrets:\n")
			for _, s := range m.Secrets {
				fmt.Fprintf(&b, "      %s: ${{ secrets.%s }}\n", s.Name, secretEnv(s.Name))
			}
		}
	case manifest.GitLabComponent:
		b.WriteString("include:\n")
		fmt.Fprintf(&b, "  - component: $CI_SERVER_FQDN/%s/%s@%s\n", repo.Slug(), m.Slug(), ref)
		writeInputs(&b, "    inputs:", "      ", m.Inputs)
	default:
		return content.Content{}, nil
	}

	return titled(f, section.Usage, f.Code(content.FromString(b.String()), "yaml")), nil
}

// writeInputs lists every input with its description as a comment and its
// default as the value.
func writeInputs(b *strings.Builder, header, indent string, inputs []manifest.Parameter) {
	if len(inputs) == 0 {
		return
	}
	b.WriteString(header + "\n")
	for _, in := range inputs {
		for _, line := range strings.Split(in.Description, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				b.WriteString(indent + "# " + line + "\n")
			}
		}
		fmt.Fprintf(b, "%s%s: %s\n", indent, in.Name, strconv.Quote(in.Default))
	}
}

// secretEnv turns a secret name into the conventional upper snake case.
func secretEnv(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// repoPath returns path relative to the repository root, slash separated, or
// "" when it cannot be expressed that way.
func repoPath(repo *repository.Info, path string) string {
	if repo.RootDir == "" {
		return ""
	}
	root, err := filepath.Abs(repo.RootDir)
	if err != nil {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}
