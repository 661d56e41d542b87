package generator

import (
	"git.home.luguber.info/inful/dokumentor/internal/content"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/manifest"
	"git.home.luguber.info/inful/dokumentor/internal/repository"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

// Contributing links the contribution guide when the repository has one.
type Contributing struct{}

func (Contributing) ID() section.ID { return section.Contributing }

func (Contributing) Generate(m *manifest.Manifest, f format.Formatter, repo *repository.Info) (content.Content, error) {
	repo = info(repo)
	if repo.Contributing == "" {
		return content.Content{}, nil
	}
	link := f.Link(content.FromString("contributing guide"), relativeToManifest(m, repo, repo.Contributing))
	body := content.FromString("Contributions are welcome. Read the ").Concat(link).Append(" before opening a pull request.\n")
	return titled(f, section.Contributing, body), nil
}

// Security links the security policy when the repository has one.
type Security struct{}

func (Security) ID() section.ID { return section.Security }

func (Security) Generate(m *manifest.Manifest, f format.Formatter, repo *repository.Info) (content.Content, error) {
	repo = info(repo)
	if repo.Security == "" {
		return content.Content{}, nil
	}
	link := f.Link(content.FromString("security policy"), relativeToManifest(m, repo, repo.Security))
	body := content.FromString("Report vulnerabilities as described in the ").Concat(link).Append(".\n")
	return titled(f, section.Security, body), nil
}

// License names the detected license.
type License struct{}

func (License) ID() section.ID { return section.License }

func (License) Generate(m *manifest.Manifest, f format.Formatter, repo *repository.Info) (content.Content, error) {
	repo = info(repo)
	if repo.License == nil {
		return content.Content{}, nil
	}
	target := relativeToManifest(m, repo, repo.License.Path)
	var body content.Content
	if repo.License.Name == "" {
		body = content.FromString("See ").Concat(f.Link(content.FromString(repo.License.Path), target)).Append(".\n")
	} else {
		body = content.FromString("Distributed under the ").Concat(f.Link(content.FromString(repo.License.Name), target)).Append(".\n")
	}
	return titled(f, section.License, body), nil
}

// Generated renders the attribution footer.
type Generated struct{}

func (Generated) ID() section.ID { return section.Generated }

func (Generated) Generate(_ *manifest.Manifest, f format.Formatter, _ *repository.Info) (content.Content, error) {
	note := f.Italic(content.FromString("This documentation was generated by dokumentor."))
	return f.HorizontalRule().Append("\n").Concat(note).Append("\n"), nil
}
