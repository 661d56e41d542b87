package generator

import (
	"git.home.luguber.info/inful/dokumentor/internal/content"
	"git.home.luguber.info/inful/dokumentor/internal/format"
	"git.home.luguber.info/inful/dokumentor/internal/manifest"
	"git.home.luguber.info/inful/dokumentor/internal/repository"
	"git.home.luguber.info/inful/dokumentor/internal/section"
)

const shieldsURL = "https://img.shields.io"

// Header renders the document title and, for GitHub repositories, release
// and license badges.
type Header struct{}

func (Header) ID() section.ID { return section.Header }

func (Header) Generate(m *manifest.Manifest, f format.Formatter, repo *repository.Info) (content.Content, error) {
	name := m.Name
	if name == "" {
		name = m.Slug()
	}
	out := f.Heading(f.Escape(content.FromString(name)), 1)

	badges := headerBadges(m, f, info(repo))
	if len(badges) > 0 {
		out = out.Append("\n").Concat(content.Join(content.FromString(" "), badges...)).Append("\n")
	}
	return out, nil
}

func headerBadges(m *manifest.Manifest, f format.Formatter, repo *repository.Info) []content.Content {
	slug := repo.Slug()
	if repo.Platform != repository.GitHub || slug == "" {
		return nil
	}
	badge := func(alt, image, target string) content.Content {
		return f.Link(f.Image(content.FromString(alt), image), target)
	}
	badges := []content.Content{
		badge("Release", shieldsURL+"/github/v/release/"+slug, repo.WebURL()+"/releases"),
	}
	if repo.License != nil {
		badges = append(badges, badge("License", shieldsURL+"/github/license/"+slug, relativeToManifest(m, repo, repo.License.Path)))
	}
	return badges
}

// Overview renders the manifest description.
type Overview struct{}

func (Overview) ID() section.ID { return section.Overview }

func (Overview) Generate(m *manifest.Manifest, f format.Formatter, _ *repository.Info) (content.Content, error) {
	desc := content.FromString(m.Description).TrimBlankLines()
	if desc.IsBlank() {
		return content.Content{}, nil
	}
	return titled(f, section.Overview, f.Paragraph(desc)), nil
}
