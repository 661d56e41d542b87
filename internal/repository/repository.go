// Package repository collects the hosting metadata section generators link
// to: the repository slug and platform, the ref to pin usage examples to, and
// the community files found in the working copy.
package repository

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/dokumentor/internal/git"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
)

// Platform is the hosting service of a repository.
type Platform string

const (
	GitHub  Platform = "github"
	GitLab  Platform = "gitlab"
	Unknown Platform = ""
)

// Info describes the repository a manifest lives in. The zero value means
// no repository was found.
type Info struct {
	URL      string
	Host     string
	Owner    string
	Name     string
	Platform Platform
	Ref      string
	RootDir  string

	License      *License
	Contributing string
	Security     string
}

// Slug returns "owner/name", or "" when either part is unknown.
func (i *Info) Slug() string {
	if i == nil || i.Owner == "" || i.Name == "" {
		return ""
	}
	return i.Owner + "/" + i.Name
}

// WebURL returns the browsable https URL of the repository.
func (i *Info) WebURL() string {
	if i.Slug() == "" || i.Host == "" {
		return ""
	}
	return "https://" + i.Host + "/" + i.Slug()
}

// FileURL returns the web URL of a file in the repository at Ref.
func (i *Info) FileURL(rel string) string {
	base := i.WebURL()
	if base == "" {
		return ""
	}
	ref := i.Ref
	if ref == "" {
		ref = "HEAD"
	}
	rel = filepath.ToSlash(rel)
	if i.Platform == GitLab {
		return base + "/-/blob/" + ref + "/" + rel
	}
	return base + "/blob/" + ref + "/" + rel
}

// Overrides replace detected values when set.
type Overrides struct {
	URL string
	Ref string
}

// Detect inspects the repository containing dir. A directory outside any
// repository yields an Info with only the community files filled in.
func Detect(dir string, o Overrides) (*Info, error) {
	info := &Info{RootDir: dir}

	repo, err := git.Open(dir)
	switch {
	case errors.Is(err, git.ErrNotRepository):
		slog.Debug("No git repository found", logfields.Path(dir))
	case err != nil:
		return nil, err
	default:
		info.RootDir = repo.Root()
		if info.URL, err = repo.RemoteURL("origin"); err != nil {
			return nil, err
		}
		if info.Ref, err = repo.CurrentRef(); err != nil {
			return nil, err
		}
	}

	if o.URL != "" {
		info.URL = o.URL
	}
	if o.Ref != "" {
		info.Ref = o.Ref
	}
	if info.URL != "" {
		if remote, ok := ParseRemoteURL(info.URL); ok {
			info.Host, info.Owner, info.Name, info.Platform = remote.Host, remote.Owner, remote.Name, remote.Platform
		}
	}

	info.License = DetectLicense(info.RootDir)
	info.Contributing = findFile(info.RootDir, "CONTRIBUTING.md", ".github/CONTRIBUTING.md", "docs/CONTRIBUTING.md")
	info.Security = findFile(info.RootDir, "SECURITY.md", ".github/SECURITY.md", "docs/SECURITY.md")

	slog.Debug("Detected repository",
		logfields.Repository(info.Slug()),
		logfields.Platform(string(info.Platform)),
		slog.String("ref", info.Ref))
	return info, nil
}

// findFile returns the first candidate that exists under root, relative to root.
func findFile(root string, candidates ...string) string {
	for _, rel := range candidates {
		if st, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err == nil && !st.IsDir() {
			return rel
		}
	}
	return ""
}
