package git

import (
	"errors"
	"log/slog"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"git.home.luguber.info/inful/dokumentor/internal/logfields"
)

// shortHashLen is the abbreviated commit length used for detached heads.
const shortHashLen = 7

// Repository is an opened working copy.
type Repository struct {
	repo *gogit.Repository
	root string
}

// Open finds the repository containing dir, walking up parent directories.
func Open(dir string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, ClassifyGitError(err, "open", dir)
	}

	root := dir
	if wt, wtErr := repo.Worktree(); wtErr == nil {
		root = wt.Filesystem.Root()
	}
	slog.Debug("Opened repository", logfields.Path(root))
	return &Repository{repo: repo, root: root}, nil
}

// Root returns the top directory of the working copy.
func (r *Repository) Root() string {
	return r.root
}

// RemoteURL returns the first URL of the named remote, or "" when the remote
// does not exist.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", nil
		}
		return "", ClassifyGitError(err, "remote", r.root)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

// CurrentRef returns the checked out branch name. A detached head resolves to
// a tag pointing at it, or to the abbreviated commit hash. A repository
// without commits returns "".
func (r *Repository) CurrentRef() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", ClassifyGitError(err, "head", r.root)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}

	tag, err := r.tagFor(head.Hash())
	if err != nil {
		return "", ClassifyGitError(err, "tags", r.root)
	}
	if tag != "" {
		return tag, nil
	}
	return head.Hash().String()[:shortHashLen], nil
}

// tagFor returns the first tag, lightweight or annotated, that points at hash.
func (r *Repository) tagFor(hash plumbing.Hash) (string, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return "", err
	}
	var found string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if obj, objErr := r.repo.TagObject(target); objErr == nil {
			target = obj.Target
		}
		if target == hash {
			found = ref.Name().Short()
			return storer.ErrStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return "", err
	}
	return found, nil
}
