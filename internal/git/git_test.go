package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *gogit.Repository, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "action.yml"), []byte("name: test\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("action.yml")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, repo, hash
}

func TestOpen_NotRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestOpen_FromSubdirectory(t *testing.T) {
	dir, _, _ := initRepo(t)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Root())
}

func TestRemoteURL(t *testing.T) {
	dir, raw, _ := initRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)
	url, err := repo.RemoteURL("origin")
	require.NoError(t, err)
	assert.Empty(t, url)

	_, err = raw.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/widget.git"}})
	require.NoError(t, err)
	url, err = repo.RemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:acme/widget.git", url)
}

func TestCurrentRef(t *testing.T) {
	dir, raw, hash := initRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	head, err := raw.Head()
	require.NoError(t, err)
	ref, err := repo.CurrentRef()
	require.NoError(t, err)
	assert.Equal(t, head.Name().Short(), ref)

	wt, err := raw.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{Hash: hash}))
	ref, err = repo.CurrentRef()
	require.NoError(t, err)
	assert.Equal(t, hash.String()[:shortHashLen], ref)

	_, err = raw.CreateTag("v1.2.0", hash, nil)
	require.NoError(t, err)
	ref, err = repo.CurrentRef()
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", ref)
}

func TestCurrentRef_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)
	ref, err := repo.CurrentRef()
	require.NoError(t, err)
	assert.Empty(t, ref)
}
