package gitremote

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBranch = "gh-pages"

// setupHostingRemote creates a bare repository holding a gh-pages branch with
// an initial doc/old.html, simulating the published state of a real remote.
func setupHostingRemote(t *testing.T) string {
	t.Helper()

	seedDir := t.TempDir()
	repo, err := git.PlainInit(seedDir, false)
	require.NoError(t, err, "failed to initialize seed repo")

	require.NoError(t, os.MkdirAll(filepath.Join(seedDir, "doc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(seedDir, "doc", "old.html"), []byte("<html>old</html>"), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, w.AddGlob("."))

	hash, err := w.Commit("Initial docs", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err, "failed to create initial commit")

	branchRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName(testBranch), hash)
	require.NoError(t, repo.Storer.SetReference(branchRef))

	bareDir := t.TempDir()
	_, err = git.PlainInit(bareDir, true)
	require.NoError(t, err, "failed to initialize bare hosting repo")

	_, err = repo.CreateRemote(&gitcfg.RemoteConfig{Name: "origin", URLs: []string{bareDir}})
	require.NoError(t, err)

	err = repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitcfg.RefSpec{gitcfg.RefSpec("refs/heads/" + testBranch + ":refs/heads/" + testBranch)},
	})
	require.NoError(t, err, "failed to push seed branch")

	return bareDir
}

func TestCloneBranch(t *testing.T) {
	remote := setupHostingRemote(t)
	cloneDir := filepath.Join(t.TempDir(), "clone")

	_, err := NewClient(nil).CloneBranch(context.Background(), remote, testBranch, cloneDir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cloneDir, "doc", "old.html"))
	assert.NoError(t, err, "clone should contain the published docs tree")
}

func TestCloneBranch_MissingBranch(t *testing.T) {
	remote := setupHostingRemote(t)
	cloneDir := filepath.Join(t.TempDir(), "clone")

	_, err := NewClient(nil).CloneBranch(context.Background(), remote, "no-such-branch", cloneDir)
	assert.Error(t, err)
}

func TestCommitDocsAndPush(t *testing.T) {
	remote := setupHostingRemote(t)
	cloneDir := filepath.Join(t.TempDir(), "clone")
	client := NewClient(nil)

	repo, err := client.CloneBranch(context.Background(), remote, testBranch, cloneDir)
	require.NoError(t, err)

	// Replace the docs tree, as the publish workflow does.
	docDir := filepath.Join(cloneDir, "doc")
	require.NoError(t, os.RemoveAll(docDir))
	require.NoError(t, os.MkdirAll(docDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docDir, "index.html"), []byte("<html>new</html>"), 0o600))

	hash, err := client.CommitDocs(repo, "doc", "Automatic-ish rustdoc update")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	require.NoError(t, client.Push(context.Background(), repo))

	// The hosting remote's branch tip must now be the new commit, and its tree
	// must contain exactly the refreshed docs.
	hostRepo, err := git.PlainOpen(remote)
	require.NoError(t, err)

	ref, err := hostRepo.Reference(plumbing.NewBranchReferenceName(testBranch), true)
	require.NoError(t, err)
	assert.Equal(t, hash, ref.Hash().String())

	commit, err := hostRepo.CommitObject(ref.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Automatic-ish rustdoc update", commit.Message)

	tree, err := commit.Tree()
	require.NoError(t, err)

	_, err = tree.File("doc/index.html")
	assert.NoError(t, err, "new docs file should be in the published tree")

	_, err = tree.File("doc/old.html")
	assert.Error(t, err, "stale docs file should be gone from the published tree")
}

func TestCommitDocs_NothingToPublish(t *testing.T) {
	remote := setupHostingRemote(t)
	cloneDir := filepath.Join(t.TempDir(), "clone")
	client := NewClient(nil)

	repo, err := client.CloneBranch(context.Background(), remote, testBranch, cloneDir)
	require.NoError(t, err)

	_, err = client.CommitDocs(repo, "doc", "Automatic-ish rustdoc update")
	assert.ErrorIs(t, err, ErrNothingToPublish)
}

func TestPush_AlreadyUpToDate(t *testing.T) {
	remote := setupHostingRemote(t)
	cloneDir := filepath.Join(t.TempDir(), "clone")
	client := NewClient(nil)

	repo, err := client.CloneBranch(context.Background(), remote, testBranch, cloneDir)
	require.NoError(t, err)

	// Pushing without new commits is not an error.
	assert.NoError(t, client.Push(context.Background(), repo))
}
