package gitremote

import (
	"testing"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
)

// initRepoWithRemotes creates a repository with the given remote URL sets.
func initRepoWithRemotes(t *testing.T, remotes map[string][]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "failed to initialize git repo")

	for name, urls := range remotes {
		_, err := repo.CreateRemote(&gitcfg.RemoteConfig{Name: name, URLs: urls})
		require.NoError(t, err, "failed to create remote %s", name)
	}

	return dir
}

func TestResolvePushRemote_SingleRemote(t *testing.T) {
	dir := initRepoWithRemotes(t, map[string][]string{
		"origin": {"git@host:repo.git"},
	})

	url, err := NewClient(nil).ResolvePushRemote(dir)
	require.NoError(t, err)
	assert.Equal(t, "git@host:repo.git", url)
}

func TestResolvePushRemote_NoRemotes(t *testing.T) {
	dir := initRepoWithRemotes(t, nil)

	_, err := NewClient(nil).ResolvePushRemote(dir)
	require.Error(t, err)
	assert.True(t, pErrors.IsCategory(err, pErrors.CategoryRemote), "want remote-ambiguity error, got %v", err)
}

func TestResolvePushRemote_MultipleRemotes(t *testing.T) {
	dir := initRepoWithRemotes(t, map[string][]string{
		"origin":   {"git@host:repo.git"},
		"upstream": {"git@host:other.git"},
	})

	_, err := NewClient(nil).ResolvePushRemote(dir)
	require.Error(t, err)
	assert.True(t, pErrors.IsCategory(err, pErrors.CategoryRemote), "want remote-ambiguity error, got %v", err)
}

func TestResolvePushRemote_MultiURLRemote(t *testing.T) {
	// One remote with two URLs pushes to both, so it is just as ambiguous.
	dir := initRepoWithRemotes(t, map[string][]string{
		"origin": {"git@host:repo.git", "git@mirror:repo.git"},
	})

	_, err := NewClient(nil).ResolvePushRemote(dir)
	require.Error(t, err)
	assert.True(t, pErrors.IsCategory(err, pErrors.CategoryRemote))
}

func TestResolvePushRemote_NotARepository(t *testing.T) {
	_, err := NewClient(nil).ResolvePushRemote(t.TempDir())
	require.Error(t, err)
	assert.True(t, pErrors.IsCategory(err, pErrors.CategoryGit))
}

func TestListPushRemotes(t *testing.T) {
	dir := initRepoWithRemotes(t, map[string][]string{
		"origin":   {"git@host:repo.git"},
		"upstream": {"git@host:other.git"},
	})

	remotes, err := NewClient(nil).ListPushRemotes(dir)
	require.NoError(t, err)
	assert.Len(t, remotes, 2)
}
