package gitremote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// ErrNothingToPublish indicates the freshly built documentation tree is
// identical to what the hosting branch already contains.
var ErrNothingToPublish = errors.New("documentation tree unchanged, nothing to publish")

// CloneBranch clones the given branch of url into dir. The branch must exist
// on the remote; a missing branch, network failure, or auth failure aborts
// the publish.
func (c *Client) CloneBranch(ctx context.Context, url, branch, dir string) (*git.Repository, error) {
	slog.Debug("Cloning publishing branch",
		logfields.URL(url), logfields.Branch(branch), logfields.Path(dir))

	auth, err := c.getAuth()
	if err != nil {
		return nil, fmt.Errorf("failed to setup authentication: %w", err)
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Progress:      os.Stdout,
		Auth:          auth,
	})
	if err != nil {
		return nil, classifyGitError("clone", url, err)
	}

	return repo, nil
}

// CommitDocs stages docsPath (relative to the clone root) and commits it with
// the given message. Returns the new commit hash. When staging produces no
// change against the branch tip, ErrNothingToPublish is returned.
func (c *Client) CommitDocs(repo *git.Repository, docsPath, message string) (string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	if _, err := wt.Add(docsPath); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", docsPath, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{})
	if errors.Is(err, git.ErrMissingAuthor) {
		// No user.name/user.email in git config; fall back to a fixed identity
		// so unattended runs (CI) still publish.
		hash, err = wt.Commit(message, &git.CommitOptions{Author: defaultSignature()})
	}
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", ErrNothingToPublish
		}
		return "", fmt.Errorf("failed to commit %s: %w", docsPath, err)
	}

	slog.Debug("Committed documentation", logfields.Commit(hash.String()), logfields.Path(docsPath))
	return hash.String(), nil
}

// Push pushes the current branch of the clone back to its origin.
func (c *Client) Push(ctx context.Context, repo *git.Repository) error {
	auth, err := c.getAuth()
	if err != nil {
		return fmt.Errorf("failed to setup authentication: %w", err)
	}

	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		Progress:   os.Stdout,
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return classifyGitError("push", "origin", err)
	}

	return nil
}

func defaultSignature() *object.Signature {
	return &object.Signature{
		Name:  "docpublish",
		Email: "docpublish@localhost",
		When:  time.Now(),
	}
}
