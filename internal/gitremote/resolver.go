package gitremote

import (
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"

	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// PushRemote describes a push-capable remote endpoint.
type PushRemote struct {
	Name string
	URL  string
}

// ResolvePushRemote inspects the repository at repoDir and returns the URL of
// its single push-capable remote. Zero or more than one push URL is a fatal
// configuration-ambiguity error, raised before any mutating operation.
func (c *Client) ResolvePushRemote(repoDir string) (string, error) {
	remotes, err := c.ListPushRemotes(repoDir)
	if err != nil {
		return "", err
	}

	if len(remotes) != 1 {
		return "", pErrors.New(pErrors.CategoryRemote, pErrors.SeverityFatal,
			fmt.Sprintf("confused by remotes: expected exactly one push remote, found %d", len(remotes))).
			WithContext("push_remotes", len(remotes))
	}

	slog.Debug("Resolved push remote",
		logfields.Remote(remotes[0].Name), logfields.URL(remotes[0].URL))
	return remotes[0].URL, nil
}

// ListPushRemotes enumerates every push endpoint of the repository. A remote
// with several configured URLs pushes to all of them, so each URL counts as a
// separate endpoint.
func (c *Client) ListPushRemotes(repoDir string) ([]PushRemote, error) {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		return nil, pErrors.Wrap(err, pErrors.CategoryGit, pErrors.SeverityFatal,
			fmt.Sprintf("failed to open repository at %s", repoDir))
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, pErrors.Wrap(err, pErrors.CategoryGit, pErrors.SeverityFatal, "failed to list remotes")
	}

	var push []PushRemote
	for _, remote := range remotes {
		cfg := remote.Config()
		for _, url := range cfg.URLs {
			push = append(push, PushRemote{Name: cfg.Name, URL: url})
		}
	}

	return push, nil
}
