package gitremote

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	appcfg "git.home.luguber.info/inful/docpublish/internal/config"
)

// Client handles Git operations for the publish workflow.
type Client struct {
	auth *appcfg.AuthConfig
}

// NewClient creates a new Git client. auth may be nil for public or
// locally-accessible repositories.
func NewClient(auth *appcfg.AuthConfig) *Client {
	return &Client{auth: auth}
}

// getAuth creates a transport authentication method from the configured auth.
func (c *Client) getAuth() (transport.AuthMethod, error) {
	if c.auth == nil {
		return nil, nil
	}

	switch c.auth.Type {
	case "none", "":
		return nil, nil

	case "ssh":
		keyPath := c.auth.KeyPath
		if keyPath == "" {
			keyPath = filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		}
		publicKeys, err := ssh.NewPublicKeysFromFile("git", keyPath, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load SSH key from %s: %w", keyPath, err)
		}
		return publicKeys, nil

	case "token":
		if c.auth.Token == "" {
			return nil, fmt.Errorf("token authentication requires a token")
		}
		return &http.BasicAuth{
			Username: "token", // GitHub/GitLab use "token" as username
			Password: c.auth.Token,
		}, nil

	case "basic":
		if c.auth.Username == "" || c.auth.Password == "" {
			return nil, fmt.Errorf("basic authentication requires username and password")
		}
		return &http.BasicAuth{
			Username: c.auth.Username,
			Password: c.auth.Password,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported authentication type: %s", c.auth.Type)
	}
}
