package gitremote

import (
	"strings"

	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
)

// classifyGitError translates go-git errors into classified publish errors so
// the CLI can map them to distinct exit codes without string parsing upstream.
func classifyGitError(op, target string, err error) error {
	if err == nil {
		return nil
	}

	l := strings.ToLower(err.Error())

	category := pErrors.CategoryGit
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "not authorized") ||
		strings.Contains(l, "invalid credentials") || strings.Contains(l, "invalid username or password"):
		category = pErrors.CategoryAuth
	case strings.Contains(l, "connection reset") || strings.Contains(l, "timeout") ||
		strings.Contains(l, "i/o timeout") || strings.Contains(l, "no route to host"):
		category = pErrors.CategoryNetwork
	}

	return pErrors.Wrap(err, category, pErrors.SeverityFatal,
		"git "+op+" failed").
		WithContext("op", op).
		WithContext("target", target)
}
