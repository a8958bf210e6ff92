package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpublish/internal/config"
)

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestCLIDefaults(t *testing.T) {
	cli, ctx := parseCLI(t, "publish")
	assert.Equal(t, "config.yaml", cli.Config)
	assert.False(t, cli.Verbose)
	assert.Equal(t, "publish", ctx.Command())
}

func TestPublishCommandFlags(t *testing.T) {
	cli, _ := parseCLI(t, "publish", "--skip-build", "--verify", "-r", "/some/repo")
	assert.True(t, cli.Publish.SkipBuild)
	assert.True(t, cli.Publish.Verify)
	assert.Equal(t, "/some/repo", cli.Publish.RepoDir)
}

func TestHistoryCommandLimit(t *testing.T) {
	cli, ctx := parseCLI(t, "history", "-n", "25")
	assert.Equal(t, "history", ctx.Command())
	assert.Equal(t, 25, cli.History.Limit)
}

func TestVerifyCommandDefaultDir(t *testing.T) {
	cli, _ := parseCLI(t, "verify")
	assert.Equal(t, "target/doc", cli.Verify.Dir)
}

func TestInitCommandWritesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docpublish.yaml")

	cmd := &InitCmd{}
	root := &CLI{Config: cfgPath}
	require.NoError(t, cmd.Run(&Global{}, root))

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gh-pages")
	assert.Contains(t, string(data), "Automatic-ish rustdoc update")

	// Second init without --force must refuse to overwrite.
	require.Error(t, cmd.Run(&Global{}, root))

	cmd.Force = true
	require.NoError(t, cmd.Run(&Global{}, root))
}

func TestOpenJournalDisabled(t *testing.T) {
	cfg := config.Default()
	journal, err := openJournal(cfg)
	require.NoError(t, err)
	assert.Nil(t, journal)
}

func TestOpenJournalCreatesStore(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	journal, err := openJournal(cfg)
	require.NoError(t, err)
	require.NotNil(t, journal)
	require.NoError(t, journal.Close())
}
