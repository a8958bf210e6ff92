package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docpublish/internal/builder"
	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/history"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/publish"
)

// PublishCmd implements the 'publish' command: one build-and-push cycle.
type PublishCmd struct {
	RepoDir   string `short:"r" help:"Repository directory to publish from (overrides config)"`
	SkipBuild bool   `help:"Publish the existing build output without rebuilding"`
	Verify    bool   `help:"Check internal links in the built tree before publishing"`
}

func (p *PublishCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if p.RepoDir != "" {
		cfg.Publish.RepoDir = p.RepoDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pub := publish.NewPublisher(cfg).WithVerify(p.Verify)
	if p.SkipBuild {
		pub.WithRunner(builder.NoopRunner{})
	}

	journal, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if journal != nil {
		defer func() {
			if err := journal.Close(); err != nil {
				slog.Warn("Failed to close history journal", logfields.Error(err))
			}
		}()
		pub.WithJournal(journal)
	}

	result, err := pub.Run(ctx)
	if err != nil {
		return err
	}

	if result.Unchanged {
		fmt.Println("Documentation unchanged, nothing to publish")
		return nil
	}
	fmt.Printf("Published %d files to %s (%s) as %s\n",
		result.Files, result.Remote, result.Branch, result.CommitHash)
	return nil
}

// openJournal opens the configured run journal, or returns nil when history is
// disabled.
func openJournal(cfg *config.Config) (history.Store, error) {
	if cfg.History.Path == "" {
		return nil, nil
	}
	return history.NewSQLiteStore(cfg.History.Path)
}
