package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/gitremote"
)

// StatusCmd implements the 'status' command: shows where a publish would go
// without touching anything.
type StatusCmd struct {
	RepoDir string `short:"r" help:"Repository directory to inspect (overrides config)"`
}

func (s *StatusCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if s.RepoDir != "" {
		cfg.Publish.RepoDir = s.RepoDir
	}

	client := gitremote.NewClient(cfg.Publish.Auth)
	url, err := client.ResolvePushRemote(cfg.Publish.RepoDir)
	if err != nil {
		return err
	}

	fmt.Printf("Remote:  %s\n", url)
	fmt.Printf("Branch:  %s\n", cfg.Publish.Branch)
	fmt.Printf("Subdir:  %s\n", cfg.Publish.DocsSubdir)
	fmt.Printf("Build:   %v\n", cfg.Build.Command)

	journal, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if journal == nil {
		return nil
	}
	defer func() { _ = journal.Close() }()

	runs, err := journal.Recent(context.Background(), 1)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("Last run: never")
		return nil
	}

	last := runs[0]
	fmt.Printf("Last run: %s (%s", last.FinishedAt.Format("2006-01-02 15:04:05"), last.Outcome)
	if last.CommitHash != "" {
		fmt.Printf(", %s", shortHash(last.CommitHash))
	}
	fmt.Println(")")
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
