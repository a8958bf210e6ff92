package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/docpublish/internal/config"
	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	journal, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if journal == nil {
		return pErrors.New(pErrors.CategoryConfig, pErrors.SeverityFatal,
			"history is not enabled; set history.path in the configuration")
	}
	defer func() { _ = journal.Close() }()

	runs, err := journal.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No publish runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tOUTCOME\tCOMMIT\tFILES\tBRANCH")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.Outcome,
			shortHash(run.CommitHash),
			run.Files,
			run.Branch)
	}
	return w.Flush()
}
