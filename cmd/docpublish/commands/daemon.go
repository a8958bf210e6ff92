package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/daemon"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/metrics"
	"git.home.luguber.info/inful/docpublish/internal/publish"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Verify bool `help:"Check internal links in each built tree before publishing"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pub := publish.NewPublisher(cfg).WithVerify(d.Verify)

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

	dm := daemon.NewDaemon(cfg, pub.Run)

	if cfg.Metrics.Enabled {
		recorder := metrics.NewPrometheusRecorder(nil)
		pub.WithRecorder(recorder)
		dm.SetMetricsRegistry(recorder.Registry())
	}

	if cfg.Events.Enabled {
		notifier, err := daemon.NewNotifier(cfg.Events.URL, cfg.Events.Subject)
		if err != nil {
			return err
		}
		defer func() {
			if err := notifier.Close(); err != nil {
				slog.Warn("Failed to close notifier", logfields.Error(err))
			}
		}()
		dm.SetNotifier(notifier)
	}

	slog.Info("Starting daemon mode")
	return dm.Start(ctx)
}
