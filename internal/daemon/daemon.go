package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/metrics"
	"git.home.luguber.info/inful/docpublish/internal/publish"

	prom "github.com/prometheus/client_golang/prometheus"
)

// RunFunc executes one publish run.
type RunFunc func(ctx context.Context) (*publish.Result, error)

// Daemon runs publishes continuously, triggered by file changes and an
// optional periodic schedule. Runs are serialized; triggers arriving during a
// run coalesce into a single follow-up run.
type Daemon struct {
	cfg      *config.Config
	run      RunFunc
	notifier *Notifier
	registry *prom.Registry

	trigger    chan struct{}
	httpServer *http.Server

	mu      sync.Mutex
	lastRun time.Time
}

// NewDaemon creates a daemon around the given run function.
func NewDaemon(cfg *config.Config, run RunFunc) *Daemon {
	return &Daemon{
		cfg:     cfg,
		run:     run,
		trigger: make(chan struct{}, 1),
	}
}

// SetNotifier attaches a NATS notifier for run events.
func (d *Daemon) SetNotifier(n *Notifier) {
	d.notifier = n
}

// SetMetricsRegistry provides the registry served on the metrics endpoint.
func (d *Daemon) SetMetricsRegistry(reg *prom.Registry) {
	d.registry = reg
}

// Trigger requests a publish run. Non-blocking: if a run is already pending
// the trigger coalesces into it.
func (d *Daemon) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// LastRun returns the completion time of the most recent run.
func (d *Daemon) LastRun() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRun
}

// Start runs the daemon until the context is cancelled. It publishes once at
// startup, then on every watcher or scheduler trigger.
func (d *Daemon) Start(ctx context.Context) error {
	if len(d.cfg.Daemon.Watch) > 0 {
		watcher := NewWatcher(d.cfg.Daemon.Watch, d.cfg.Daemon.Debounce, d.Trigger)
		if err := watcher.Start(ctx); err != nil {
			return err
		}
	}

	if d.cfg.Daemon.Interval > 0 {
		scheduler, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodicPublish(d.cfg.Daemon.Interval, d.Trigger); err != nil {
			return err
		}
		scheduler.Start(ctx)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := scheduler.Stop(stopCtx); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	if d.cfg.Metrics.Enabled {
		d.startMetricsServer()
		defer d.stopMetricsServer()
	}

	slog.Info("Daemon started",
		"watch", d.cfg.Daemon.Watch,
		"interval", d.cfg.Daemon.Interval.String())

	// Initial publish so the site is current before any trigger fires.
	d.Trigger()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Daemon stopping")
			return nil
		case <-d.trigger:
			d.publishOnce(ctx)
		}
	}
}

func (d *Daemon) publishOnce(ctx context.Context) {
	result, err := d.run(ctx)

	d.mu.Lock()
	d.lastRun = time.Now()
	d.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("Publish run failed", logfields.Error(err))
	}

	d.notify(result, err)
}

func (d *Daemon) notify(result *publish.Result, runErr error) {
	if d.notifier == nil {
		return
	}

	event := &PublishEvent{FinishedAt: time.Now()}
	switch {
	case runErr != nil:
		event.Outcome = publish.OutcomeFailure
		event.Error = runErr.Error()
	case result != nil && result.Unchanged:
		event.Outcome = publish.OutcomeUnchanged
	default:
		event.Outcome = publish.OutcomeSuccess
	}
	if result != nil {
		event.RunID = result.RunID
		event.Remote = result.Remote
		event.Branch = result.Branch
		event.CommitHash = result.CommitHash
		event.Files = result.Files
	}

	if err := d.notifier.Notify(event); err != nil {
		slog.Warn("Failed to publish run event", logfields.Error(err))
	}
}

func (d *Daemon) startMetricsServer() {
	reg := d.registry
	if reg == nil {
		reg = prom.NewRegistry()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))

	d.httpServer = &http.Server{
		Addr:              d.cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Metrics endpoint listening", "addr", d.cfg.Metrics.Listen)
		if err := d.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
}

func (d *Daemon) stopMetricsServer() {
	if d.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.httpServer.Shutdown(ctx); err != nil {
		slog.Warn("Metrics server shutdown failed", logfields.Error(err))
	}
}
