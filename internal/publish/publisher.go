package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpublish/internal/builder"
	"git.home.luguber.info/inful/docpublish/internal/config"
	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
	"git.home.luguber.info/inful/docpublish/internal/gitremote"
	"git.home.luguber.info/inful/docpublish/internal/history"
	"git.home.luguber.info/inful/docpublish/internal/landing"
	"git.home.luguber.info/inful/docpublish/internal/linkverify"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/metrics"
	"git.home.luguber.info/inful/docpublish/internal/workspace"
)

// Result describes a completed publish run.
type Result struct {
	RunID      string
	Remote     string
	Branch     string
	CommitHash string
	Files      int
	Duration   time.Duration
	Unchanged  bool
}

// Publisher runs the publish pipeline. Collaborators are injected so tests
// can substitute fakes for the build subprocess and observe metrics.
type Publisher struct {
	cfg           *config.Config
	runner        builder.Runner
	git           *gitremote.Client
	recorder      metrics.Recorder
	journal       history.Store
	workspaceBase string
	verify        bool
}

// NewPublisher creates a publisher with production collaborators.
func NewPublisher(cfg *config.Config) *Publisher {
	return &Publisher{
		cfg:      cfg,
		runner:   builder.NewCommandRunner(cfg.Build.Command),
		git:      gitremote.NewClient(cfg.Publish.Auth),
		recorder: metrics.NoopRecorder{},
	}
}

// WithRunner injects a custom build runner (for tests or --skip-build).
func (p *Publisher) WithRunner(r builder.Runner) *Publisher {
	if r != nil {
		p.runner = r
	}
	return p
}

// WithRecorder injects a metrics recorder.
func (p *Publisher) WithRecorder(r metrics.Recorder) *Publisher {
	if r != nil {
		p.recorder = r
	}
	return p
}

// WithJournal injects the publish run journal.
func (p *Publisher) WithJournal(s history.Store) *Publisher {
	p.journal = s
	return p
}

// WithWorkspaceBase overrides where the scoped workspace is created.
func (p *Publisher) WithWorkspaceBase(dir string) *Publisher {
	p.workspaceBase = dir
	return p
}

// WithVerify enables offline link verification of the built tree before it is
// published.
func (p *Publisher) WithVerify(enabled bool) *Publisher {
	p.verify = enabled
	return p
}

// Run executes the pipeline once. On any stage failure the error is returned
// after the workspace has been cleaned up and the failure journaled.
func (p *Publisher) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	result := &Result{
		RunID:  uuid.NewString(),
		Branch: p.cfg.Publish.Branch,
	}

	slog.Info("Starting publish run", logfields.RunID(result.RunID), logfields.Branch(result.Branch))

	err := p.run(ctx, result)
	result.Duration = time.Since(started)

	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeFailure
	case result.Unchanged:
		outcome = OutcomeUnchanged
	}

	p.recorder.ObservePublishDuration(result.Duration)
	p.recorder.IncPublishOutcome(outcome)
	p.journalRun(result, started, outcome, err)

	if err != nil {
		slog.Error("Publish run failed",
			logfields.RunID(result.RunID), logfields.Error(err),
			logfields.DurationMS(float64(result.Duration.Milliseconds())))
		return nil, err
	}

	slog.Info("Publish run finished",
		logfields.RunID(result.RunID),
		slog.String("outcome", outcome),
		logfields.Commit(result.CommitHash),
		logfields.Files(result.Files),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (p *Publisher) run(ctx context.Context, result *Result) error {
	repoDir := p.cfg.Publish.RepoDir
	outputDir := filepath.Join(repoDir, p.cfg.Build.OutputDir)

	// Build the documentation, then check it actually produced a tree. A
	// build that exits zero without output is reported as a distinct
	// missing-docs failure rather than a confusing copy error later.
	if err := p.stage(StageBuild, func() error {
		return p.runner.Run(ctx, repoDir)
	}); err != nil {
		return err
	}
	if _, err := os.Stat(outputDir); err != nil {
		p.recorder.IncStageResult(StageBuild, metrics.ResultFailure)
		return pErrors.Wrap(err, pErrors.CategoryFileSystem, pErrors.SeverityFatal,
			fmt.Sprintf("documentation build produced no output at %s", outputDir))
	}

	if p.verify {
		if err := p.stage(StageVerify, func() error {
			report, err := linkverify.VerifyTree(outputDir)
			if err != nil {
				return err
			}
			if !report.OK() {
				return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal,
					fmt.Sprintf("built documentation has %d broken internal links", len(report.Broken))).
					WithContext("broken", report.Broken)
			}
			return nil
		}); err != nil {
			return err
		}
	} else {
		p.recorder.IncStageResult(StageVerify, metrics.ResultSkipped)
	}

	// Resolve the push remote before creating any scratch state; an
	// ambiguous remote configuration must abort before anything is mutated.
	var remote string
	if err := p.stage(StageResolve, func() error {
		var err error
		remote, err = p.git.ResolvePushRemote(repoDir)
		return err
	}); err != nil {
		return err
	}
	result.Remote = remote

	wsManager := workspace.NewManager(p.workspaceBase)
	if err := wsManager.Create(); err != nil {
		return pErrors.Wrap(err, pErrors.CategoryFileSystem, pErrors.SeverityFatal, "failed to create workspace")
	}
	defer func() {
		if err := wsManager.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", logfields.Error(err))
		}
	}()
	cloneDir := wsManager.GetPath()

	var repo *git.Repository
	if err := p.stage(StageClone, func() error {
		r, err := p.git.CloneBranch(ctx, remote, p.cfg.Publish.Branch, cloneDir)
		if err != nil {
			return err
		}
		repo = r
		return nil
	}); err != nil {
		return err
	}

	// Idempotent cleanup: a stale published tree must never merge with the
	// fresh one.
	docsDst := filepath.Join(cloneDir, p.cfg.Publish.DocsSubdir)
	if err := p.stage(StageClear, func() error {
		if err := os.RemoveAll(docsDst); err != nil {
			return pErrors.Wrap(err, pErrors.CategoryFileSystem, pErrors.SeverityFatal,
				fmt.Sprintf("failed to remove stale docs at %s", docsDst))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := p.stage(StageCopy, func() error {
		files, err := CopyTree(outputDir, docsDst)
		if err != nil {
			return pErrors.Wrap(err, pErrors.CategoryFileSystem, pErrors.SeverityFatal,
				fmt.Sprintf("failed to copy documentation tree from %s", outputDir))
		}
		result.Files = files
		return nil
	}); err != nil {
		return err
	}

	if p.cfg.Publish.Landing != "" {
		if err := p.stage(StageLanding, func() error {
			src := filepath.Join(repoDir, p.cfg.Publish.Landing)
			return landing.Render(src, docsDst, filepath.Base(remote))
		}); err != nil {
			return err
		}
	}

	if err := p.stage(StageCommit, func() error {
		hash, err := p.git.CommitDocs(repo, p.cfg.Publish.DocsSubdir, p.cfg.Publish.CommitMessage)
		if errors.Is(err, gitremote.ErrNothingToPublish) {
			slog.Info("Documentation unchanged, nothing to publish", logfields.Branch(result.Branch))
			result.Unchanged = true
			return nil
		}
		if err != nil {
			return err
		}
		result.CommitHash = hash
		return nil
	}); err != nil {
		return err
	}
	if result.Unchanged {
		return nil
	}

	return p.stage(StagePush, func() error {
		return p.git.Push(ctx, repo)
	})
}

// stage times a pipeline step and feeds logs and metrics with its outcome.
func (p *Publisher) stage(name string, fn func() error) error {
	started := time.Now()
	slog.Debug("Running stage", logfields.Stage(name))

	err := fn()
	elapsed := time.Since(started)
	p.recorder.ObserveStageDuration(name, elapsed)

	if err != nil {
		p.recorder.IncStageResult(name, metrics.ResultFailure)
		slog.Debug("Stage failed", logfields.Stage(name), logfields.Error(err),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
		return err
	}

	p.recorder.IncStageResult(name, metrics.ResultSuccess)
	slog.Debug("Stage finished", logfields.Stage(name),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

func (p *Publisher) journalRun(result *Result, started time.Time, outcome string, err error) {
	if p.journal == nil {
		return
	}

	run := history.Run{
		ID:         result.RunID,
		StartedAt:  started,
		FinishedAt: started.Add(result.Duration),
		Remote:     result.Remote,
		Branch:     result.Branch,
		CommitHash: result.CommitHash,
		Files:      result.Files,
		Outcome:    outcome,
	}
	if err != nil {
		run.Error = err.Error()
	}

	// Journal failures must not mask the run's own outcome.
	if jerr := p.journal.Record(context.Background(), run); jerr != nil {
		slog.Warn("Failed to journal publish run", logfields.RunID(result.RunID), logfields.Error(jerr))
	}
}
