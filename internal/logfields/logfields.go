package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyRemote     = "remote"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
	KeyCommand    = "command"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyFiles      = "files"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Remote(r string) slog.Attr          { return slog.String(KeyRemote, r) }
func Branch(b string) slog.Attr          { return slog.String(KeyBranch, b) }
func Commit(hash string) slog.Attr       { return slog.String(KeyCommit, hash) }
func Command(argv string) slog.Attr      { return slog.String(KeyCommand, argv) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr             { return slog.String(KeyURL, u) }
func Files(n int) slog.Attr              { return slog.Int(KeyFiles, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
