package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyRelPath    = "rel_path"
	KeyInput      = "input"
	KeyOutput     = "output"
	KeyRunID      = "run_id"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeyFiles      = "files"
	KeyChanged    = "changed"
	KeyDiagrams   = "diagrams"
	KeyRelocated  = "relocated"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func RelPath(p string) slog.Attr      { return slog.String(KeyRelPath, p) }
func Input(p string) slog.Attr        { return slog.String(KeyInput, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Changed(n int) slog.Attr         { return slog.Int(KeyChanged, n) }
func Diagrams(n int) slog.Attr        { return slog.Int(KeyDiagrams, n) }
func Relocated(n int) slog.Attr       { return slog.Int(KeyRelocated, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
