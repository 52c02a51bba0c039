package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyPhase      = "phase"
	KeyState      = "state"
	KeyStatus     = "status"
	KeyHash       = "hash"
	KeyCount      = "count"
	KeyThreads    = "threads"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr           { return slog.String(KeyDir, d) }
func Phase(name string) slog.Attr      { return slog.String(KeyPhase, name) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Hash(h string) slog.Attr          { return slog.String(KeyHash, h) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Threads(n int) slog.Attr          { return slog.Int(KeyThreads, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Addr(a string) slog.Attr          { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil { return slog.String(KeyError, "") }
	return slog.String(KeyError, err.Error())
}
