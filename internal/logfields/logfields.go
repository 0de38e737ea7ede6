package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyName       = "name"
	KeyRoot       = "root"
	KeyOutput     = "output"
	KeyCommand    = "command"
	KeyPass       = "pass"
	KeyExitCode   = "exit_code"
	KeyCount      = "count"
	KeyRevision   = "revision"
	KeyOutcome    = "outcome"
	KeyEvent      = "event"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Root(r string) slog.Attr         { return slog.String(KeyRoot, r) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Pass(n int) slog.Attr            { return slog.Int(KeyPass, n) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Revision(r string) slog.Attr     { return slog.String(KeyRevision, r) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
