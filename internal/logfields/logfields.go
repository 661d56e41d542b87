package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDestination = "destination"
	KeyManifest    = "manifest"
	KeyPlatform    = "platform"
	KeySection     = "section"
	KeySections    = "sections"
	KeyTool        = "tool"
	KeyPath        = "path"
	KeyRepo        = "repository"
	KeyChanged     = "changed"
	KeyDryRun      = "dry_run"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Destination(p string) slog.Attr  { return slog.String(KeyDestination, p) }
func Manifest(p string) slog.Attr     { return slog.String(KeyManifest, p) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Sections(n int) slog.Attr        { return slog.Int(KeySections, n) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Changed(c bool) slog.Attr        { return slog.Bool(KeyChanged, c) }
func DryRun(d bool) slog.Attr         { return slog.Bool(KeyDryRun, d) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
