package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger installs the default slog logger. format is "json" or "text".
// When file is set, records are also appended to it as JSON. The returned
// function closes the file.
func SetupLogger(level, format, file string) func() error {
	lvl := ParseLevel(level)
	primary := newHandler(os.Stderr, format, lvl)

	if file == "" {
		slog.SetDefault(slog.New(primary))
		return func() error { return nil }
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(primary))
		slog.Error("failed to open log file, using stderr only", "error", err, "file", file)
		return func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(slogmulti.Fanout(primary, fileHandler)))
	return f.Close
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w io.Writer, format string, lvl slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
