package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Setup initializes the global logger based on the environment.
// Production logs are JSON at info level; anything else is human-readable
// text at debug level. Logs go to w, or stderr when w is nil, so that
// command output on stdout stays machine-readable.
func Setup(env string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}
