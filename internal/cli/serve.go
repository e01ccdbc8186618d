package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"msci/internal/app"
)

// HandleServe runs the HTTP compile service until interrupted.
func HandleServe() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("❌ Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, cfg); err != nil {
		slog.Error("❌ Server failed", "error", err)
		os.Exit(1)
	}
}
