package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"msci/pkg/dbmanager"
)

// Serve loads the catalog, listens on cfg.Port and serves until ctx is
// cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg *Config) error {
	dbMgr := dbmanager.NewDBManager()
	defer dbMgr.Close()

	store, err := OpenStore(ctx, cfg, dbMgr)
	if err != nil {
		return fmt.Errorf("failed to open catalog store: %w", err)
	}
	cat, err := LoadCatalog(ctx, cfg, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           NewServer(cfg, cat, dbMgr).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Listen first so a busy port is reported before we claim to be ready
	ln, err := net.Listen("tcp", cfg.Port)
	if err != nil {
		return fmt.Errorf("port %s is not available: %w", cfg.Port, err)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🚀 MSCI compile service ready", "port", cfg.Port, "version", cfg.Version.String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("⚠️  Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("✅ Server exited")
	return nil
}
