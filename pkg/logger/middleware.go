package logger

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type requestAttrsKey struct{}

// requestAttrs collects attributes handlers add to the request log line.
type requestAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// Annotate adds attributes to the log line of the request carried by ctx.
// Outside of Middleware it does nothing.
func Annotate(ctx context.Context, attrs ...slog.Attr) {
	ra, ok := ctx.Value(requestAttrsKey{}).(*requestAttrs)
	if !ok {
		return
	}
	ra.mu.Lock()
	ra.attrs = append(ra.attrs, attrs...)
	ra.mu.Unlock()
}

// Middleware writes one log line per request once the handler is done, with
// the route pattern and whatever the handler added through Annotate.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ra := &requestAttrs{}
		r = r.WithContext(context.WithValue(r.Context(), requestAttrsKey{}, ra))

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("latency", time.Since(start)),
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				attrs = append(attrs, slog.String("route", pattern))
			}
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		ra.mu.Lock()
		attrs = append(attrs, ra.attrs...)
		ra.mu.Unlock()

		Log.LogAttrs(r.Context(), level, "request", attrs...)
	})
}
