package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"msci/pkg/fastjson"
)

// recoverer turns a panic in a handler into a JSON 500. Stack traces are
// only sent outside production.
func recoverer(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				stack := string(debug.Stack())
				slog.Error("panic recovered",
					"error", rvr,
					"path", r.URL.Path,
					"method", r.Method,
				)

				body := map[string]interface{}{
					"status": http.StatusInternalServerError,
					"error":  "Internal Server Error",
				}
				if env != "production" {
					body["detail"] = fmt.Sprintf("%v", rvr)
					body["stack"] = stack
				}
				fastjson.Write(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
