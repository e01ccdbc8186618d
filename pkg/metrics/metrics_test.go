package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCompile(t *testing.T) {
	before := testutil.ToFloat64(compilesTotal.WithLabelValues("TC", "failed"))
	lines := testutil.ToFloat64(compiledLines)

	ObserveCompile("TC", 12, 2, 1, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(compilesTotal.WithLabelValues("TC", "failed")))
	assert.Equal(t, lines+12, testutil.ToFloat64(compiledLines))
}

func TestCatalogSize(t *testing.T) {
	SetCatalogSize(311)
	assert.Equal(t, 311.0, testutil.ToFloat64(catalogCommands))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/commands/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/commands/{id}", "404")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/commands/128", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/commands/129", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
