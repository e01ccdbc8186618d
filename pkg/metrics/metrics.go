package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	compilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msci_compiles_total",
			Help: "Total number of script compiles",
		},
		[]string{"version", "outcome"},
	)

	compileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "msci_compile_duration_seconds",
			Help:    "Script compile duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"version"},
	)

	compiledLines = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "msci_compiled_lines_total",
			Help: "Total number of script lines compiled",
		},
	)

	diagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msci_diagnostics_total",
			Help: "Diagnostics reported by compiles, by type",
		},
		[]string{"type"},
	)

	catalogCommands = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "msci_catalog_commands",
			Help: "Number of command signatures in the loaded catalog",
		},
	)
)

// ObserveCompile records one compile of lines script lines.
func ObserveCompile(version string, lines, errors, warnings int, took time.Duration) {
	outcome := "ok"
	if errors > 0 {
		outcome = "failed"
	}
	compilesTotal.WithLabelValues(version, outcome).Inc()
	compileDuration.WithLabelValues(version).Observe(took.Seconds())
	compiledLines.Add(float64(lines))
	diagnosticsTotal.WithLabelValues("error").Add(float64(errors))
	diagnosticsTotal.WithLabelValues("warning").Add(float64(warnings))
}

func SetCatalogSize(n int) {
	catalogCommands.Set(float64(n))
}

// Handler serves the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
