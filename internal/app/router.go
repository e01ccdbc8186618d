package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"msci/pkg/dbmanager"
	"msci/pkg/logger"
	"msci/pkg/metrics"
	"msci/pkg/syntax"
)

// Server answers compile and catalog requests against one catalog.
type Server struct {
	cfg     *Config
	catalog *syntax.Catalog
	dbMgr   *dbmanager.DBManager
}

// NewServer wires the handlers. dbMgr may be nil when no store is configured.
func NewServer(cfg *Config, cat *syntax.Catalog, dbMgr *dbmanager.DBManager) *Server {
	return &Server{cfg: cfg, catalog: cat, dbMgr: dbMgr}
}

// Router builds the chi router with the middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(logger.Middleware)
	r.Use(metrics.Middleware)
	r.Use(recoverer(s.cfg.Env))

	if s.cfg.RateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitRequests, s.cfg.RateLimitWindow))
	} else {
		slog.Info("rate limiting disabled (RATE_LIMIT_REQUESTS not set)")
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Get("/commands", s.handleCommands)
		r.Get("/commands/{id}", s.handleCommand)
	})
	return r
}
