package app

import (
	"context"
	"fmt"
	"log/slog"

	"msci/pkg/dbmanager"
	"msci/pkg/metrics"
	"msci/pkg/syntax"
)

// catalogDB is the dbmanager name of the catalog store connection.
const catalogDB = "catalog"

// OpenStore connects the SQL catalog store configured by DB_DRIVER. It
// returns nil without error when no database is configured.
func OpenStore(ctx context.Context, cfg *Config, dbMgr *dbmanager.DBManager) (*syntax.Store, error) {
	if cfg.DBDriver == "" {
		return nil, nil
	}
	// sqlite allows one writer; a single connection also keeps :memory: databases whole
	maxOpen := 4
	if d := cfg.DriverName(); d == "sqlite" || d == "sqlite3" {
		maxOpen = 1
	}
	if err := dbMgr.AddConnection(catalogDB, cfg.DriverName(), cfg.DSN(), maxOpen, 1); err != nil {
		return nil, err
	}
	store := syntax.NewStore(dbMgr.GetConnection(catalogDB), dbMgr.GetDialect(catalogDB))
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Source turns the configuration into a catalog source. Files and sheets
// take precedence over the store.
func (c *Config) Source(store *syntax.Store) syntax.Source {
	return syntax.Source{
		Path:        c.CatalogPath,
		SheetID:     c.CatalogSheetID,
		SheetRange:  c.CatalogSheetRange,
		Credentials: c.GoogleCredentials,
		Store:       store,
	}
}

// LoadCatalog loads the configured catalog. An empty store falls back to the
// built-in catalog so a fresh database still serves compiles.
func LoadCatalog(ctx context.Context, cfg *Config, store *syntax.Store) (*syntax.Catalog, error) {
	src := cfg.Source(store)
	cat, err := syntax.Load(ctx, src)
	if err != nil && src.Path == "" && src.SheetID == "" && store != nil {
		slog.Warn("catalog store unusable, using built-in catalog", "error", err)
		src.Store = nil
		cat, err = syntax.Load(ctx, src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src.Describe(), err)
	}
	metrics.SetCatalogSize(cat.Len())
	slog.Info("catalog loaded", "source", src.Describe(), "commands", cat.Len())
	return cat, nil
}
