package cli

import (
	"context"

	"msci/internal/app"
	"msci/pkg/dbmanager"
	"msci/pkg/syntax"
)

// cliEnv is the configuration and catalog a command works against.
type cliEnv struct {
	cfg     *app.Config
	dbMgr   *dbmanager.DBManager
	store   *syntax.Store
	catalog *syntax.Catalog
}

// loadEnv reads the configuration and loads the configured catalog.
func loadEnv(ctx context.Context) (*cliEnv, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	env := &cliEnv{cfg: cfg, dbMgr: dbmanager.NewDBManager()}
	if env.store, err = app.OpenStore(ctx, cfg, env.dbMgr); err != nil {
		env.Close()
		return nil, err
	}
	if env.catalog, err = app.LoadCatalog(ctx, cfg, env.store); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func (e *cliEnv) Close() {
	e.dbMgr.Close()
}
