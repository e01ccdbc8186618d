package syntax

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"msci/pkg/dbmanager"
)

// StoreTable holds one row per declaration.
const StoreTable = "msci_commands"

var storeColumns = []string{
	"seq INTEGER NOT NULL",
	"id BIGINT NOT NULL",
	"grp VARCHAR(64) NOT NULL",
	"versions INTEGER NOT NULL",
	"help_url VARCHAR(512)",
	"template VARCHAR(1024) NOT NULL",
	"params VARCHAR(1024)",
}

// Store persists catalog declarations in any database the dbmanager dialects
// cover.
type Store struct {
	db      *sql.DB
	dialect dbmanager.Dialect
}

func NewStore(db *sql.DB, dialect dbmanager.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate creates the declaration table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateTable(StoreTable, storeColumns)); err != nil {
		return fmt.Errorf("failed to create %s: %w", StoreTable, err)
	}
	return nil
}

// Save replaces the stored catalog with decls in a single transaction.
func (s *Store) Save(ctx context.Context, decls []Declaration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	table := s.dialect.QuoteIdentifier(StoreTable)
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", StoreTable, err)
	}

	placeholders := make([]string, 7)
	for i := range placeholders {
		placeholders[i] = s.dialect.Placeholder(i + 1)
	}
	insert := fmt.Sprintf("INSERT INTO %s (seq, id, grp, versions, help_url, template, params) VALUES (%s)",
		table, strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range decls {
		_, err := stmt.ExecContext(ctx, i, int64(d.ID), d.Group, int64(d.Versions), d.HelpURL, d.Template,
			strings.Join(d.ParamTypes, ";"))
		if err != nil {
			return fmt.Errorf("failed to store command %d: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

// Load returns the stored declarations in the order they were saved.
func (s *Store) Load(ctx context.Context) ([]Declaration, error) {
	query := fmt.Sprintf("SELECT id, grp, versions, help_url, template, params FROM %s ORDER BY seq",
		s.dialect.QuoteIdentifier(StoreTable))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", StoreTable, err)
	}
	defer rows.Close()

	var decls []Declaration
	for rows.Next() {
		var (
			id, versions    int64
			help, params    sql.NullString
			group, template string
		)
		if err := rows.Scan(&id, &group, &versions, &help, &template, &params); err != nil {
			return nil, err
		}
		d := Declaration{
			Group:    group,
			Versions: GameVersion(versions),
			ID:       uint32(id),
			HelpURL:  help.String,
			Template: template,
		}
		if params.String != "" {
			d.ParamTypes = strings.Split(params.String, ";")
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}
