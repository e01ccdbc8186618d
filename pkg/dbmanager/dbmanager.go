package dbmanager

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// DBManager keeps named database connections together with their dialects.
type DBManager struct {
	mu          sync.RWMutex
	connections map[string]*sql.DB
	dialects    map[string]Dialect
}

func NewDBManager() *DBManager {
	return &DBManager{
		connections: make(map[string]*sql.DB),
		dialects:    make(map[string]Dialect),
	}
}

// AddConnection opens and pings a connection registered under name.
func (m *DBManager) AddConnection(name, driverName, dsn string, maxOpen, maxIdle int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.connections[name]; exists {
		return fmt.Errorf("database connection '%s' already exists", name)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database '%s': %w", name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database '%s': %w", name, err)
	}

	if maxOpen == 0 {
		maxOpen = 10
	}
	if maxIdle == 0 {
		maxIdle = 2
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	m.connections[name] = db
	m.dialects[name] = GetDialect(driverName)
	return nil
}

// GetConnection returns nil when name is unknown.
func (m *DBManager) GetConnection(name string) *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connections[name]
}

func (m *DBManager) GetDialect(name string) Dialect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dialects[name]
}

// Close closes every connection and returns the last error seen.
func (m *DBManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.connections {
		if err := db.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close database '%s': %w", name, err)
		}
		delete(m.connections, name)
		delete(m.dialects, name)
	}
	return lastErr
}
