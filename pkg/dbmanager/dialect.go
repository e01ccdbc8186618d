package dbmanager

import (
	"fmt"
	"strings"
)

// Dialect hides the SQL differences the catalog store runs into.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	Placeholder(n int) string
	CreateTable(table string, columns []string) string
}

type MySQLDialect struct{}

func (d MySQLDialect) Name() string { return "mysql" }

func (d MySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d MySQLDialect) Placeholder(n int) string { return "?" }

func (d MySQLDialect) CreateTable(table string, columns []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.QuoteIdentifier(table), strings.Join(columns, ", "))
}

type SQLiteDialect struct{}

func (d SQLiteDialect) Name() string { return "sqlite" }

func (d SQLiteDialect) QuoteIdentifier(name string) string {
	return "\"" + strings.ReplaceAll(name, "\"", "\"\"") + "\""
}

func (d SQLiteDialect) Placeholder(n int) string { return "?" }

func (d SQLiteDialect) CreateTable(table string, columns []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.QuoteIdentifier(table), strings.Join(columns, ", "))
}

type SQLServerDialect struct{}

func (d SQLServerDialect) Name() string { return "sqlserver" }

func (d SQLServerDialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// Placeholder uses @p1, @p2, ...
func (d SQLServerDialect) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }

// CreateTable guards with OBJECT_ID since SQL Server has no IF NOT EXISTS.
func (d SQLServerDialect) CreateTable(table string, columns []string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		strings.ReplaceAll(table, "'", "''"), d.QuoteIdentifier(table), strings.Join(columns, ", "))
}

type PostgreSQLDialect struct{}

func (d PostgreSQLDialect) Name() string { return "postgres" }

func (d PostgreSQLDialect) QuoteIdentifier(name string) string {
	return "\"" + strings.ReplaceAll(name, "\"", "\"\"") + "\""
}

// Placeholder uses $1, $2, ...
func (d PostgreSQLDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (d PostgreSQLDialect) CreateTable(table string, columns []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.QuoteIdentifier(table), strings.Join(columns, ", "))
}

// GetDialect returns the dialect for a database/sql driver name.
func GetDialect(driverName string) Dialect {
	switch strings.ToLower(driverName) {
	case "mysql":
		return MySQLDialect{}
	case "sqlite", "sqlite3":
		return SQLiteDialect{}
	case "postgres", "postgresql", "pgx":
		return PostgreSQLDialect{}
	case "sqlserver", "mssql":
		return SQLServerDialect{}
	default:
		return MySQLDialect{}
	}
}
