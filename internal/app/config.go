package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"msci/pkg/syntax"
	"msci/pkg/utils/coerce"
)

// Config is the process configuration, read from the environment after
// godotenv has loaded .env.
type Config struct {
	Env     string
	Port    string
	Version syntax.GameVersion

	CatalogPath       string
	CatalogSheetID    string
	CatalogSheetRange string
	GoogleCredentials string

	DBDriver string
	DBName   string
	DBHost   string
	DBUser   string
	DBPass   string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:               envOr("APP_ENV", "development"),
		Port:              envOr("APP_PORT", ":3000"),
		CatalogPath:       os.Getenv("CATALOG_PATH"),
		CatalogSheetID:    os.Getenv("CATALOG_SHEET_ID"),
		CatalogSheetRange: os.Getenv("CATALOG_SHEET_RANGE"),
		GoogleCredentials: os.Getenv("GOOGLE_CREDENTIALS"),
		DBDriver:          strings.ToLower(os.Getenv("DB_DRIVER")),
		DBName:            os.Getenv("DB_NAME"),
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		RateLimitRequests: coerce.ToIntDef(os.Getenv("RATE_LIMIT_REQUESTS"), 0),
		RateLimitWindow:   time.Duration(coerce.ToIntDef(os.Getenv("RATE_LIMIT_WINDOW"), 60)) * time.Second,
	}
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	version, err := syntax.ParseVersion(envOr("MSCI_VERSION", "TC"))
	if err != nil {
		return nil, fmt.Errorf("invalid MSCI_VERSION: %w", err)
	}
	cfg.Version = version
	return cfg, nil
}

// DriverName maps DB_DRIVER onto the name the SQL driver registers.
func (c *Config) DriverName() string {
	switch c.DBDriver {
	case "postgresql":
		return "postgres"
	case "mssql":
		return "sqlserver"
	}
	return c.DBDriver
}

// DSN builds the data source name for DB_DRIVER.
func (c *Config) DSN() string {
	switch c.DriverName() {
	case "sqlite", "sqlite3":
		return c.DBName
	case "sqlserver":
		return fmt.Sprintf("sqlserver://%s:%s@%s?database=%s", c.DBUser, c.DBPass, c.DBHost, c.DBName)
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", c.DBUser, c.DBPass, c.DBHost, c.DBName)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s", c.DBUser, c.DBPass, c.DBHost, c.DBName)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
