// Package db opens the Postgres pool and applies the embedded schema.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/Kroplewski-M/student-showcase/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open("postgres", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return conn, nil
}

// buildDSN assembles a keyword DSN from the discrete fields, unless a full
// dsn was configured, which wins as-is.
func buildDSN(cfg config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	pairs := []string{
		"host=" + cfg.Host,
		fmt.Sprintf("port=%d", cfg.Port),
		"dbname=" + cfg.DBName,
		"sslmode=" + cfg.SSLMode,
	}
	if cfg.User != "" {
		pairs = append(pairs, "user="+cfg.User)
	}
	if cfg.Password != "" {
		pairs = append(pairs, "password="+cfg.Password)
	}
	return strings.Join(pairs, " ")
}

func ApplyMigrations(conn *sql.DB) error {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, "migrations/"+file)
		if err != nil {
			return err
		}
		for i, stmt := range splitStatements(string(content)) {
			if _, err := conn.Exec(stmt); err != nil {
				// schema objects are created IF NOT EXISTS where the syntax
				// allows it; tolerate the rest on re-runs
				if strings.Contains(err.Error(), "already exists") {
					continue
				}
				return fmt.Errorf("%s statement %d: %w", file, i+1, err)
			}
		}
	}
	return nil
}

func splitStatements(content string) []string {
	var statements []string
	for _, chunk := range strings.Split(content, ";") {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			statements = append(statements, chunk)
		}
	}
	return statements
}
