// Package sqlite stores event requests in a local SQLite file (or in memory),
// for development and single-operator use.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is how timestamps are stored in TEXT columns
const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// DB provides event request storage using SQLite
type DB struct {
	conn *sql.DB
}

var _ db.Database = (*DB)(nil)

// Open opens the SQLite database at path. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.conn.Close()
}

// RunMigrations executes all pending SQL migration files in order
func (d *DB) RunMigrations(ctx context.Context) error {
	_, err := d.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	sqlFiles, err := db.MigrationFiles(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	for _, filename := range sqlFiles {
		var count int
		err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE filename = ?`, filename).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", filename, err)
		}
		if count > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, "migrations/"+filename)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		tx, err := d.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for %s: %w", filename, err)
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)`,
			filename, time.Now().UTC().Format(timeLayout)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", filename, err)
		}
	}

	return nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored time %q: %w", s.String, err)
	}
	return &t, nil
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
