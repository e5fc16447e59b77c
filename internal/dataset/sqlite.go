// internal/dataset/sqlite.go
//
// SQLite dataset storage.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Reading the hero table in dataset order and replacing it on import.

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/heroguess/internal/hero"
)

// Open opens (and creates if missing) a SQLite database file.
//
// - Ensures the parent directory exists for relative DSNs (e.g. ./data/heroes.db).
// - Configures busy timeout and WAL journaling mode.
func Open(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies every *.sql file of migrations in lexical order.
//
// - Uses a _migrations table to track applied files.
// - Scripts that manage their own transaction (BEGIN TRANSACTION or
//   PRAGMA FOREIGN_KEYS=OFF) run as-is; all others run inside one.
func Migrate(ctx context.Context, db *sql.DB, migrations fs.FS) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		b, err := fs.ReadFile(migrations, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		sqlText := string(b)

		upper := strings.ToUpper(sqlText)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			if _, err := db.ExecContext(ctx, sqlText); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
			if _, err := db.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
				return fmt.Errorf("record %s: %w", f, err)
			}
			log.Info().Str("migration", f).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// LoadSQLite reads the heroes table ordered by position and validates it.
func LoadSQLite(ctx context.Context, db *sql.DB) (hero.Dataset, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT name, role, species, resource, attack_range, region, lane, year, icon_url, portrait_url
        FROM heroes
        ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query heroes: %w", err)
	}
	defer rows.Close()

	var ds hero.Dataset
	for rows.Next() {
		var h hero.Hero
		if err := rows.Scan(&h.Name, &h.Role, &h.Species, &h.Resource, &h.Range,
			&h.Region, &h.Lane, &h.Year, &h.IconURL, &h.PortraitURL); err != nil {
			return nil, fmt.Errorf("scan hero: %w", err)
		}
		ds = append(ds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := Validate(ds); err != nil {
		return nil, fmt.Errorf("sqlite dataset: %w", err)
	}
	return ds, nil
}

// SaveSQLite replaces the heroes table with ds in a single transaction and
// stamps dataset_meta.imported_at.
func SaveSQLite(ctx context.Context, db *sql.DB, ds hero.Dataset, now time.Time) error {
	if err := Validate(ds); err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM heroes`); err != nil {
		return fmt.Errorf("clear heroes: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO heroes
            (position, name, role, species, resource, attack_range, region, lane, year, icon_url, portrait_url)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range ds {
		if _, err := stmt.ExecContext(ctx, i, h.Name, h.Role, h.Species, h.Resource, h.Range,
			h.Region, h.Lane, h.Year, h.IconURL, h.PortraitURL); err != nil {
			return fmt.Errorf("insert %q: %w", h.Name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO dataset_meta(key, value) VALUES ('imported_at', ?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		now.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("stamp import: %w", err)
	}
	return tx.Commit()
}

// ImportedAt returns when the dataset was last imported (zero if never).
func ImportedAt(ctx context.Context, db *sql.DB) (time.Time, error) {
	var s string
	err := db.QueryRowContext(ctx, `SELECT value FROM dataset_meta WHERE key='imported_at'`).Scan(&s)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}
