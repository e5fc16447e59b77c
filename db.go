// db.go
//
// SQLite wiring for the CLI: open the hero database and bring its schema up to
// date from the embedded migrations before any read or import.

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/heroguess/assets"
	"github.com/robalobadob/heroguess/internal/dataset"
)

// openHeroDB opens path and applies migrations.
func openHeroDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := dataset.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := dataset.Migrate(ctx, db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	log.Debug().Str("db", path).Msg("hero database ready")
	return db, nil
}
