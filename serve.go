package main

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/heroguess/internal/daily"
	"github.com/robalobadob/heroguess/internal/dataset"
	"github.com/robalobadob/heroguess/internal/game"
	"github.com/robalobadob/heroguess/internal/hero"
	"github.com/robalobadob/heroguess/internal/httpserver"
	"github.com/robalobadob/heroguess/internal/store"
)

func runServe(ctx context.Context, cfg *Config) error {
	catalog := game.NewCatalog()
	go loadCatalog(ctx, cfg, catalog, time.Now)

	st := store.NewMemoryStore()
	go store.Reap(ctx, st, cfg.reapInterval, time.Now)

	srv := httpserver.New(st, catalog, httpserver.Options{
		ClientOrigin:   cfg.clientOrigin,
		JWTSecret:      cfg.jwtSecret,
		Tolerance:      cfg.matchTolerance(),
		RequestTimeout: cfg.requestTimeout,
		SecureCookies:  cfg.secureCookies,
	})

	addr := net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port))
	log.Info().Str("addr", addr).Int("tolerance", cfg.tolerance).Msg("starting heroguess")
	return srv.Start(ctx, addr)
}

// loadCatalog loads the dataset once. A failure is logged and leaves the
// catalog permanently failed; there is no retry.
func loadCatalog(ctx context.Context, cfg *Config, catalog *game.Catalog, now func() time.Time) {
	ds, err := loadDataset(ctx, cfg)
	if err == nil {
		err = catalog.Load(ds)
	} else {
		_ = catalog.Fail(err)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load hero dataset")
		return
	}
	t := now()
	log.Info().Int("heroes", len(ds)).Str("date", daily.DateKey(t)).Msg("hero dataset loaded")
	if h := catalog.Target(t); h != nil {
		log.Debug().Str("hero", h.Name).Msg("daily hero")
	}
}

// loadDataset picks the configured source: SQLite, file, or the embedded default.
func loadDataset(ctx context.Context, cfg *Config) (hero.Dataset, error) {
	switch {
	case cfg.db != "":
		db, err := openHeroDB(ctx, cfg.db)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return dataset.LoadSQLite(ctx, db)
	case cfg.dataset != "":
		return dataset.LoadFile(cfg.dataset)
	default:
		return dataset.LoadDefault()
	}
}
