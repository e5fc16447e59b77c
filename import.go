package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/heroguess/internal/dataset"
	"github.com/robalobadob/heroguess/internal/hero"
)

func newImportCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the heroes in a SQLite database with a dataset file.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.db == "" {
				return errors.New("import needs --db")
			}

			src, err := cfg.importSource()
			if err != nil {
				return err
			}

			var ds hero.Dataset
			if src != "" {
				ds, err = dataset.LoadFile(src)
			} else {
				ds, err = dataset.LoadDefault()
			}
			if err != nil {
				return err
			}

			db, err := openHeroDB(cmd.Context(), cfg.db)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := dataset.SaveSQLite(cmd.Context(), db, ds, time.Now()); err != nil {
				return fmt.Errorf("import into %s: %w", cfg.db, err)
			}
			log.Info().Int("heroes", len(ds)).Str("db", cfg.db).Msg("dataset imported")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d heroes into %s\n", len(ds), cfg.db)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.from, "from", "", "dataset file (.json/.yaml) to import; --dataset is an alias; embedded default when empty (env: HEROGUESS_FROM)")
	bindEnv(v, fs)

	return cmd
}
