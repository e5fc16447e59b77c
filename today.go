package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/heroguess/internal/daily"
)

func newTodayCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show which dataset index is the daily hero.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if cfg.date != "" {
				t, err := time.Parse("2006-01-02", cfg.date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", cfg.date, err)
				}
				when = t
			}
			if cfg.dataset != "" && cfg.db != "" {
				return fmt.Errorf("--dataset and --db are mutually exclusive")
			}

			ds, err := loadDataset(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			idx, err := daily.Index(when, len(ds))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "date: %s\nheroes: %d\nindex: %d\n", daily.DateKey(when), len(ds), idx)
			if cfg.reveal {
				fmt.Fprintf(out, "hero: %s\n", ds[idx].Name)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.date, "date", "", "UTC date (YYYY-MM-DD) instead of today (env: HEROGUESS_DATE)")
	fs.BoolVar(&cfg.reveal, "reveal", false, "print the daily hero's name (env: HEROGUESS_REVEAL)")
	bindEnv(v, fs)

	return cmd
}
