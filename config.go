package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robalobadob/heroguess/internal/match"
)

type Config struct {
	// shared
	dataset   string
	db        string
	logLevel  string
	logPretty bool

	// serve
	bind           string
	port           int
	tolerance      int
	clientOrigin   string
	jwtSecret      string
	requestTimeout time.Duration
	reapInterval   time.Duration
	secureCookies  bool

	// import
	from string

	// today
	date   string
	reveal bool
}

func (c *Config) validate() error {
	if c.dataset != "" && c.db != "" {
		return errors.New("--dataset and --db are mutually exclusive")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.tolerance < 0 {
		return fmt.Errorf("invalid tolerance (must be 0 or more): %d", c.tolerance)
	}
	if c.reapInterval <= 0 {
		return fmt.Errorf("invalid reap interval: %s", c.reapInterval)
	}
	return nil
}

// matchTolerance maps --tolerance onto httpserver.Options, where 0 selects the
// default and a negative value means exact names only.
func (c *Config) matchTolerance() int {
	if c.tolerance == 0 {
		return -1
	}
	return c.tolerance
}

// importSource returns the dataset file to import. --dataset is accepted as an
// alias for --from.
func (c *Config) importSource() (string, error) {
	if c.from != "" && c.dataset != "" && c.from != c.dataset {
		return "", fmt.Errorf("--from %q and --dataset %q disagree", c.from, c.dataset)
	}
	if c.from != "" {
		return c.from, nil
	}
	return c.dataset, nil
}

// setupLogging applies --log-level and --log-pretty to the global zerolog logger.
func (c *Config) setupLogging() error {
	lvl, err := zerolog.ParseLevel(c.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.logLevel, err)
	}
	zerolog.SetGlobalLevel(lvl)
	if c.logPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return nil
}

// bindEnv lets HEROGUESS_<FLAG_NAME> supply any flag not given on the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newRootCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HEROGUESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "heroguess",
		Short:   "Daily hero guessing game server.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&cfg.dataset, "dataset", "", "path to a .json/.yaml hero dataset; embedded default when empty (env: HEROGUESS_DATASET)")
	pfs.StringVar(&cfg.db, "db", "", "path to a SQLite hero database (env: HEROGUESS_DB)")
	pfs.StringVar(&cfg.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error (env: HEROGUESS_LOG_LEVEL)")
	pfs.BoolVar(&cfg.logPretty, "log-pretty", false, "human readable console logs (env: HEROGUESS_LOG_PRETTY)")

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HEROGUESS_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: HEROGUESS_PORT)")
	fs.IntVar(&cfg.tolerance, "tolerance", match.DefaultTolerance, "maximum edit distance for a fuzzy name match (env: HEROGUESS_TOLERANCE)")
	fs.StringVar(&cfg.clientOrigin, "client-origin", "http://localhost:5173", "allowed CORS origin (env: HEROGUESS_CLIENT_ORIGIN)")
	fs.StringVar(&cfg.jwtSecret, "jwt-secret", "dev_secret_change_me", "session token signing key (env: HEROGUESS_JWT_SECRET)")
	fs.DurationVar(&cfg.requestTimeout, "request-timeout", 10*time.Second, "per-request timeout (env: HEROGUESS_REQUEST_TIMEOUT)")
	fs.DurationVar(&cfg.reapInterval, "reap-interval", 10*time.Minute, "how often sessions from previous days are dropped (env: HEROGUESS_REAP_INTERVAL)")
	fs.BoolVar(&cfg.secureCookies, "secure-cookies", false, "mark session cookies Secure/SameSite=None (env: HEROGUESS_SECURE_COOKIES)")

	bindEnv(v, pfs)
	bindEnv(v, fs)

	cmd.AddCommand(newImportCmd(cfg, v), newTodayCmd(cfg, v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("heroguess v{{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
