package cliopt

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. JOBLY_PG_DSN.
const EnvPrefix = "JOBLY"

// GlobalOptions are resolved once at the CLI root and passed to subcommands.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command and per-command code.
type GlobalOptions struct {
	Backend        string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresDriver string

	Addr     string
	Secret   string
	TokenTTL time.Duration

	Debug      bool
	ConfigFile string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Backend:        "sqlite",
		SQLitePath:     "jobly.db",
		SQLiteDriver:   "sqlite",
		PostgresDriver: "pgx",
		Addr:           ":3001",
		TokenTTL:       24 * time.Hour,
	}
}

func BindGlobalFlags(fs *pflag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.Backend, "backend", g.Backend, "backend: sqlite|postgres")

	fs.StringVar(&g.SQLitePath, "sqlite-path", g.SQLitePath, "sqlite database file")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")

	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN")
	fs.StringVar(&g.PostgresDriver, "pg-driver", g.PostgresDriver, "postgres driver: pgx or postgres (lib/pq)")

	fs.StringVar(&g.Addr, "addr", g.Addr, "HTTP listen address")
	fs.StringVar(&g.Secret, "secret", g.Secret, "token signing secret")
	fs.DurationVar(&g.TokenTTL, "token-ttl", g.TokenTTL, "token lifetime, 0 for tokens that never expire")

	fs.BoolVar(&g.Debug, "debug", g.Debug, "verbose development logging")
	fs.StringVarP(&g.ConfigFile, "config", "c", g.ConfigFile, "config file (default ./jobly.yaml when present)")
}

// Load layers configuration in increasing priority: defaults, config file,
// .env, environment, then explicitly set flags.
func Load(fs *pflag.FlagSet) (GlobalOptions, error) {
	v := viper.New()

	defaults := DefaultGlobalOptions()
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("sqlite-path", defaults.SQLitePath)
	v.SetDefault("sqlite-driver", defaults.SQLiteDriver)
	v.SetDefault("pg-driver", defaults.PostgresDriver)
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("token-ttl", defaults.TokenTTL)

	if err := v.BindPFlags(fs); err != nil {
		return GlobalOptions{}, fmt.Errorf("bind flags: %w", err)
	}

	// .env fills gaps in the environment; it never overrides it.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return GlobalOptions{}, fmt.Errorf("load .env: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return GlobalOptions{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("jobly")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return GlobalOptions{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	g := GlobalOptions{
		Backend:        strings.ToLower(v.GetString("backend")),
		SQLitePath:     v.GetString("sqlite-path"),
		SQLiteDriver:   v.GetString("sqlite-driver"),
		PostgresDSN:    v.GetString("pg-dsn"),
		PostgresDriver: v.GetString("pg-driver"),
		Addr:           v.GetString("addr"),
		Secret:         v.GetString("secret"),
		TokenTTL:       v.GetDuration("token-ttl"),
		Debug:          v.GetBool("debug"),
		ConfigFile:     v.ConfigFileUsed(),
	}
	return g, g.Validate()
}

// Validate checks the backend settings. The secret is checked by the
// commands that need it.
func (g GlobalOptions) Validate() error {
	switch g.Backend {
	case "sqlite":
		if g.SQLitePath == "" {
			return errors.New("--sqlite-path is required for the sqlite backend")
		}
	case "postgres", "pg":
		if g.PostgresDSN == "" {
			return errors.New("--pg-dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", g.Backend)
	}
	return nil
}
