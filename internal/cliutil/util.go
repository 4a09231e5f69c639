package cliutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jobly/jobly/internal/cliopt"
	"github.com/jobly/jobly/jobly"
	"github.com/jobly/jobly/jobly/storage"
	"github.com/jobly/jobly/jobly/storage/postgres"
	"github.com/jobly/jobly/jobly/storage/sqlite"
)

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// NewLogger builds a development logger on stdout when debug is set and a
// production JSON logger otherwise.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		logger, err = z.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

// NewAdapter picks the storage adapter for the configured backend.
func NewAdapter(g cliopt.GlobalOptions) (storage.Adapter, error) {
	switch g.Backend {
	case "sqlite":
		return sqlite.NewWithDriver(g.SQLitePath, g.SQLiteDriver), nil
	case "postgres", "pg":
		return postgres.NewWithDriver(g.PostgresDSN, g.PostgresDriver), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", g.Backend)
	}
}

// OpenStore connects to the configured backend and migrates it.
func OpenStore(ctx context.Context, g cliopt.GlobalOptions, log *zap.SugaredLogger) (*jobly.Store, error) {
	adapter, err := NewAdapter(g)
	if err != nil {
		return nil, err
	}
	opts := jobly.DefaultOptions()
	opts.Logger = log
	return jobly.Open(ctx, adapter, opts)
}
