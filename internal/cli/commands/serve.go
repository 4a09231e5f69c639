package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobly/jobly/internal/api"
	"github.com/jobly/jobly/internal/cliopt"
	"github.com/jobly/jobly/internal/cliutil"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the jobly HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *g)
		},
	}
}

func runServe(ctx context.Context, g cliopt.GlobalOptions) error {
	if g.Secret == "" {
		return errMissingSecret
	}

	log, err := cliutil.NewLogger(g.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := cliutil.OpenStore(ctx, g, log)
	if err != nil {
		return err
	}
	defer store.Close()

	handler, err := api.New(store, api.Config{
		Secret:   []byte(g.Secret),
		TokenTTL: g.TokenTTL,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              g.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("jobly listening", "addr", g.Addr, "backend", g.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
