package commands

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobly/jobly/internal/api"
	"github.com/jobly/jobly/internal/cliopt"
	"github.com/jobly/jobly/internal/cliutil"
	"github.com/jobly/jobly/jobly"
)

var errMissingSecret = errors.New("a token secret is required: pass --secret or set JOBLY_SECRET")

// NewMigrateCommand creates any missing tables and exits.
func NewMigrateCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the jobly tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := cliutil.NewLogger(g.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			store, err := cliutil.OpenStore(cmd.Context(), *g, log)
			if err != nil {
				return err
			}
			defer store.Close()

			target := g.SQLitePath
			if g.Backend != "sqlite" {
				target = g.Backend
			}
			cliutil.PrintJSON(cmd.OutOrStdout(), map[string]string{"migrated": target})
			return nil
		},
	}
}

// NewTokenCommand mints a bearer token without a password, for scripts and
// first-time admin setup.
func NewTokenCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Print a signed bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.Secret == "" {
				return errMissingSecret
			}
			token, err := api.IssueToken([]byte(g.Secret), g.TokenTTL, args[0], admin)
			if err != nil {
				return err
			}
			cliutil.PrintJSON(cmd.OutOrStdout(), map[string]string{"token": token})
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "mark the token as an admin token")
	return cmd
}

// NewUserCommand groups user maintenance commands.
func NewUserCommand(g *cliopt.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCommand(g))
	return cmd
}

func newUserAddCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var nu jobly.NewUser

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user, optionally as an admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.New().Struct(nu); err != nil {
				return fmt.Errorf("invalid user: %w", err)
			}

			log, err := cliutil.NewLogger(g.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return addUser(cmd, *g, log, nu)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&nu.Username, "username", "", "username (required)")
	fs.StringVar(&nu.Password, "password", "", "password (required)")
	fs.StringVar(&nu.FirstName, "first-name", "", "first name (required)")
	fs.StringVar(&nu.LastName, "last-name", "", "last name (required)")
	fs.StringVar(&nu.Email, "email", "", "email (required)")
	fs.BoolVar(&nu.IsAdmin, "admin", false, "grant admin rights")
	return cmd
}

func addUser(cmd *cobra.Command, g cliopt.GlobalOptions, log *zap.SugaredLogger, nu jobly.NewUser) error {
	store, err := cliutil.OpenStore(cmd.Context(), g, log)
	if err != nil {
		return err
	}
	defer store.Close()

	u, err := store.RegisterUser(cmd.Context(), nu)
	if err != nil {
		return err
	}
	cliutil.PrintJSON(cmd.OutOrStdout(), map[string]any{"user": u})
	return nil
}
