package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobly/jobly/internal/cli/commands"
	"github.com/jobly/jobly/internal/cliopt"
)

// Version is set at build time.
var Version = "dev"

// NewRootCommand wires the global flags and every subcommand. Global options
// are resolved before any subcommand runs.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	g := cliopt.DefaultGlobalOptions()

	root := &cobra.Command{
		Use:           "jobly",
		Short:         "Jobly job board API",
		Long:          rootLong,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := cliopt.Load(cmd.Flags())
			if err != nil {
				return err
			}
			g = loaded
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	cliopt.BindGlobalFlags(root.PersistentFlags(), &g)

	root.AddCommand(commands.NewServeCommand(&g))
	root.AddCommand(commands.NewMigrateCommand(&g))
	root.AddCommand(commands.NewTokenCommand(&g))
	root.AddCommand(commands.NewUserCommand(&g))
	return root
}

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
