package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dagboard/dagboard/pkg/buildinfo"
)

// Execute runs the dagboard CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (serve, edit,
// validate, layout, render), configures logging based on the --verbose flag,
// and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "dagboard",
		Short:        "dagboard builds and validates directed acyclic graphs",
		Long:         `dagboard is an interactive editor for directed acyclic graphs. It keeps the graph valid as you build it, rejecting edges that would close a cycle, and reports validation problems after every change.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newRenderCmd())

	return root.ExecuteContext(ctx)
}
