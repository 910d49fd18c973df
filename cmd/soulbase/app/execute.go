package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the soulbase CLI with the given arguments. This is the main
// entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "soulbase",
		Short:   "Artist AI-disclosure registry pipeline",
		Version: a.version,
		Long: `Soulbase reconciles human change proposals against the artist
AI-disclosure registry: it validates per-record files, compiles the
published dataset, and executes add, update, and remove mutations
extracted from proposal threads.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.soulbase.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.config.RecordsDir, "records-dir", a.config.RecordsDir, "per-record files directory")
	rootCmd.PersistentFlags().StringVar(&a.config.ArtifactPath, "artifact", a.config.ArtifactPath, "compiled artifact path")

	rootCmd.SetVersionTemplate("soulbase {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand runs before any command: it folds parsed flag values back
// into the config and reinitializes the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewCompileCommand())
	rootCmd.AddCommand(a.NewValidateCommand())
	rootCmd.AddCommand(a.NewAddCommand())
	rootCmd.AddCommand(a.NewUpdateCommand())
	rootCmd.AddCommand(a.NewRemoveCommand())
	rootCmd.AddCommand(a.NewMigrateCommand())
	rootCmd.AddCommand(a.NewBackfillIssuesCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError prints an error to stderr and exits with status 1. It is
// meant for top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag or panics if the flag doesn't exist.
// Only used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag or panics if the flag doesn't exist.
// Only used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
