package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/pkg/observability"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
)

type commandTimerKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadenzor",
	Short: "Cadenzor - Artist Operations Coordinator",
	Long: `Cadenzor keeps a touring artist's projects coordinated: it scores
messages, tasks, timeline items, and threads by urgency, evaluates
assignment and automation rules, detects timeline and travel conflicts,
and assembles the daily digest.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := observability.NewRequestContext(cmd.Context(), "")
		ctx = observability.WithOperation(ctx, cmd.CommandPath())
		timer := observability.StartTimer(cmd.CommandPath()).WithLogger(logger)
		cmd.SetContext(context.WithValue(ctx, commandTimerKey{}, timer))
		logger.Info("command start",
			"command", cmd.CommandPath(),
			"correlation_id", observability.CorrelationIDFromContext(ctx),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		timer, ok := cmd.Context().Value(commandTimerKey{}).(*observability.Timer)
		if !ok {
			return
		}
		timer.Stop()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}
