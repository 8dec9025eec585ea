package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"tsb-banking/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	tel        telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:           "tsb-cli",
	Short:         "tsb-cli signs on to TSB online banking and reports the session.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "tsb-cli")
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information.")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tsb.json5", "The config file, searched for up from the working directory.")
}

// execute runs the command tree and flushes telemetry afterwards, also when
// the command failed.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.Background())
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}
	tel = telemetry.Telemetry{}

	return err
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
