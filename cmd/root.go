package cmd

import (
	"fmt"
	"os"

	"arena-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "arena-sync",
	Short: "Arena Sync Service",
	Long: `Arena Sync mirrors Lichess team arena tournaments as Discord scheduled events.
It keeps the guild events in line with the team feeds as tournaments are added or changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}

	// The debug preset prints readable timestamps on the console.
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l.Error("Command failed", zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}
