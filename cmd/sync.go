package cmd

import (
	"context"
	"fmt"

	tsync "arena-sync/feature/tournament/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncTeam    string
	syncDryRun  bool
	syncVerbose bool
)

// syncCmd runs one sync pass for a guild.
var syncCmd = &cobra.Command{
	Use:   "sync <guild>",
	Short: "Run one sync pass for a guild",
	Long: `Run one sync pass over the guild's registered teams, or a single team.

Examples:
  # Sync every registered team
  sync 123456789012345678

  # Show what would change for one team without writing
  sync 123456789012345678 --team coders-club --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncTeam, "team", "", "Only sync this registered team")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan without creating or updating events")
	syncCmd.Flags().BoolVar(&syncVerbose, "verbose", false, "Log every planned action")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	st, err := buildStack(ctx, cfg, l, false)
	if err != nil {
		return err
	}

	report, err := st.service.Sync(ctx, args[0], syncTeam, tsync.Options{DryRun: syncDryRun, Trigger: "cli"})
	if err != nil {
		return err
	}

	printSyncReport(l, report, syncVerbose || syncDryRun)
	fmt.Println(report.Summary())
	return nil
}

// printSyncReport logs per-feed results and optionally every action.
func printSyncReport(l *zap.Logger, report *tsync.Report, actions bool) {
	for _, f := range report.Feeds {
		fields := []zap.Field{
			zap.String("feed_id", f.FeedID),
			zap.String("status", string(f.Status)),
			zap.Bool("cached", f.Cached),
			zap.Int("records", f.Records),
			zap.Int("events", f.Events),
			zap.Int("filtered", f.Filtered.Filtered()),
			zap.Int("malformed", f.Malformed),
			zap.Int("creates", f.Plan.Creates),
			zap.Int("updates", f.Plan.Updates),
			zap.Int("skips", f.Plan.Skips),
		}
		if f.Error != "" {
			fields = append(fields, zap.String("error", f.Error))
		}
		l.Info("Feed report", fields...)

		if !actions {
			continue
		}
		for _, o := range f.Outcomes {
			l.Info("Action",
				zap.String("type", string(o.Action)),
				zap.String("key", o.Key),
				zap.String("title", o.Title),
				zap.Strings("mismatch", o.Mismatch),
				zap.Bool("attempted", o.Attempted),
				zap.String("error", o.Error),
			)
		}
	}
}
