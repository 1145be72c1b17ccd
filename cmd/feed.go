package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"arena-sync/feature/tournament/feed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// feedCmd dumps the normalized feed of a team.
var feedCmd = &cobra.Command{
	Use:   "feed <team>",
	Short: "Fetch a team feed and print the events a sync would mirror",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		ingestor := feed.NewIngestor(cfg.Feed, nil, l)
		l.Info("Fetching feed", zap.String("url", ingestor.URL(args[0])))

		stream, err := ingestor.Fetch(ctx, args[0])
		if err != nil {
			return err
		}
		records := stream.Collect()

		normalizer := feed.NewNormalizer(cfg.Feed, cfg.Sync.DefaultDuration())
		events, filtered := normalizer.NormalizeAll(records, time.Now())

		l.Info("Feed read",
			zap.String("end", string(stream.Reason())),
			zap.Int("lines", stream.Stats().Lines),
			zap.Int("records", stream.Stats().Records),
			zap.Int("malformed", stream.Stats().Malformed),
			zap.Int("events", len(events)),
			zap.Int("filtered", filtered.Filtered()),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(events); err != nil {
			return fmt.Errorf("encode events: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(feedCmd)
}
