package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"arena-sync/core/database"
	"arena-sync/core/storage"
	"arena-sync/feature/integrity"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the settings backend and upstream feeds",
	Long:  `Checks the settings backend in use. Subcommands run a single check; schema and storage accept --fix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService()
		if err != nil {
			return err
		}
		defer l.Sync()
		return printJSON(svc.Report(context.Background()))
	},
}

var integritySchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check and optionally migrate the settings tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, l, err := integrityService()
		if err != nil {
			return err
		}
		defer l.Sync()

		if fixFlag {
			l.Info("Migrating settings tables...")
			if err := svc.FixSchema(ctx); err != nil {
				return notConfigured(err, settings.BackendDatabase)
			}
		}
		report, err := svc.CheckSchema(ctx)
		if err != nil {
			return notConfigured(err, settings.BackendDatabase)
		}
		if !report.Matched && !fixFlag {
			l.Info("Run with --fix to migrate the settings tables.")
		}
		return printJSON(report)
	},
}

var integrityStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the settings bucket and document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, l, err := integrityService()
		if err != nil {
			return err
		}
		defer l.Sync()

		report, err := svc.CheckStorage(ctx)
		if err != nil {
			return notConfigured(err, settings.BackendObject)
		}
		if !report.BucketExists {
			if !fixFlag {
				l.Warn("Settings bucket is missing. Run with --fix to create it.", zap.String("bucket", report.Bucket))
				return printJSON(report)
			}
			if err := svc.FixStorage(ctx); err != nil {
				return err
			}
			if report, err = svc.CheckStorage(ctx); err != nil {
				return err
			}
		}
		return printJSON(report)
	},
}

var integrityFeedCmd = &cobra.Command{
	Use:   "feed <team>",
	Short: "Read a team arena feed upstream and report its counters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService()
		if err != nil {
			return err
		}
		defer l.Sync()

		report, err := svc.CheckFeed(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(integritySchemaCmd, integrityStorageCmd, integrityFeedCmd)

	integritySchemaCmd.Flags().BoolVar(&fixFlag, "fix", false, "Migrate the settings tables")
	integrityStorageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the settings bucket")
}

// integrityService connects to the configured settings backend without
// migrating it, so the schema check sees the database as it is.
func integrityService() (*integrity.Service, *zap.Logger, error) {
	cfg, l, err := setup()
	if err != nil {
		return nil, nil, err
	}

	deps := integrity.Deps{
		StorageConfig: cfg.Storage,
		Feeds:         feed.NewIngestor(cfg.Feed, nil, l),
	}

	switch cfg.Settings.Backend {
	case settings.BackendObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		deps.Storage = client
	default:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			l.Warn("Database connection failed", zap.Error(err))
			break
		}
		deps.DB, deps.Migrator = db, settings.NewGormStore(db)
	}
	return integrity.NewService(deps, l), l, nil
}

func notConfigured(err error, backend string) error {
	if errors.Is(err, integrity.ErrNotConfigured) {
		return fmt.Errorf("check requires the %s settings backend: %w", backend, err)
	}
	return err
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
