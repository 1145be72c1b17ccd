package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"arena-sync/core/loader"
	"arena-sync/core/server"
	"arena-sync/feature/integrity"
	"arena-sync/feature/tournament"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "arena-sync/docs/swagger"
)

// @title Arena Sync API
// @version 1.0
// @description Admin API mirroring Lichess team arenas as Discord scheduled events.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync scheduler and the admin API",
	Long:  `Starts the periodic sync of every auto-sync guild and the HTTP admin API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := buildStack(ctx, cfg, logg, true)
		if err != nil {
			return err
		}

		app := server.New(cfg.Server, logg)

		mgr := loader.NewManager()
		mgr.Register(tournament.NewFeature(st.service))
		mgr.Register(integrity.NewFeature(st.integrity))
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		scheduler := tournament.NewScheduler(cfg.Sync, st.orchestrator, st.store, logg)
		schedulerDone := make(chan struct{})
		go func() {
			defer close(schedulerDone)
			scheduler.Start(ctx)
		}()

		serverErr := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			serverErr <- app.Listen(cfg.Server.Address())
		}()

		select {
		case <-ctx.Done():
		case err := <-serverErr:
			stop()
			<-schedulerDone
			return err
		}

		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout()); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			logg.Warn("Server shutdown incomplete", zap.Error(err))
		}
		<-schedulerDone
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
