package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"contentpilot/internal/api"
)

var serveNoScheduler bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the hourly publishing scheduler",
	Long: `Migrate the database, then serve the HTTP API and run a publishing pass on
every scheduler tick until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "Serve the API without the background scheduler")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	if err := a.Migrate(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	if !serveNoScheduler {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Scheduler().Start(ctx)
		}()
	}

	err = api.Serve(ctx, a.Config().Server.Addr, a.Router())
	stop()
	wg.Wait()

	slog.Info("Shut down")
	return err
}
