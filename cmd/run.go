package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"contentpilot/internal/scheduler"
)

var (
	runInterval time.Duration
	runNow      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Cron mode: run publishing passes on an interval without the API",
	Long: `Run the publishing scheduler in the foreground. The interval defaults to
pipeline.interval from config.yaml.`,
	RunE: runCron,
}

func init() {
	runCmd.Flags().DurationVarP(&runInterval, "interval", "i", 0, "Interval between passes (overrides config)")
	runCmd.Flags().BoolVar(&runNow, "now", false, "Run a pass immediately on start")
	rootCmd.AddCommand(runCmd)
}

func runCron(cmd *cobra.Command, args []string) error {
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

	sched := a.Scheduler()
	if runInterval > 0 || runNow {
		interval := a.Config().Pipeline.Interval
		if runInterval > 0 {
			interval = runInterval
		}
		sched = scheduler.New(a.Pipeline(), scheduler.Options{
			Interval:   interval,
			RunOnStart: runNow || a.Config().Pipeline.RunOnStart,
			Notifier:   a.Notifier(),
		})
	}

	sched.Start(ctx)
	return nil
}
