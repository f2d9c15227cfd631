package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"contentpilot/internal/pipeline"
)

var processMigrate bool

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run a single publishing pass and exit",
	Long: `Publish every pending plan whose target date has arrived, then exit.
Suited to external cron jobs.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processMigrate, "migrate", false, "Migrate the database before processing")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	if processMigrate {
		if err := a.Migrate(ctx); err != nil {
			return err
		}
	}

	slog.Info("Processing unpublished content...")
	report, err := a.Pipeline().ProcessUnpublishedContent(ctx)
	if errors.Is(err, pipeline.ErrPassInProgress) {
		slog.Warn("Another pass is already running, nothing to do")
		return nil
	}
	if err != nil {
		return fmt.Errorf("process content: %w", err)
	}

	slog.Info("Processing complete",
		"candidates", report.Candidates,
		"published", report.Published,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return nil
}
