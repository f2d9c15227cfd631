// Package scheduler runs publishing passes on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	"contentpilot/internal/notify"
	"contentpilot/internal/pipeline"
)

type Processor interface {
	ProcessUnpublishedContent(ctx context.Context) (pipeline.PassReport, error)
}

type Options struct {
	Interval   time.Duration
	RunOnStart bool
	Notifier   notify.Notifier
}

type Scheduler struct {
	processor Processor
	opts      Options
}

func New(processor Processor, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	return &Scheduler{processor: processor, opts: opts}
}

// Start blocks, running a pass every interval until ctx is cancelled. Pass
// errors are logged and reported, never returned.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting scheduler", "interval", s.opts.Interval, "run_on_start", s.opts.RunOnStart)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	if s.opts.RunOnStart {
		s.RunOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Scheduler) RunOnce(ctx context.Context) {
	slog.Info("Scheduled pass starting")
	started := time.Now()

	report, err := s.processor.ProcessUnpublishedContent(ctx)
	switch {
	case errors.Is(err, pipeline.ErrPassInProgress):
		slog.Warn("Previous pass still running, skipping")
	case err != nil && ctx.Err() != nil:
		slog.Info("Scheduled pass interrupted", "error", err)
	case err != nil:
		slog.Error("Scheduled pass failed", "error", err)
		sentry.CaptureException(err)
		event := notify.Event{
			Subject: "Scheduled publishing pass failed",
			Body:    fmt.Sprintf("The pass at %s failed: %v", started.UTC().Format(time.RFC3339), err),
		}
		if nerr := s.opts.Notifier.Notify(ctx, event); nerr != nil {
			slog.Warn("Failed to notify operator", "error", nerr)
		}
	default:
		slog.Info("Scheduled pass completed",
			"duration", time.Since(started).Round(time.Millisecond),
			"candidates", report.Candidates,
			"published", report.Published,
			"failed", report.Failed,
		)
	}
}
