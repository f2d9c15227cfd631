// Package pipeline publishes content plans whose target date has arrived.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"contentpilot/internal/distribution/instagram"
	"contentpilot/internal/distribution/youtube"
	"contentpilot/internal/locker"
	"contentpilot/internal/media"
	"contentpilot/internal/model"
	"contentpilot/internal/notify"
	"contentpilot/internal/store"
)

const (
	passLockKey       = "process-unpublished-content"
	defaultLeaseTTL   = 30 * time.Minute
	defaultPassTTL    = 2 * time.Hour
	maxLastErrorBytes = 2000
)

var (
	ErrPassInProgress = errors.New("a processing pass is already running")
	errLeaseLost      = errors.New("plan lease was taken over")
)

var tracer = otel.Tracer("contentpilot/internal/pipeline")

type PlanStore interface {
	ListEligible(ctx context.Context, now time.Time) ([]model.ContentPlan, error)
	Claim(ctx context.Context, id uint, owner string, ttl time.Duration, now time.Time) (bool, error)
	Release(ctx context.Context, id uint, owner string) error
	UpdateMetadata(ctx context.Context, id uint, meta model.Metadata) error
	MarkPublished(ctx context.Context, id uint, at time.Time) error
	RecordFailure(ctx context.Context, id uint, f store.Failure) error
}

type ContentGenerator interface {
	GenerateForPlan(ctx context.Context, plan *model.ContentPlan) (*model.GeneratedContent, error)
}

type InstagramPublisher interface {
	Publish(ctx context.Context, post instagram.Post) (string, error)
}

type YouTubePublisher interface {
	Publish(ctx context.Context, video youtube.Video) (string, error)
}

type Dependencies struct {
	Store     PlanStore
	Generator ContentGenerator
	Images    media.ImageGenerator
	Videos    media.VideoGenerator
	Instagram InstagramPublisher
	YouTube   YouTubePublisher
	Locker    locker.Locker
	Notifier  notify.Notifier
}

type Options struct {
	LeaseTTL time.Duration
	PassTTL  time.Duration
	// MaxAttempts dead-letters a plan after that many failed passes; 0 retries forever.
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	// ReuseGenerated skips the LLM call when a previous pass already stored content.
	ReuseGenerated bool
	// Owner prefixes the lease owner; every pass appends its own id.
	Owner string
	Clock func() time.Time
}

type Pipeline struct {
	deps Dependencies
	opts Options
}

// PassReport summarises one pass over the eligible plans.
type PassReport struct {
	Candidates int `json:"candidates"`
	Published  int `json:"published"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

func New(deps Dependencies, opts Options) *Pipeline {
	if deps.Locker == nil {
		deps.Locker = locker.NewMemoryLocker()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = defaultLeaseTTL
	}
	if opts.PassTTL <= 0 {
		opts.PassTTL = defaultPassTTL
	}
	if opts.Owner == "" {
		opts.Owner = defaultOwner()
	}
	// The pass suffix has to fit the lease_owner column.
	if len(opts.Owner) > maxOwnerPrefix {
		opts.Owner = opts.Owner[:maxOwnerPrefix]
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Pipeline{deps: deps, opts: opts}
}

const maxOwnerPrefix = 48

func defaultOwner() string {
	host, err := os.Hostname()
	if err != nil {
		return "contentpilot"
	}
	return host
}

// ProcessUnpublishedContent runs one pass. Errors of individual plans are
// recorded on the plan and never fail the pass; only a failure to read the
// candidates (or a pass already in flight) does.
func (p *Pipeline) ProcessUnpublishedContent(ctx context.Context) (PassReport, error) {
	var report PassReport

	lease, err := p.deps.Locker.Acquire(ctx, passLockKey, p.opts.PassTTL)
	if errors.Is(err, locker.ErrLocked) {
		return report, ErrPassInProgress
	}
	if err != nil {
		return report, fmt.Errorf("acquire pass lock: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to release pass lock", "error", err)
		}
	}()

	ctx, span := tracer.Start(ctx, "pipeline.pass")
	defer span.End()

	started := p.opts.Clock()
	run := passRun{
		owner:   fmt.Sprintf("%s/%s", p.opts.Owner, uuid.NewString()[:8]),
		started: started,
	}

	plans, err := p.deps.Store.ListEligible(ctx, started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list eligible plans")
		return report, fmt.Errorf("list eligible plans: %w", err)
	}
	report.Candidates = len(plans)
	slog.Info("Processing unpublished content", "plans", len(plans))

	for i := range plans {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		plan := &plans[i]
		outcome := p.runPlan(ctx, run, plan)
		switch outcome {
		case outcomePublished:
			report.Published++
		case outcomeFailed:
			report.Failed++
		case outcomeSkipped:
			report.Skipped++
		}
	}

	span.SetAttributes(
		attribute.Int("plans.candidates", report.Candidates),
		attribute.Int("plans.published", report.Published),
		attribute.Int("plans.failed", report.Failed),
	)
	slog.Info("Finished processing unpublished content",
		"candidates", report.Candidates,
		"published", report.Published,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return report, nil
}

// passRun identifies one pass. Leases are owned per pass so two passes of the
// same process never share a plan.
type passRun struct {
	owner   string
	started time.Time
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomePublished
	outcomePending
	outcomeFailed
)

// runPlan claims the plan, processes it and records the result. It never
// returns an error so one plan cannot abort the pass.
func (p *Pipeline) runPlan(ctx context.Context, run passRun, plan *model.ContentPlan) outcome {
	log := slog.With("plan_id", plan.ID, "theme", plan.Theme)

	claimed, err := p.deps.Store.Claim(ctx, plan.ID, run.owner, p.opts.LeaseTTL, p.opts.Clock())
	if err != nil {
		log.Error("Failed to claim plan", "error", err)
		return outcomeSkipped
	}
	if !claimed {
		log.Info("Plan is being processed elsewhere, skipping")
		return outcomeSkipped
	}
	defer func() {
		if err := p.deps.Store.Release(context.WithoutCancel(ctx), plan.ID, run.owner); err != nil {
			log.Warn("Failed to release plan lease", "error", err)
		}
	}()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := p.keepLease(ctx, cancel, plan.ID, run.owner)
	defer stop()

	ctx, span := tracer.Start(ctx, "pipeline.plan", withPlan(plan.ID))
	defer span.End()

	published, err := p.processPlan(ctx, plan)
	if err != nil && ctx.Err() != nil {
		log.Warn("Plan interrupted", "error", err, "cause", context.Cause(ctx))
		return outcomeSkipped
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan failed")
		log.Error("Failed to process plan", "error", err)
		p.recordFailure(ctx, run, plan, err)
		return outcomeFailed
	}
	if !published {
		return outcomePending
	}

	log.Info("Plan published")
	return outcomePublished
}

// keepLease extends the plan lease every third of its TTL until stop is
// called. Losing the lease cancels the plan's work.
func (p *Pipeline) keepLease(ctx context.Context, cancel context.CancelCauseFunc, id uint, owner string) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(p.opts.LeaseTTL / 3)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			ok, err := p.deps.Store.Claim(ctx, id, owner, p.opts.LeaseTTL, p.opts.Clock())
			if err != nil {
				slog.Warn("Failed to renew plan lease", "plan_id", id, "error", err)
				continue
			}
			if !ok {
				slog.Error("Plan lease lost, abandoning plan", "plan_id", id, "owner", owner)
				cancel(errLeaseLost)
				return
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// processPlan drives one plan through content generation and every channel.
// It reports whether the plan was promoted to published.
func (p *Pipeline) processPlan(ctx context.Context, plan *model.ContentPlan) (bool, error) {
	if err := checkMedia(plan.ChannelList()); err != nil {
		return false, err
	}

	meta := plan.Metadata.Data()

	generated, err := p.generateContent(ctx, plan, meta.GeneratedContent)
	if err != nil {
		return false, err
	}
	meta.GeneratedContent = generated
	if err := p.deps.Store.UpdateMetadata(ctx, plan.ID, meta); err != nil {
		return false, fmt.Errorf("save generated content: %w", err)
	}

	var channelErrs []error
	for _, ch := range plan.ChannelList() {
		if isPublished(plan, meta.GeneratedContent, ch) {
			slog.Debug("Channel already published, skipping", "plan_id", plan.ID, "channel", ch.Key())
			continue
		}
		if err := p.publishChannel(ctx, plan, &meta, ch); err != nil {
			slog.Error("Channel failed", "plan_id", plan.ID, "channel", ch.Key(), "error", err)
			channelErrs = append(channelErrs, fmt.Errorf("%s: %w", ch.Key(), err))
		}
	}

	if !allPublished(plan, meta.GeneratedContent) {
		if len(channelErrs) == 0 {
			return false, fmt.Errorf("plan has unpublished channels")
		}
		return false, errors.Join(channelErrs...)
	}

	if err := p.deps.Store.MarkPublished(ctx, plan.ID, p.opts.Clock()); err != nil {
		return false, fmt.Errorf("mark published: %w", err)
	}
	return true, nil
}

// generateContent asks the LLM for fresh content and merges it over what an
// earlier pass stored, keeping media URLs and publishing progress.
func (p *Pipeline) generateContent(ctx context.Context, plan *model.ContentPlan, existing *model.GeneratedContent) (*model.GeneratedContent, error) {
	if p.opts.ReuseGenerated && existing != nil && existing.Caption != "" {
		return existing.Clone(), nil
	}

	slog.Info("Generating content", "plan_id", plan.ID)
	fresh, err := p.deps.Generator.GenerateForPlan(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return mergeGenerated(existing, fresh), nil
}

func mergeGenerated(existing, fresh *model.GeneratedContent) *model.GeneratedContent {
	out := fresh.Clone()
	if existing == nil {
		return out
	}
	prev := existing.Clone()
	if out.ImageURL == "" {
		out.ImageURL = prev.ImageURL
	}
	if out.VideoURL == "" {
		out.VideoURL = prev.VideoURL
	}
	out.PublishingStatus = prev.PublishingStatus
	out.Publications = prev.Publications
	return out
}

// recordFailure counts the attempt. The retry delay runs from the start of the
// pass so a plan that failed after a slow pass is still due on the next tick.
func (p *Pipeline) recordFailure(ctx context.Context, run passRun, plan *model.ContentPlan, cause error) {
	ctx = context.WithoutCancel(ctx)
	attempts := plan.Attempts + 1
	failure := store.Failure{
		Attempts:  attempts,
		LastError: truncate(cause.Error(), maxLastErrorBytes),
	}

	switch {
	case errors.Is(cause, errUnsupportedMedium):
		failure.DeadLetter = true
	case p.opts.MaxAttempts > 0 && attempts >= p.opts.MaxAttempts:
		failure.DeadLetter = true
	default:
		if delay := backoff(attempts, p.opts.BackoffBase, p.opts.BackoffMax); delay > 0 {
			next := run.started.Add(delay)
			failure.NextAttemptAt = &next
		}
	}

	if err := p.deps.Store.RecordFailure(ctx, plan.ID, failure); err != nil {
		slog.Error("Failed to record plan failure", "plan_id", plan.ID, "error", err)
		return
	}
	if !failure.DeadLetter {
		return
	}

	slog.Warn("Plan moved to dead letter", "plan_id", plan.ID, "attempts", attempts)
	event := notify.Event{
		Subject: fmt.Sprintf("Content plan %d failed", plan.ID),
		Body: fmt.Sprintf("Plan %q stopped after %d attempt(s).\nLast error: %s\nRequeue it with: contentpilot requeue %d",
			plan.Theme, attempts, failure.LastError, plan.ID),
	}
	if err := p.deps.Notifier.Notify(ctx, event); err != nil {
		slog.Warn("Failed to notify operator", "plan_id", plan.ID, "error", err)
	}
}

// backoff returns base * 2^(attempts-1), capped at ceiling. A zero base disables it.
func backoff(attempts int, base, ceiling time.Duration) time.Duration {
	if base <= 0 || attempts < 1 {
		return 0
	}
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if ceiling > 0 && delay >= ceiling {
			return ceiling
		}
	}
	if ceiling > 0 && delay > ceiling {
		return ceiling
	}
	return delay
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
