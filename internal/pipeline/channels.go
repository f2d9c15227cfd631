package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"contentpilot/internal/content"
	"contentpilot/internal/distribution/instagram"
	"contentpilot/internal/distribution/youtube"
	"contentpilot/internal/model"
)

var errUnsupportedMedium = errors.New("unsupported medium")

func withPlan(id uint) trace.SpanStartOption {
	return trace.WithAttributes(attribute.Int64("plan.id", int64(id)))
}

// checkMedia rejects plans with channels no publisher can serve; such a plan
// could never be promoted.
func checkMedia(channels []model.Channel) error {
	for _, ch := range channels {
		if !model.SupportedMedium(ch.Medium) {
			return fmt.Errorf("%w %q on channel %q", errUnsupportedMedium, ch.Medium, ch.Channel)
		}
	}
	return nil
}

// isPublished reports whether ch already went out. Plans written before
// per-channel records existed only carry the medium flag, which is trusted
// when the plan has a single channel of that medium.
func isPublished(plan *model.ContentPlan, gc *model.GeneratedContent, ch model.Channel) bool {
	if gc == nil {
		return false
	}
	if _, ok := gc.Publications[ch.Key()]; ok {
		return true
	}
	if !gc.PublishingStatus.Flag(ch.Medium) {
		return false
	}
	return countMedium(plan.ChannelList(), ch.Medium) == 1
}

func allPublished(plan *model.ContentPlan, gc *model.GeneratedContent) bool {
	for _, ch := range plan.ChannelList() {
		if !isPublished(plan, gc, ch) {
			return false
		}
	}
	return true
}

func countMedium(channels []model.Channel, medium string) int {
	n := 0
	for _, ch := range channels {
		if ch.Medium == medium {
			n++
		}
	}
	return n
}

func (p *Pipeline) publishChannel(ctx context.Context, plan *model.ContentPlan, meta *model.Metadata, ch model.Channel) error {
	ctx, span := p.startChannelSpan(ctx, plan.ID, ch)
	defer span.End()

	var (
		platformID string
		err        error
	)
	switch ch.Medium {
	case model.MediumInstagram:
		platformID, err = p.publishInstagram(ctx, plan.ID, meta, ch)
	case model.MediumYouTubeShorts:
		platformID, err = p.publishYouTube(ctx, plan.ID, meta, ch)
	default:
		err = fmt.Errorf("%w %q", errUnsupportedMedium, ch.Medium)
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	gc := meta.GeneratedContent
	gc.PublishingStatus.Set(ch.Medium)
	if gc.Publications == nil {
		gc.Publications = make(map[string]model.Publication)
	}
	gc.Publications[ch.Key()] = model.Publication{
		Medium:      ch.Medium,
		Channel:     ch.Channel,
		PlatformID:  platformID,
		PublishedAt: p.opts.Clock().UTC(),
	}

	if err := p.deps.Store.UpdateMetadata(ctx, plan.ID, *meta); err != nil {
		// The platform already has the post; a retry would publish it twice.
		slog.Error("Published but failed to record publication",
			"plan_id", plan.ID, "channel", ch.Key(), "platform_id", platformID, "error", err)
		return fmt.Errorf("save publication: %w", err)
	}

	slog.Info("Channel published", "plan_id", plan.ID, "channel", ch.Key(), "platform_id", platformID)
	return nil
}

func (p *Pipeline) startChannelSpan(ctx context.Context, planID uint, ch model.Channel) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pipeline.channel", withPlan(planID), trace.WithAttributes(
		attribute.String("channel.medium", ch.Medium),
		attribute.String("channel.handle", ch.Channel),
	))
}

func (p *Pipeline) publishInstagram(ctx context.Context, planID uint, meta *model.Metadata, ch model.Channel) (string, error) {
	gc := meta.GeneratedContent
	if gc.ImageURL == "" {
		slog.Info("Generating image", "plan_id", planID)
		url, err := p.deps.Images.GenerateImage(ctx, gc.ImagePrompt)
		if err != nil {
			return "", fmt.Errorf("generate image: %w", err)
		}
		gc.ImageURL = url
		if err := p.deps.Store.UpdateMetadata(ctx, planID, *meta); err != nil {
			return "", fmt.Errorf("save image url: %w", err)
		}
	}

	id, err := p.deps.Instagram.Publish(ctx, instagram.Post{
		ImageURL: gc.ImageURL,
		Caption:  content.FormatCaption(gc.Caption, gc.Tags),
		Tags:     gc.Tags,
		Channel:  ch.Channel,
	})
	if err != nil {
		return "", fmt.Errorf("publish to instagram: %w", err)
	}
	return id, nil
}

func (p *Pipeline) publishYouTube(ctx context.Context, planID uint, meta *model.Metadata, ch model.Channel) (string, error) {
	gc := meta.GeneratedContent
	if gc.VideoURL == "" {
		slog.Info("Generating video", "plan_id", planID)
		url, err := p.deps.Videos.GenerateVideo(ctx, gc.VideoPrompt)
		if err != nil {
			return "", fmt.Errorf("generate video: %w", err)
		}
		gc.VideoURL = url
		if err := p.deps.Store.UpdateMetadata(ctx, planID, *meta); err != nil {
			return "", fmt.Errorf("save video url: %w", err)
		}
	}

	id, err := p.deps.YouTube.Publish(ctx, youtube.Video{
		VideoURL:    gc.VideoURL,
		Title:       gc.Title,
		Description: gc.Caption,
		Tags:        gc.Tags,
		Channel:     ch.Channel,
	})
	if err != nil {
		return "", fmt.Errorf("publish to youtube: %w", err)
	}
	return id, nil
}
