package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"contentpilot/internal/storage"
)

const defaultVeoMaxWait = 20 * time.Minute

var ErrGenerationTimeout = errors.New("video generation did not finish in time")

// Veo generates short vertical videos with Google's Veo models. Generation is
// a long-running operation that is polled until it finishes or maxWait passes.
type Veo struct {
	newClient    GenAIFactory
	model        string
	uploader     storage.Uploader
	pollInterval time.Duration
	maxWait      time.Duration
}

var _ VideoGenerator = (*Veo)(nil)

func NewVeo(factory GenAIFactory, model string, uploader storage.Uploader, pollInterval, maxWait time.Duration) *Veo {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	if maxWait <= 0 {
		maxWait = defaultVeoMaxWait
	}
	return &Veo{newClient: factory, model: model, uploader: uploader, pollInterval: pollInterval, maxWait: maxWait}
}

func (g *Veo) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	client, err := g.newClient(ctx)
	if err != nil {
		return "", err
	}

	op, err := client.Models.GenerateVideos(ctx, g.model, prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    "9:16",
	})
	if err != nil {
		return "", fmt.Errorf("start video generation: %w", err)
	}

	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(g.maxWait)
	defer deadline.Stop()

	for !op.Done {
		slog.Debug("Waiting for video generation", "operation", op.Name)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", fmt.Errorf("%w after %s (operation %s)", ErrGenerationTimeout, g.maxWait, op.Name)
		case <-ticker.C:
		}

		op, err = client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return "", fmt.Errorf("poll video generation: %w", err)
		}
	}

	if op.Error != nil {
		return "", fmt.Errorf("video generation failed: %v", op.Error["message"])
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return "", ErrNoURL
	}

	generated := op.Response.GeneratedVideos[0]
	video := generated.Video

	if len(video.VideoBytes) == 0 {
		if video.URI == "" {
			return "", ErrNoURL
		}
		if client.ClientConfig().Backend == genai.BackendVertexAI {
			return storage.PublicURL(video.URI), nil
		}
		if _, err := client.Files.Download(ctx, genai.NewDownloadURIFromGeneratedVideo(generated), nil); err != nil {
			return "", fmt.Errorf("download video: %w", err)
		}
	}

	contentType := video.MIMEType
	if contentType == "" {
		contentType = "video/mp4"
	}

	url, err := g.uploader.Upload(ctx, objectName("videos", contentType), contentType, video.VideoBytes)
	if err != nil {
		return "", fmt.Errorf("store video: %w", err)
	}
	return url, nil
}
