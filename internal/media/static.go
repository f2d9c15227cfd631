package media

import (
	"context"
	"log/slog"
)

// StaticVideo returns a fixed URL instead of generating a video. It stands in
// for a video model in development setups.
type StaticVideo struct {
	URL string
}

var _ VideoGenerator = StaticVideo{}

func (s StaticVideo) GenerateVideo(_ context.Context, prompt string) (string, error) {
	if s.URL == "" {
		return "", ErrNoURL
	}
	slog.Info("Video generation requested", "prompt", prompt, "url", s.URL)
	return s.URL, nil
}
