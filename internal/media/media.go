// Package media generates the image and video assets that channels publish.
package media

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"contentpilot/internal/credentials"
)

var ErrNoURL = errors.New("no media url returned")

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type VideoGenerator interface {
	GenerateVideo(ctx context.Context, prompt string) (string, error)
}

// GenAIFactory returns a client for a single generation call.
type GenAIFactory func(ctx context.Context) (*genai.Client, error)

// GenAIOptions configure NewGenAIFactory.
type GenAIOptions struct {
	Project  string
	Location string
	BaseURL  string
}

// NewGenAIFactory resolves the Gemini key on every call and falls back to
// Vertex AI with application default credentials when no key is stored.
func NewGenAIFactory(creds credentials.Resolver, opts GenAIOptions) GenAIFactory {
	return func(ctx context.Context) (*genai.Client, error) {
		cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
		key, err := creds.Resolve(ctx, credentials.ProviderGemini)
		switch {
		case err == nil:
			cfg.APIKey = key
		case errors.Is(err, credentials.ErrNotFound) && opts.Project != "":
			cfg.Backend = genai.BackendVertexAI
			cfg.Project = opts.Project
			cfg.Location = opts.Location
		default:
			return nil, fmt.Errorf("resolve gemini key: %w", err)
		}
		if opts.BaseURL != "" {
			cfg.HTTPOptions.BaseURL = opts.BaseURL
		}

		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		return client, nil
	}
}

func objectName(kind, contentType string) string {
	ext := ".bin"
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	switch strings.ToLower(contentType) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	case "video/mp4":
		ext = ".mp4"
	}
	return fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
}
