package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"contentpilot/internal/credentials"
	"contentpilot/internal/storage"
	"contentpilot/pkg/httputil"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	maxImageBytes        = 20 << 20
)

// OpenAIImages generates images with the OpenAI images API. Returned URLs
// expire, so when an uploader is set the image is copied into storage.
type OpenAIImages struct {
	creds      credentials.Resolver
	httpClient httputil.Doer
	baseURL    string
	model      string
	size       string
	uploader   storage.Uploader
}

var _ ImageGenerator = (*OpenAIImages)(nil)

type OpenAIOptions struct {
	BaseURL  string
	Model    string
	Size     string
	Uploader storage.Uploader
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIImages(creds credentials.Resolver, opts OpenAIOptions) *OpenAIImages {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIImages{
		creds:      creds,
		httpClient: httputil.NewRetryClient(&http.Client{Timeout: 2 * time.Minute}, httputil.RetryConfig{}),
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      opts.Model,
		size:       opts.Size,
		uploader:   opts.Uploader,
	}
}

func (g *OpenAIImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	apiKey, err := g.creds.Resolve(ctx, credentials.ProviderOpenAI)
	if err != nil {
		return "", fmt.Errorf("resolve openai key: %w", err)
	}

	data, err := json.Marshal(imageRequest{
		Model:          g.model,
		Prompt:         prompt,
		N:              1,
		Size:           g.size,
		Quality:        "standard",
		ResponseFormat: "url",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/images/generations", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed imageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("image api error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("image api error (status %d)", resp.StatusCode)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", ErrNoURL
	}

	url := parsed.Data[0].URL
	if g.uploader == nil {
		return url, nil
	}
	return g.rehost(ctx, url)
}

func (g *OpenAIImages) rehost(ctx context.Context, url string) (string, error) {
	data, contentType, err := httputil.Download(ctx, g.httpClient, url, maxImageBytes)
	if err != nil {
		return "", fmt.Errorf("download generated image: %w", err)
	}
	if contentType == "" {
		contentType = "image/png"
	}

	stored, err := g.uploader.Upload(ctx, objectName("images", contentType), contentType, data)
	if err != nil {
		return "", fmt.Errorf("store generated image: %w", err)
	}

	slog.Debug("Image stored", "url", stored)
	return stored, nil
}
