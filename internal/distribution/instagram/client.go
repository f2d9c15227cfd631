// Package instagram publishes image posts through the Instagram Graph API.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"contentpilot/internal/credentials"
	"contentpilot/pkg/httputil"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v21.0"
	platform       = "instagram"
)

var ErrInvalidCredentials = errors.New("invalid instagram credentials")

type Post struct {
	ImageURL string
	Caption  string
	Tags     []string
	Channel  string
}

type Options struct {
	BaseURL       string
	RatePerMinute int
	HTTPClient    *http.Client
}

type Client struct {
	creds      credentials.Resolver
	httpClient httputil.Doer
	// publishClient never retries: a repeated media_publish can post twice.
	publishClient httputil.Doer
	baseURL       string
	limiter       *rate.Limiter
}

// Credentials is the JSON document stored for the Instagram provider.
type Credentials struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

type graphResponse struct {
	ID    string      `json:"id"`
	Error *graphError `json:"error,omitempty"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func NewClient(creds credentials.Resolver, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	limit := rate.Inf
	if opts.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RatePerMinute))
	}

	return &Client{
		creds:         creds,
		httpClient:    httputil.NewRetryClient(httpClient, httputil.RetryConfig{}),
		publishClient: httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		limiter:       rate.NewLimiter(limit, 1),
	}
}

func (c *Client) Platform() string {
	return platform
}

// Publish creates a media container for the image and publishes it. It
// returns the id of the published media.
func (c *Client) Publish(ctx context.Context, post Post) (string, error) {
	if post.ImageURL == "" {
		return "", fmt.Errorf("publish to instagram: image url is required")
	}

	creds, err := c.credentials(ctx, post.Channel)
	if err != nil {
		return "", err
	}

	containerID, err := c.call(ctx, c.httpClient, creds, "media", url.Values{
		"image_url": {post.ImageURL},
		"caption":   {post.Caption},
	})
	if err != nil {
		return "", fmt.Errorf("create media container: %w", err)
	}

	mediaID, err := c.call(ctx, c.publishClient, creds, "media_publish", url.Values{
		"creation_id": {containerID},
	})
	if err != nil {
		return "", fmt.Errorf("publish media container %s: %w", containerID, err)
	}

	slog.Info("Published to Instagram", "channel", post.Channel, "media_id", mediaID)
	return mediaID, nil
}

func (c *Client) credentials(ctx context.Context, channel string) (Credentials, error) {
	raw, err := credentials.ResolveScoped(ctx, c.creds, credentials.ProviderInstagram, channel)
	if err != nil {
		return Credentials{}, fmt.Errorf("resolve instagram credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if creds.UserID == "" || creds.AccessToken == "" {
		return Credentials{}, fmt.Errorf("%w: user_id and access_token are required", ErrInvalidCredentials)
	}
	return creds, nil
}

func (c *Client) call(ctx context.Context, doer httputil.Doer, creds Credentials, edge string, form url.Values) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	form.Set("access_token", creds.AccessToken)
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(creds.UserID), edge)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed graphResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("graph api error %d (%s): %s", parsed.Error.Code, parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("graph api status %d", resp.StatusCode)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("graph api returned no id")
	}
	return parsed.ID, nil
}
