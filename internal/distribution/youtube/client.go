// Package youtube uploads generated Shorts through the YouTube Data API.
package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"contentpilot/internal/credentials"
	"contentpilot/internal/model"
	"contentpilot/pkg/httputil"
)

const (
	defaultCategoryID = "22"
	defaultPrivacy    = "public"
	defaultMaxBytes   = 256 << 20
	platform          = "youtube"
)

type Video struct {
	VideoURL    string
	Title       string
	Description string
	Tags        []string
	Channel     string
}

// TokenStore persists refreshed OAuth tokens.
type TokenStore interface {
	PutAPIKey(ctx context.Context, provider, name, value string) (*model.APIKey, error)
}

type Options struct {
	PrivacyStatus string
	CategoryID    string
	// Endpoint overrides the YouTube API base URL.
	Endpoint      string
	MaxVideoBytes int64
	HTTPClient    *http.Client
}

type Client struct {
	creds    credentials.Resolver
	tokens   TokenStore
	opts     Options
	download httputil.Doer
}

func NewClient(creds credentials.Resolver, tokens TokenStore, opts Options) *Client {
	if opts.PrivacyStatus == "" {
		opts.PrivacyStatus = defaultPrivacy
	}
	if opts.CategoryID == "" {
		opts.CategoryID = defaultCategoryID
	}
	if opts.MaxVideoBytes == 0 {
		opts.MaxVideoBytes = defaultMaxBytes
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Client{
		creds:    creds,
		tokens:   tokens,
		opts:     opts,
		download: httputil.NewRetryClient(opts.HTTPClient, httputil.RetryConfig{}),
	}
}

func (c *Client) Platform() string {
	return platform
}

// Publish downloads the video and uploads it to the channel. It returns the
// YouTube video id.
func (c *Client) Publish(ctx context.Context, v Video) (string, error) {
	if v.VideoURL == "" {
		return "", fmt.Errorf("publish to youtube: video url is required")
	}

	auth, keyName, err := c.loadAuth(ctx, v.Channel)
	if err != nil {
		return "", err
	}
	if !auth.IsAuthenticated() {
		return "", fmt.Errorf("%w: channel %q is not authorized", ErrInvalidCredentials, v.Channel)
	}

	data, _, err := httputil.Download(ctx, c.download, v.VideoURL, c.opts.MaxVideoBytes)
	if err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}

	oauthCtx := context.WithValue(ctx, oauth2.HTTPClient, c.opts.HTTPClient)
	source := auth.Config().TokenSource(oauthCtx, auth.Tokens)

	serviceOpts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(oauthCtx, source))}
	if c.opts.Endpoint != "" {
		serviceOpts = append(serviceOpts, option.WithEndpoint(c.opts.Endpoint))
	}
	service, err := youtube.NewService(ctx, serviceOpts...)
	if err != nil {
		return "", fmt.Errorf("create youtube service: %w", err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       v.Title,
			Description: v.Description,
			Tags:        v.Tags,
			CategoryId:  c.opts.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           c.opts.PrivacyStatus,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	resp, err := service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload video: %w", err)
	}

	c.persistRefreshedToken(ctx, auth, keyName, source)

	slog.Info("Published to YouTube", "channel", v.Channel, "video_id", resp.Id)
	return resp.Id, nil
}

// loadAuth returns the credentials for channel and the provider name they were
// stored under.
func (c *Client) loadAuth(ctx context.Context, channel string) (*Auth, string, error) {
	keyName := credentials.ProviderYouTube
	raw, err := c.creds.Resolve(ctx, keyName+":"+channel)
	if channel == "" || errors.Is(err, credentials.ErrNotFound) {
		raw, err = c.creds.Resolve(ctx, keyName)
	} else if err == nil {
		keyName = keyName + ":" + channel
	}
	if err != nil {
		return nil, "", fmt.Errorf("resolve youtube credentials: %w", err)
	}

	auth, err := ParseAuth(raw)
	if err != nil {
		return nil, "", err
	}
	return auth, keyName, nil
}

func (c *Client) persistRefreshedToken(ctx context.Context, auth *Auth, keyName string, source oauth2.TokenSource) {
	if c.tokens == nil {
		return
	}

	token, err := source.Token()
	if err != nil || token.AccessToken == auth.Tokens.AccessToken {
		return
	}
	if token.RefreshToken == "" {
		token.RefreshToken = auth.Tokens.RefreshToken
	}

	updated := *auth
	updated.Tokens = token
	value, err := updated.Encode()
	if err != nil {
		slog.Warn("Failed to encode refreshed youtube token", "error", err)
		return
	}
	if _, err := c.tokens.PutAPIKey(ctx, keyName, "oauth", value); err != nil {
		slog.Warn("Failed to persist refreshed youtube token", "key", keyName, "error", err)
	}
}
