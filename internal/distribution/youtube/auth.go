package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultRedirectURL = "http://localhost:8080/callback"

var ErrInvalidCredentials = errors.New("invalid youtube credentials")

var scopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube",
}

// Auth is the OAuth client and token document stored for a YouTube channel.
type Auth struct {
	ClientID     string        `json:"client_id"`
	ClientSecret string        `json:"client_secret"`
	RedirectURI  string        `json:"redirect_uri,omitempty"`
	TokenURI     string        `json:"token_uri,omitempty"`
	Tokens       *oauth2.Token `json:"tokens,omitempty"`
}

func ParseAuth(raw string) (*Auth, error) {
	var auth Auth
	if err := json.Unmarshal([]byte(raw), &auth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if auth.ClientID == "" || auth.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", ErrInvalidCredentials)
	}
	return &auth, nil
}

func (a *Auth) Encode() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}
	return string(data), nil
}

func (a *Auth) Config() *oauth2.Config {
	redirect := a.RedirectURI
	if redirect == "" {
		redirect = defaultRedirectURL
	}
	endpoint := google.Endpoint
	if a.TokenURI != "" {
		endpoint.TokenURL = a.TokenURI
	}
	return &oauth2.Config{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
		RedirectURL:  redirect,
	}
}

func (a *Auth) AuthURL(state string) string {
	return a.Config().AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (a *Auth) Exchange(ctx context.Context, code string) error {
	token, err := a.Config().Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	a.Tokens = token
	return nil
}

// IsAuthenticated reports whether a token usable for uploads is present. An
// expired access token still counts when it can be refreshed.
func (a *Auth) IsAuthenticated() bool {
	if a.Tokens == nil {
		return false
	}
	return a.Tokens.Valid() || a.Tokens.RefreshToken != ""
}
