// Package credentials resolves provider API keys at call time so rotated keys
// take effect without a restart.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var ErrNotFound = errors.New("credential not found")

// Provider names as stored in the api_keys table.
const (
	ProviderGroq      = "Groq"
	ProviderGemini    = "Gemini"
	ProviderOpenAI    = "OpenAI"
	ProviderInstagram = "Instagram"
	ProviderYouTube   = "Youtube_OAuth"
)

type Resolver interface {
	Resolve(ctx context.Context, provider string) (string, error)
}

// ResolveScoped looks up "provider:scope" first and falls back to provider.
func ResolveScoped(ctx context.Context, r Resolver, provider, scope string) (string, error) {
	if scope != "" {
		value, err := r.Resolve(ctx, provider+":"+scope)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return r.Resolve(ctx, provider)
}

// Chain returns the first credential found by its resolvers in order.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, provider string) (string, error) {
	for _, r := range c {
		value, err := r.Resolve(ctx, provider)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: %w", provider, ErrNotFound)
}

// EnvResolver maps provider names to environment variables.
type EnvResolver map[string]string

func DefaultEnvResolver() EnvResolver {
	return EnvResolver{
		ProviderGroq:   "GROQ_API_KEY",
		ProviderGemini: "GEMINI_API_KEY",
		ProviderOpenAI: "OPENAI_API_KEY",
	}
}

func (e EnvResolver) Resolve(_ context.Context, provider string) (string, error) {
	name, ok := e[provider]
	if !ok {
		return "", fmt.Errorf("%s: %w", provider, ErrNotFound)
	}
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrNotFound)
	}
	return value, nil
}

// Static serves fixed values, mostly for tests and one-off commands.
type Static map[string]string

func (s Static) Resolve(_ context.Context, provider string) (string, error) {
	value, ok := s[provider]
	if !ok || value == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrNotFound)
	}
	return value, nil
}
