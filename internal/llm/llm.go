// Package llm defines the text-completion contract shared by the groq, gemini
// and openai providers.
package llm

import (
	"context"
	"errors"
	"fmt"

	"contentpilot/internal/credentials"
)

var (
	ErrNoResponse    = errors.New("no response")
	ErrEmptyResponse = errors.New("empty response")
)

type Request struct {
	System    string
	User      string
	JSON      bool
	MaxTokens int
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// BuildFunc creates a provider client for a freshly resolved API key.
type BuildFunc func(ctx context.Context, apiKey string) (Client, error)

// Resolving looks up the provider key on every call and builds a short-lived
// client with it, so no client outlives a key rotation.
type Resolving struct {
	provider string
	creds    credentials.Resolver
	build    BuildFunc
}

var _ Client = (*Resolving)(nil)

func NewResolving(provider string, creds credentials.Resolver, build BuildFunc) *Resolving {
	return &Resolving{provider: provider, creds: creds, build: build}
}

func (r *Resolving) Complete(ctx context.Context, req Request) (string, error) {
	key, err := r.creds.Resolve(ctx, r.provider)
	if err != nil {
		return "", fmt.Errorf("resolve %s key: %w", r.provider, err)
	}

	client, err := r.build(ctx, key)
	if err != nil {
		return "", fmt.Errorf("create %s client: %w", r.provider, err)
	}

	if closer, ok := client.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	return client.Complete(ctx, req)
}
