package credentials

import (
	"context"
	"errors"
	"fmt"

	"contentpilot/internal/model"
	"contentpilot/internal/store"
)

type keyLookup interface {
	LatestAPIKey(ctx context.Context, provider string) (*model.APIKey, error)
}

// StoreResolver reads the most recent active key from the api_keys table.
type StoreResolver struct {
	keys keyLookup
}

var _ Resolver = (*StoreResolver)(nil)

func NewStoreResolver(keys keyLookup) *StoreResolver {
	return &StoreResolver{keys: keys}
}

func (r *StoreResolver) Resolve(ctx context.Context, provider string) (string, error) {
	key, err := r.keys.LatestAPIKey(ctx, provider)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", provider, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lookup %s key: %w", provider, err)
	}
	return key.KeyValue, nil
}
