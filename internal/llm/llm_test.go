package llm

import (
	"context"
	"errors"
	"testing"

	"contentpilot/internal/credentials"
)

type echoClient struct {
	key    string
	closed *bool
}

func (c echoClient) Complete(_ context.Context, req Request) (string, error) {
	return c.key + ":" + req.User, nil
}

func (c echoClient) Close() error {
	*c.closed = true
	return nil
}

func TestResolvingUsesCurrentKey(t *testing.T) {
	keys := credentials.Static{credentials.ProviderGroq: "k1"}
	closed := false
	r := NewResolving(credentials.ProviderGroq, keys, func(_ context.Context, key string) (Client, error) {
		return echoClient{key: key, closed: &closed}, nil
	})

	got, err := r.Complete(context.Background(), Request{User: "hi"})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != "k1:hi" {
		t.Errorf("Complete() = %q, want k1:hi", got)
	}
	if !closed {
		t.Error("client should be closed after the call")
	}

	keys[credentials.ProviderGroq] = "k2"
	got, _ = r.Complete(context.Background(), Request{User: "hi"})
	if got != "k2:hi" {
		t.Errorf("Complete() after rotation = %q, want k2:hi", got)
	}
}

func TestResolvingErrors(t *testing.T) {
	tests := []struct {
		name    string
		keys    credentials.Static
		build   BuildFunc
		wantErr error
	}{
		{
			name:    "missingKey",
			keys:    credentials.Static{},
			wantErr: credentials.ErrNotFound,
		},
		{
			name: "buildFails",
			keys: credentials.Static{credentials.ProviderGroq: "k"},
			build: func(context.Context, string) (Client, error) {
				return nil, errors.New("bad key format")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolving(credentials.ProviderGroq, tt.keys, tt.build)
			_, err := r.Complete(context.Background(), Request{User: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
