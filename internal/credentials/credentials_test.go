package credentials

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"contentpilot/internal/model"
	"contentpilot/internal/store"
)

type fakeKeys map[string]string

func (f fakeKeys) LatestAPIKey(_ context.Context, provider string) (*model.APIKey, error) {
	v, ok := f[provider]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &model.APIKey{Provider: provider, KeyValue: v}, nil
}

type brokenKeys struct{}

func (brokenKeys) LatestAPIKey(context.Context, string) (*model.APIKey, error) {
	return nil, errors.New("connection reset")
}

func TestStoreResolver(t *testing.T) {
	r := NewStoreResolver(fakeKeys{ProviderGroq: "gsk_1"})

	got, err := r.Resolve(context.Background(), ProviderGroq)
	require.NoError(t, err)
	assert.Equal(t, "gsk_1", got)

	_, err = r.Resolve(context.Background(), ProviderOpenAI)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewStoreResolver(brokenKeys{}).Resolve(context.Background(), ProviderGroq)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestEnvResolver(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "")
	r := DefaultEnvResolver()

	got, err := r.Resolve(context.Background(), ProviderGroq)
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	_, err = r.Resolve(context.Background(), ProviderOpenAI)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), "Unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChain(t *testing.T) {
	tests := []struct {
		name    string
		chain   Chain
		want    string
		wantErr error
	}{
		{
			name:  "firstHitWins",
			chain: Chain{Static{ProviderGroq: "db"}, Static{ProviderGroq: "env"}},
			want:  "db",
		},
		{
			name:  "fallsThrough",
			chain: Chain{Static{}, Static{ProviderGroq: "env"}},
			want:  "env",
		},
		{
			name:    "noneFound",
			chain:   Chain{Static{}, Static{}},
			wantErr: ErrNotFound,
		},
		{
			name:  "stopsOnHardError",
			chain: Chain{NewStoreResolver(brokenKeys{}), Static{ProviderGroq: "env"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.chain.Resolve(context.Background(), ProviderGroq)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.want == "":
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveScoped(t *testing.T) {
	r := Static{
		ProviderInstagram:         "shared",
		ProviderInstagram + ":@x": "scoped",
	}

	got, err := ResolveScoped(context.Background(), r, ProviderInstagram, "@x")
	require.NoError(t, err)
	assert.Equal(t, "scoped", got)

	got, err = ResolveScoped(context.Background(), r, ProviderInstagram, "@other")
	require.NoError(t, err)
	assert.Equal(t, "shared", got)

	_, err = ResolveScoped(context.Background(), r, ProviderYouTube, "chan")
	assert.ErrorIs(t, err, ErrNotFound)
}

type fakeAccessor struct {
	secrets map[string]string
	err     error
	names   []string
}

func (f *fakeAccessor) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.names = append(f.names, req.GetName())
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.secrets[req.GetName()]
	if !ok {
		return nil, status.Error(codes.NotFound, "secret not found")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{Payload: &secretmanagerpb.SecretPayload{Data: []byte(v)}}, nil
}

func TestSecretManagerResolver(t *testing.T) {
	accessor := &fakeAccessor{secrets: map[string]string{
		"projects/p1/secrets/youtube-oauth-brand/versions/latest": `{"client_id":"id"}`,
	}}
	r := &SecretManagerResolver{client: accessor, project: "p1"}

	got, err := ResolveScoped(context.Background(), r, ProviderYouTube, "brand")
	require.NoError(t, err)
	assert.Equal(t, `{"client_id":"id"}`, got)

	_, err = r.Resolve(context.Background(), ProviderGroq)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "projects/p1/secrets/groq/versions/latest", accessor.names[len(accessor.names)-1])

	r.client = &fakeAccessor{err: status.Error(codes.Unavailable, "down")}
	_, err = r.Resolve(context.Background(), ProviderGroq)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSecretID(t *testing.T) {
	assert.Equal(t, "instagram-brand", SecretID("Instagram:@brand"))
	assert.Equal(t, "youtube-oauth", SecretID("Youtube_OAuth"))
}
