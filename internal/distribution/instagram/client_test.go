package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentpilot/internal/credentials"
)

const testCreds = `{"user_id":"1789","access_token":"tok"}`

type graphServer struct {
	mu       sync.Mutex
	requests []*http.Request
	forms    []map[string]string
}

func (g *graphServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}

		g.mu.Lock()
		g.requests = append(g.requests, r)
		g.forms = append(g.forms, form)
		g.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/1789/media":
			_, _ = w.Write([]byte(`{"id":"container-1"}`))
		case "/1789/media_publish":
			_, _ = w.Write([]byte(`{"id":"media-42"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"unknown path","type":"OAuthException","code":803}}`))
		}
	}
}

func TestPublish(t *testing.T) {
	gs := &graphServer{}
	server := httptest.NewServer(gs.handler(t))
	defer server.Close()

	client := NewClient(credentials.Static{credentials.ProviderInstagram: testCreds}, Options{BaseURL: server.URL})

	id, err := client.Publish(context.Background(), Post{
		ImageURL: "https://cdn.test/a.png",
		Caption:  "Hello\n\n#go #dev",
		Channel:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, "media-42", id)

	require.Len(t, gs.forms, 2)
	assert.Equal(t, "https://cdn.test/a.png", gs.forms[0]["image_url"])
	assert.Equal(t, "Hello\n\n#go #dev", gs.forms[0]["caption"])
	assert.Equal(t, "tok", gs.forms[0]["access_token"])
	assert.Equal(t, "container-1", gs.forms[1]["creation_id"])
}

func TestPublishUsesChannelCredentials(t *testing.T) {
	gs := &graphServer{}
	server := httptest.NewServer(gs.handler(t))
	defer server.Close()

	creds := credentials.Static{
		credentials.ProviderInstagram:           `{"user_id":"other","access_token":"wrong"}`,
		credentials.ProviderInstagram + ":brand": testCreds,
	}
	client := NewClient(creds, Options{BaseURL: server.URL})

	_, err := client.Publish(context.Background(), Post{ImageURL: "https://cdn.test/a.png", Channel: "brand"})
	require.NoError(t, err)
	assert.Equal(t, "tok", gs.forms[0]["access_token"])
}

func TestPublishErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid image","type":"OAuthException","code":36003}}`))
	}))
	defer server.Close()

	tests := []struct {
		name    string
		creds   credentials.Static
		post    Post
		wantErr error
	}{
		{
			name:  "missingImage",
			creds: credentials.Static{credentials.ProviderInstagram: testCreds},
			post:  Post{},
		},
		{
			name:    "missingCredentials",
			creds:   credentials.Static{},
			post:    Post{ImageURL: "https://cdn.test/a.png"},
			wantErr: credentials.ErrNotFound,
		},
		{
			name:    "malformedCredentials",
			creds:   credentials.Static{credentials.ProviderInstagram: "not-json"},
			post:    Post{ImageURL: "https://cdn.test/a.png"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "incompleteCredentials",
			creds:   credentials.Static{credentials.ProviderInstagram: `{"user_id":"1"}`},
			post:    Post{ImageURL: "https://cdn.test/a.png"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:  "graphError",
			creds: credentials.Static{credentials.ProviderInstagram: testCreds},
			post:  Post{ImageURL: "https://cdn.test/a.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.creds, Options{BaseURL: server.URL})
			_, err := client.Publish(context.Background(), tt.post)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPublishIsNotRetried(t *testing.T) {
	var mu sync.Mutex
	containers, publishes := 0, 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/1789/media":
			containers++
			if containers == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"container-1"}`))
		case "/1789/media_publish":
			publishes++
			if publishes == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"media-42"}`))
		}
	}))
	defer server.Close()

	client := NewClient(credentials.Static{credentials.ProviderInstagram: testCreds}, Options{BaseURL: server.URL})
	_, err := client.Publish(context.Background(), Post{ImageURL: "https://cdn.test/a.png"})
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, containers, "container creation is retried")
	assert.Equal(t, 1, publishes, "media_publish is sent exactly once")
}

func TestPlatform(t *testing.T) {
	assert.Equal(t, "instagram", NewClient(credentials.Static{}, Options{}).Platform())
}
