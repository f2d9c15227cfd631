package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentpilot/internal/credentials"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeUploader) Upload(_ context.Context, name, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = data
	f.types[name] = contentType
	return "https://cdn.test/" + name, nil
}

func genaiFactory(serverURL string) GenAIFactory {
	return NewGenAIFactory(credentials.Static{credentials.ProviderGemini: "test-key"}, GenAIOptions{BaseURL: serverURL})
}

func TestOpenAIImages(t *testing.T) {
	var gotAuth string
	var gotReq imageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/images/generations":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[{"url":"` + "http://" + r.Host + `/tmp/img.png"}]}`))
		case "/tmp/img.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Run("returnsProviderURL", func(t *testing.T) {
		gen := NewOpenAIImages(credentials.Static{credentials.ProviderOpenAI: "sk-test"}, OpenAIOptions{
			BaseURL: server.URL,
			Model:   "dall-e-3",
			Size:    "1024x1024",
		})

		url, err := gen.GenerateImage(context.Background(), "a lighthouse at dawn")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/tmp/img.png", url)
		assert.Equal(t, "Bearer sk-test", gotAuth)
		assert.Equal(t, "a lighthouse at dawn", gotReq.Prompt)
		assert.Equal(t, 1, gotReq.N)
		assert.Equal(t, "standard", gotReq.Quality)
		assert.Equal(t, "url", gotReq.ResponseFormat)
	})

	t.Run("rehostsIntoStorage", func(t *testing.T) {
		up := newFakeUploader()
		gen := NewOpenAIImages(credentials.Static{credentials.ProviderOpenAI: "sk-test"}, OpenAIOptions{
			BaseURL:  server.URL,
			Model:    "dall-e-3",
			Uploader: up,
		})

		url, err := gen.GenerateImage(context.Background(), "prompt")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://cdn.test/images/"))
		assert.True(t, strings.HasSuffix(url, ".png"))
		require.Len(t, up.objects, 1)
	})

	t.Run("missingKey", func(t *testing.T) {
		gen := NewOpenAIImages(credentials.Static{}, OpenAIOptions{BaseURL: server.URL})
		_, err := gen.GenerateImage(context.Background(), "prompt")
		assert.ErrorIs(t, err, credentials.ErrNotFound)
	})
}

func TestOpenAIImagesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "apiError", status: http.StatusBadRequest, body: `{"error":{"message":"content policy"}}`},
		{name: "emptyData", status: http.StatusOK, body: `{"data":[]}`},
		{name: "invalidJSON", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gen := NewOpenAIImages(credentials.Static{credentials.ProviderOpenAI: "sk"}, OpenAIOptions{BaseURL: server.URL})
			_, err := gen.GenerateImage(context.Background(), "prompt")
			assert.Error(t, err)
		})
	}
}

func TestImagen(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":predict") {
			http.NotFound(w, r)
			return
		}
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"` +
			base64.StdEncoding.EncodeToString([]byte("image-data")) + `","mimeType":"image/png"}]}`))
	}))
	defer server.Close()

	up := newFakeUploader()
	gen := NewImagen(genaiFactory(server.URL), "imagen-4.0-generate-001", up)

	url, err := gen.GenerateImage(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.True(t, strings.HasPrefix(url, "https://cdn.test/images/"))

	for name, data := range up.objects {
		assert.Equal(t, []byte("image-data"), data)
		assert.Equal(t, "image/png", up.types[name])
	}
}

func TestImagenNoImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	}))
	defer server.Close()

	gen := NewImagen(genaiFactory(server.URL), "imagen", newFakeUploader())
	_, err := gen.GenerateImage(context.Background(), "a cat")
	assert.ErrorIs(t, err, ErrNoURL)
}

func videoOperation(done bool) string {
	if !done {
		return `{"name":"models/veo/operations/op-1","done":false}`
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("video-data"))
	return `{"name":"models/veo/operations/op-1","done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"encodedVideo":"` +
		encoded + `","encoding":"video/mp4"}}]}}}`
}

func TestVeo(t *testing.T) {
	t.Run("doneImmediately", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, ":predictLongRunning") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(videoOperation(true)))
		}))
		defer server.Close()

		up := newFakeUploader()
		gen := NewVeo(genaiFactory(server.URL), "veo", up, time.Millisecond, time.Minute)

		url, err := gen.GenerateVideo(context.Background(), "a drone shot")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://cdn.test/videos/"))
		assert.True(t, strings.HasSuffix(url, ".mp4"))
	})

	t.Run("pollsUntilDone", func(t *testing.T) {
		var mu sync.Mutex
		polls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch {
			case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":predictLongRunning"):
				_, _ = w.Write([]byte(videoOperation(false)))
			case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/operations/"):
				mu.Lock()
				polls++
				done := polls >= 2
				mu.Unlock()
				_, _ = w.Write([]byte(videoOperation(done)))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		up := newFakeUploader()
		gen := NewVeo(genaiFactory(server.URL), "veo", up, time.Millisecond, time.Minute)

		_, err := gen.GenerateVideo(context.Background(), "a drone shot")
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2, polls)
		require.Len(t, up.objects, 1)
	})

	t.Run("operationError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"op","done":true,"error":{"code":3,"message":"prompt rejected"}}`))
		}))
		defer server.Close()

		gen := NewVeo(genaiFactory(server.URL), "veo", newFakeUploader(), time.Millisecond, time.Minute)
		_, err := gen.GenerateVideo(context.Background(), "bad")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt rejected")
	})

	t.Run("contextCanceled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(videoOperation(false)))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		gen := NewVeo(genaiFactory(server.URL), "veo", newFakeUploader(), time.Hour, time.Hour)
		_, err := gen.GenerateVideo(ctx, "slow")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("givesUpAfterMaxWait", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(videoOperation(false)))
		}))
		defer server.Close()

		up := newFakeUploader()
		gen := NewVeo(genaiFactory(server.URL), "veo", up, 5*time.Millisecond, 50*time.Millisecond)

		start := time.Now()
		_, err := gen.GenerateVideo(context.Background(), "stuck")
		assert.ErrorIs(t, err, ErrGenerationTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Empty(t, up.objects)
	})
}

func TestStaticVideo(t *testing.T) {
	url, err := StaticVideo{URL: "https://example.com/v.mp4"}.GenerateVideo(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v.mp4", url)

	_, err = StaticVideo{}.GenerateVideo(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestGenAIFactoryMissingKey(t *testing.T) {
	factory := NewGenAIFactory(credentials.Static{}, GenAIOptions{})
	_, err := factory(context.Background())
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}
