package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contentpilot/internal/llm"
)

func TestComplete(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantText string
		wantErr  error
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"caption\":\"hi\"}"}]}}]}`,
			wantText: `{"caption":"hi"}`,
		},
		{
			name:    "noCandidates",
			status:  http.StatusOK,
			body:    `{"candidates":[]}`,
			wantErr: llm.ErrNoResponse,
		},
		{
			name:    "emptyText",
			status:  http.StatusOK,
			body:    `{"candidates":[{"content":{"role":"model","parts":[{"text":""}]}}]}`,
			wantErr: llm.ErrEmptyResponse,
		},
		{
			name:   "apiError",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("x-goog-api-key") != "test-key" {
					t.Errorf("missing api key header")
				}
				data, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(data, &gotBody)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(context.Background(), Options{
				APIKey:  "test-key",
				Model:   "gemini-test",
				BaseURL: server.URL + "/",
			})
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}

			got, err := client.Complete(context.Background(), llm.Request{
				System: "You write captions.",
				User:   "Create content for: spring",
				JSON:   true,
			})

			if tt.wantText != "" {
				if err != nil {
					t.Fatalf("Complete() error: %v", err)
				}
				if got != tt.wantText {
					t.Errorf("Complete() = %q, want %q", got, tt.wantText)
				}
				cfg, _ := gotBody["generationConfig"].(map[string]any)
				if cfg["responseMimeType"] != "application/json" {
					t.Errorf("generationConfig = %v, want JSON response mime type", cfg)
				}
				if _, ok := gotBody["systemInstruction"]; !ok {
					t.Error("system instruction not sent")
				}
				return
			}

			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
