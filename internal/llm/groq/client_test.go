package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contentpilot/internal/llm"
)

func completionBody(content string, withChoice bool) string {
	resp := map[string]any{
		"id":      "test-id",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "llama-3.3-70b-versatile",
		"choices": []any{},
	}
	if withChoice {
		resp["choices"] = []any{map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}}
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name           string
		responseBody   string
		statusCode     int
		wantErr        error
		wantErrContain string
		wantContent    string
	}{
		{
			name:         "successfulGeneration",
			responseBody: completionBody(`{"caption":"hello","tags":["a"],"title":"T"}`, true),
			statusCode:   http.StatusOK,
			wantContent:  `{"caption":"hello","tags":["a"],"title":"T"}`,
		},
		{
			name:         "emptyResponse",
			responseBody: completionBody("", true),
			statusCode:   http.StatusOK,
			wantErr:      llm.ErrEmptyResponse,
		},
		{
			name:         "noChoices",
			responseBody: completionBody("", false),
			statusCode:   http.StatusOK,
			wantErr:      llm.ErrNoResponse,
		},
		{
			name: "httpErrorUnauthorized",
			// groq-go does not retry 401
			responseBody:   `{"error": {"message": "invalid api key", "type": "authentication_error"}}`,
			statusCode:     http.StatusUnauthorized,
			wantErrContain: "generate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&req)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client, err := NewClient("test-api-key", Options{
				Model:   "llama-3.3-70b-versatile",
				BaseURL: server.URL + "/",
			})
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}

			got, err := client.Complete(context.Background(), llm.Request{System: "sys", User: "user", JSON: true})

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Complete() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantErrContain != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrContain) {
					t.Errorf("Complete() error = %v, want error containing %q", err, tt.wantErrContain)
				}
			default:
				if err != nil {
					t.Fatalf("Complete() unexpected error: %v", err)
				}
				if got != tt.wantContent {
					t.Errorf("Complete() = %q, want %q", got, tt.wantContent)
				}
				format, _ := req["response_format"].(map[string]any)
				if format["type"] != "json_object" {
					t.Errorf("response_format = %v, want json_object", req["response_format"])
				}
			}
		})
	}
}
