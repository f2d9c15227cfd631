package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"contentpilot/internal/credentials"
	"contentpilot/internal/media"
	"contentpilot/internal/notify"
	"contentpilot/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{
			Addr:          ":0",
			PublicBaseURL: "http://localhost:5000",
			MaxUploadMB:   5,
		},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(dir, "app.db")},
		Pipeline: config.PipelineConfig{
			Interval:    time.Hour,
			LeaseTTL:    time.Minute,
			MaxAttempts: 3,
		},
		LLM: config.LLMConfig{Provider: "groq", Model: "llama-3.3-70b-versatile", MaxTokens: 512},
		Media: config.MediaConfig{
			Image: config.ImageConfig{Provider: "openai", Model: "dall-e-3", Size: "1024x1024"},
			Video: config.VideoConfig{Provider: "static", StaticURL: "https://cdn.test/v.mp4"},
		},
		Storage:   config.StorageConfig{Provider: "local", LocalDir: filepath.Join(dir, "media")},
		Logging:   config.LoggingConfig{Level: "info"},
		Telemetry: config.TelemetryConfig{ServiceName: "contentpilot-test"},
	}
}

func TestBuildServesHealth(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := Build(ctx, cfg)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer func() { _ = a.Close(ctx) }()

	if err := a.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if a.Pipeline() == nil || a.Scheduler() == nil {
		t.Fatal("pipeline and scheduler should be built")
	}
	if a.Telegram() != nil {
		t.Error("Telegram() should be nil without a bot token")
	}
	if _, ok := a.Notifier().(notify.Nop); !ok {
		t.Errorf("Notifier() = %T, want notify.Nop", a.Notifier())
	}

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}

	plans, err := a.Store().ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans() error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("ListPlans() = %d plans, want 0", len(plans))
	}
}

func TestBuildRejectsUnknownProviders(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"image", func(c *config.Config) { c.Media.Image.Provider = "midjourney" }},
		{"video", func(c *config.Config) { c.Media.Video.Provider = "sora" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			if _, err := Build(context.Background(), cfg); err == nil {
				t.Error("Build() should fail for an unknown provider")
			}
		})
	}
}

func TestBuildMediaProviders(t *testing.T) {
	cfg := testConfig(t)
	creds := credentials.Static{}

	cfg.Media.Image.Provider = "imagen"
	cfg.Media.Video.Provider = "veo"
	images, videos, err := buildMedia(cfg, creds, nil)
	if err != nil {
		t.Fatalf("buildMedia() error: %v", err)
	}
	if _, ok := images.(*media.Imagen); !ok {
		t.Errorf("images = %T, want *media.Imagen", images)
	}
	if _, ok := videos.(*media.Veo); !ok {
		t.Errorf("videos = %T, want *media.Veo", videos)
	}

	cfg.Media.Video.Provider = "static"
	_, videos, err = buildMedia(cfg, creds, nil)
	if err != nil {
		t.Fatalf("buildMedia() error: %v", err)
	}
	if sv, ok := videos.(media.StaticVideo); !ok || sv.URL != "https://cdn.test/v.mp4" {
		t.Errorf("videos = %#v, want static video", videos)
	}
}

func TestBuildNotifier(t *testing.T) {
	cfg := testConfig(t)

	cfg.TelegramBotToken = "token"
	n, tg := buildNotifier(cfg)
	if tg == nil {
		t.Error("telegram client should exist when a token is set")
	}
	if _, ok := n.(notify.Nop); !ok {
		t.Errorf("notifier = %T, want Nop without a chat id", n)
	}

	cfg.Notify.TelegramChatID = 42
	cfg.Notify.Email = config.SMTPConfig{Host: "smtp.test", Port: 587, From: "bot@test", To: []string{"ops@test"}}
	n, _ = buildNotifier(cfg)
	multi, ok := n.(notify.Multi)
	if !ok {
		t.Fatalf("notifier = %T, want notify.Multi", n)
	}
	if len(multi) != 2 {
		t.Errorf("len(multi) = %d, want 2", len(multi))
	}
}

func TestCloseAllReverseOrder(t *testing.T) {
	var order []int
	errBoom := errors.New("boom")
	closers := []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errBoom },
		func() error { order = append(order, 3); return nil },
	}

	err := closeAll(closers)
	if !errors.Is(err, errBoom) {
		t.Errorf("closeAll() error = %v, want boom", err)
	}
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("close order = %v, want [3 2 1]", order)
	}
}
