package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	orig, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(orig) })
	_ = os.Chdir(tmp)
	return tmp
}

func TestLoadFromYAML(t *testing.T) {
	tmp := chdirTemp(t)

	yaml := `
server:
  addr: ":8081"
pipeline:
  interval: 30m
  max_attempts: 5
llm:
  provider: gemini
media:
  image:
    provider: imagen
`
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte(yaml), 0644)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Addr != ":8081" {
		t.Errorf("Server.Addr = %q, want :8081", cfg.Server.Addr)
	}
	if cfg.Pipeline.Interval != 30*time.Minute {
		t.Errorf("Pipeline.Interval = %v, want 30m", cfg.Pipeline.Interval)
	}
	if cfg.Pipeline.MaxAttempts != 5 {
		t.Errorf("Pipeline.MaxAttempts = %d, want 5", cfg.Pipeline.MaxAttempts)
	}
	if cfg.LLM.Model != defaultGeminiModel {
		t.Errorf("LLM.Model = %q, want %q", cfg.LLM.Model, defaultGeminiModel)
	}
	if cfg.Media.Image.Model != defaultImagenModel {
		t.Errorf("Media.Image.Model = %q, want %q", cfg.Media.Image.Model, defaultImagenModel)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmp := chdirTemp(t)
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("server: {}\n"), 0644)
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Pipeline.Interval != time.Hour {
		t.Errorf("Pipeline.Interval = %v, want 1h", cfg.Pipeline.Interval)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.LLM.Provider != "groq" || cfg.LLM.Model != defaultGroqModel {
		t.Errorf("LLM = %+v, want groq defaults", cfg.LLM)
	}
	if cfg.YouTube.CategoryID != "22" {
		t.Errorf("YouTube.CategoryID = %q, want 22", cfg.YouTube.CategoryID)
	}
	if got := cfg.Pipeline.MaxAttemptsOrUnlimited(); got != defaultMaxAttempts {
		t.Errorf("MaxAttemptsOrUnlimited() = %d, want %d", got, defaultMaxAttempts)
	}
	if cfg.Pipeline.BackoffBase >= cfg.Pipeline.Interval {
		t.Errorf("BackoffBase = %v, want less than the %v interval so a failed plan is retried on the next pass",
			cfg.Pipeline.BackoffBase, cfg.Pipeline.Interval)
	}
	if cfg.Media.Video.MaxWait <= 0 || cfg.Media.Video.MaxWait >= cfg.Pipeline.LeaseTTL {
		t.Errorf("Media.Video.MaxWait = %v, want between 0 and the %v lease", cfg.Media.Video.MaxWait, cfg.Pipeline.LeaseTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmp := chdirTemp(t)
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("llm:\n  provider: groq\n"), 0644)

	t.Setenv("GROQ_API_KEY", "test-groq")
	t.Setenv("DATABASE_URL", "postgres://localhost/contentpilot")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.GroqAPIKey != "test-groq" {
		t.Errorf("GroqAPIKey = %q, want test-groq", cfg.GroqAPIKey)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres when DATABASE_URL is set", cfg.Database.Driver)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load(context.Background())
	if err == nil {
		t.Error("Load() should fail when config.yaml missing")
	}
}

func TestLoadPipelineSwitches(t *testing.T) {
	tmp := chdirTemp(t)
	yaml := `
pipeline:
  unlimited_attempts: true
  disable_backoff: true
`
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte(yaml), 0644)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.Pipeline.MaxAttemptsOrUnlimited(); got != 0 {
		t.Errorf("MaxAttemptsOrUnlimited() = %d, want 0", got)
	}
	if cfg.Pipeline.BackoffBase != 0 {
		t.Errorf("BackoffBase = %v, want 0", cfg.Pipeline.BackoffBase)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "sqliteOK",
			cfg:     Config{Database: DatabaseConfig{Driver: "sqlite"}},
			wantErr: false,
		},
		{
			name:    "postgresWithoutURL",
			cfg:     Config{Database: DatabaseConfig{Driver: "postgres"}},
			wantErr: true,
		},
		{
			name:    "unknownDriver",
			cfg:     Config{Database: DatabaseConfig{Driver: "mysql"}},
			wantErr: true,
		},
		{
			name: "gcsWithoutBucket",
			cfg: Config{
				Database: DatabaseConfig{Driver: "sqlite"},
				Storage:  StorageConfig{Provider: "gcs"},
			},
			wantErr: true,
		},
		{
			name: "videoWaitOutlivesLease",
			cfg: Config{
				Database: DatabaseConfig{Driver: "sqlite"},
				Pipeline: PipelineConfig{LeaseTTL: 10 * time.Minute},
				Media:    MediaConfig{Video: VideoConfig{MaxWait: 15 * time.Minute}},
			},
			wantErr: true,
		},
		{
			name: "redisWithoutURL",
			cfg: Config{
				Database: DatabaseConfig{Driver: "sqlite"},
				Redis:    RedisConfig{Enabled: true},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
