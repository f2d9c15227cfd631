package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath      = "config.yaml"
	defaultAddr            = ":5000"
	defaultPublicBaseURL   = "http://localhost:5000"
	defaultDatabaseDriver  = "sqlite"
	defaultSQLitePath      = "./contentpilot.db"
	defaultInterval        = time.Hour
	defaultLeaseTTL        = 30 * time.Minute
	defaultMaxAttempts     = 24
	defaultBackoffBase     = 30 * time.Minute
	defaultBackoffMax      = 24 * time.Hour
	defaultLLMProvider     = "groq"
	defaultGroqModel       = "llama-3.3-70b-versatile"
	defaultGeminiModel     = "gemini-2.5-flash"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
	defaultMaxTokens       = 2048
	defaultImageProvider   = "openai"
	defaultImageModel      = "dall-e-3"
	defaultImageSize       = "1024x1024"
	defaultImagenModel     = "imagen-4.0-generate-001"
	defaultVideoProvider   = "static"
	defaultVeoModel        = "veo-3.0-fast-generate-001"
	defaultStaticVideoURL  = "https://example.com/generated-video.mp4"
	defaultVideoPoll       = 10 * time.Second
	defaultVideoMaxWait    = 20 * time.Minute
	defaultStorageProvider = "local"
	defaultLocalMediaDir   = "./media"
	defaultGraphAPIBaseURL = "https://graph.facebook.com/v21.0"
	defaultIGRatePerMinute = 10
	defaultPrivacyStatus   = "public"
	defaultCategoryID      = "22"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultServiceName     = "contentpilot"
	defaultGeminiLocation  = "us-central1"
)

// Secrets are read from the environment (and .env) only, never from config.yaml.
type Secrets struct {
	DatabaseURL      string `env:"DATABASE_URL"`
	RedisURL         string `env:"REDIS_URL"`
	GroqAPIKey       string `env:"GROQ_API_KEY"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	GCPProject       string `env:"GOOGLE_CLOUD_PROJECT"`
	GCSBucket        string `env:"GCS_BUCKET"`
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	SMTPPassword     string `env:"SMTP_PASSWORD"`
	SentryDSN        string `env:"SENTRY_DSN"`
}

type Config struct {
	Secrets `yaml:"-"`

	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	Redis       RedisConfig     `yaml:"redis"`
	Pipeline    PipelineConfig  `yaml:"pipeline"`
	LLM         LLMConfig       `yaml:"llm"`
	Media       MediaConfig     `yaml:"media"`
	Storage     StorageConfig   `yaml:"storage"`
	Instagram   InstagramConfig `yaml:"instagram"`
	YouTube     YouTubeConfig   `yaml:"youtube"`
	SecretStore SecretsConfig   `yaml:"secrets"`
	Notify      NotifyConfig    `yaml:"notify"`
	Logging     LoggingConfig   `yaml:"logging"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	PublicBaseURL string `yaml:"public_base_url"`
	Swagger       bool   `yaml:"swagger"`
	MaxUploadMB   int64  `yaml:"max_upload_mb"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "sqlite"
	Path   string `yaml:"path"`
	Debug  bool   `yaml:"debug"`
}

type RedisConfig struct {
	Enabled bool `yaml:"enabled"`
}

type PipelineConfig struct {
	Interval          time.Duration `yaml:"interval"`
	RunOnStart        bool          `yaml:"run_on_start"`
	LeaseTTL          time.Duration `yaml:"lease_ttl"`
	MaxAttempts       int           `yaml:"max_attempts"`
	BackoffBase       time.Duration `yaml:"backoff_base"`
	BackoffMax        time.Duration `yaml:"backoff_max"`
	ReuseGenerated    bool          `yaml:"reuse_generated_content"`
	DisableBackoff    bool          `yaml:"disable_backoff"`
	UnlimitedAttempts bool          `yaml:"unlimited_attempts"`
}

type LLMConfig struct {
	Provider  string `yaml:"provider"` // "groq", "gemini" or "openai"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	Location  string `yaml:"location"`
}

type MediaConfig struct {
	Image ImageConfig `yaml:"image"`
	Video VideoConfig `yaml:"video"`
}

type ImageConfig struct {
	Provider string `yaml:"provider"` // "openai" or "imagen"
	Model    string `yaml:"model"`
	Size     string `yaml:"size"`
	BaseURL  string `yaml:"base_url"`
}

type VideoConfig struct {
	Provider     string        `yaml:"provider"` // "veo" or "static"
	Model        string        `yaml:"model"`
	StaticURL    string        `yaml:"static_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	// MaxWait bounds one generation so a stuck operation cannot outlive the plan lease.
	MaxWait      time.Duration `yaml:"max_wait"`
}

type StorageConfig struct {
	Provider string `yaml:"provider"` // "local" or "gcs"
	LocalDir string `yaml:"local_dir"`
	Prefix   string `yaml:"prefix"`
}

type InstagramConfig struct {
	GraphAPIBaseURL string `yaml:"graph_api_base_url"`
	RatePerMinute   int    `yaml:"rate_per_minute"`
}

type YouTubeConfig struct {
	PrivacyStatus string `yaml:"privacy_status"`
	CategoryID    string `yaml:"category_id"`
}

type SecretsConfig struct {
	SecretManager bool `yaml:"secret_manager"`
}

type NotifyConfig struct {
	TelegramChatID int64      `yaml:"telegram_chat_id"`
	Email          SMTPConfig `yaml:"email"`
}

type SMTPConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file"`
}

type TelemetryConfig struct {
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	ServiceName  string  `yaml:"service_name"`
	SampleRatio  float64 `yaml:"sample_ratio"`
	Environment  string  `yaml:"environment"`
}

func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, defaultConfigPath)
}

func LoadFrom(_ context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(&cfg.Secrets); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Storage.Provider == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required for gcs storage")
	}
	if c.Redis.Enabled && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when redis is enabled")
	}
	if lease := c.Pipeline.LeaseTTL; lease > 0 && c.Media.Video.MaxWait >= lease {
		return fmt.Errorf("media.video.max_wait (%s) must be shorter than pipeline.lease_ttl (%s)", c.Media.Video.MaxWait, lease)
	}
	return nil
}

// MaxAttemptsOrUnlimited returns 0 when plans should be retried forever.
func (p PipelineConfig) MaxAttemptsOrUnlimited() int {
	if p.UnlimitedAttempts {
		return 0
	}
	return p.MaxAttempts
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(cfg)
	applyDatabaseDefaults(cfg)
	applyPipelineDefaults(cfg)
	applyLLMDefaults(cfg)
	applyMediaDefaults(cfg)
	applyStorageDefaults(cfg)
	applyPublishingDefaults(cfg)
	applyLoggingDefaults(cfg)
	applyTelemetryDefaults(cfg)
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = defaultPublicBaseURL
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 20
	}
}

func applyDatabaseDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = defaultDatabaseDriver
		if cfg.DatabaseURL != "" {
			cfg.Database.Driver = "postgres"
		}
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultSQLitePath
	}
}

func applyPipelineDefaults(cfg *Config) {
	if cfg.Pipeline.Interval == 0 {
		cfg.Pipeline.Interval = defaultInterval
	}
	if cfg.Pipeline.LeaseTTL == 0 {
		cfg.Pipeline.LeaseTTL = defaultLeaseTTL
	}
	if cfg.Pipeline.MaxAttempts == 0 {
		cfg.Pipeline.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Pipeline.BackoffBase == 0 {
		cfg.Pipeline.BackoffBase = defaultBackoffBase
	}
	if cfg.Pipeline.BackoffMax == 0 {
		cfg.Pipeline.BackoffMax = defaultBackoffMax
	}
	if cfg.Pipeline.DisableBackoff {
		cfg.Pipeline.BackoffBase = 0
		cfg.Pipeline.BackoffMax = 0
	}
}

func applyLLMDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultLLMProvider
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.Model = defaultGeminiModel
		case "openai":
			cfg.LLM.Model = defaultOpenAIModel
		default:
			cfg.LLM.Model = defaultGroqModel
		}
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = defaultMaxTokens
	}
	if cfg.LLM.Location == "" {
		cfg.LLM.Location = defaultGeminiLocation
	}
}

func applyMediaDefaults(cfg *Config) {
	image := &cfg.Media.Image
	if image.Provider == "" {
		image.Provider = defaultImageProvider
	}
	if image.Model == "" {
		image.Model = defaultImageModel
		if image.Provider == "imagen" {
			image.Model = defaultImagenModel
		}
	}
	if image.Size == "" {
		image.Size = defaultImageSize
	}
	if image.BaseURL == "" {
		image.BaseURL = defaultOpenAIBaseURL
	}

	video := &cfg.Media.Video
	if video.Provider == "" {
		video.Provider = defaultVideoProvider
	}
	if video.Model == "" {
		video.Model = defaultVeoModel
	}
	if video.StaticURL == "" {
		video.StaticURL = defaultStaticVideoURL
	}
	if video.PollInterval == 0 {
		video.PollInterval = defaultVideoPoll
	}
	if video.MaxWait == 0 {
		video.MaxWait = defaultVideoMaxWait
	}
}

func applyStorageDefaults(cfg *Config) {
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = defaultStorageProvider
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = defaultLocalMediaDir
	}
}

func applyPublishingDefaults(cfg *Config) {
	if cfg.Instagram.GraphAPIBaseURL == "" {
		cfg.Instagram.GraphAPIBaseURL = defaultGraphAPIBaseURL
	}
	if cfg.Instagram.RatePerMinute == 0 {
		cfg.Instagram.RatePerMinute = defaultIGRatePerMinute
	}
	if cfg.YouTube.PrivacyStatus == "" {
		cfg.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
	if cfg.YouTube.CategoryID == "" {
		cfg.YouTube.CategoryID = defaultCategoryID
	}
}

func applyLoggingDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
	if cfg.Notify.Email.Port == 0 {
		cfg.Notify.Email.Port = 587
	}
}

func applyTelemetryDefaults(cfg *Config) {
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = defaultServiceName
	}
	if cfg.Telemetry.SampleRatio == 0 {
		cfg.Telemetry.SampleRatio = 1
	}
}
