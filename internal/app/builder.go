package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"contentpilot/internal/content"
	"contentpilot/internal/credentials"
	"contentpilot/internal/distribution/instagram"
	"contentpilot/internal/distribution/youtube"
	"contentpilot/internal/llm"
	"contentpilot/internal/llm/gemini"
	"contentpilot/internal/llm/groq"
	"contentpilot/internal/llm/openai"
	"contentpilot/internal/locker"
	"contentpilot/internal/media"
	"contentpilot/internal/notify"
	"contentpilot/internal/pipeline"
	"contentpilot/internal/scheduler"
	"contentpilot/internal/storage"
	"contentpilot/internal/store"
	"contentpilot/internal/telemetry"
	"contentpilot/pkg/config"
	"contentpilot/pkg/prompts"
)

const mediaDownloadTimeout = 5 * time.Minute

// Build wires every component from cfg. The caller owns the returned App and
// must Close it.
func Build(ctx context.Context, cfg *config.Config) (a *App, err error) {
	a = &App{cfg: cfg}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:  cfg.Telemetry.ServiceName,
		Environment:  cfg.Telemetry.Environment,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		SampleRatio:  cfg.Telemetry.SampleRatio,
		SentryDSN:    cfg.SentryDSN,
	})
	if err != nil {
		return nil, err
	}
	a.shutdownTelemetry = shutdown

	db, err := store.Open(cfg.Database, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.store = db
	a.closers = append(a.closers, db.Close)

	creds, err := buildCredentials(ctx, cfg, db, a)
	if err != nil {
		return nil, err
	}
	a.creds = creds

	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}
	a.generator = content.NewGenerator(buildLLM(cfg, creds), p, db)

	uploader, err := buildStorage(ctx, cfg, a)
	if err != nil {
		return nil, err
	}

	images, videos, err := buildMedia(cfg, creds, uploader)
	if err != nil {
		return nil, err
	}

	lock, err := buildLocker(ctx, cfg, a)
	if err != nil {
		return nil, err
	}

	a.notifier, a.telegram = buildNotifier(cfg)

	httpClient := &http.Client{Timeout: mediaDownloadTimeout}
	a.pipeline = pipeline.New(pipeline.Dependencies{
		Store:     db,
		Generator: a.generator,
		Images:    images,
		Videos:    videos,
		Instagram: instagram.NewClient(creds, instagram.Options{
			BaseURL:       cfg.Instagram.GraphAPIBaseURL,
			RatePerMinute: cfg.Instagram.RatePerMinute,
		}),
		YouTube: youtube.NewClient(creds, db, youtube.Options{
			PrivacyStatus: cfg.YouTube.PrivacyStatus,
			CategoryID:    cfg.YouTube.CategoryID,
			HTTPClient:    httpClient,
		}),
		Locker:   lock,
		Notifier: a.notifier,
	}, pipeline.Options{
		LeaseTTL:       cfg.Pipeline.LeaseTTL,
		MaxAttempts:    cfg.Pipeline.MaxAttemptsOrUnlimited(),
		BackoffBase:    cfg.Pipeline.BackoffBase,
		BackoffMax:     cfg.Pipeline.BackoffMax,
		ReuseGenerated: cfg.Pipeline.ReuseGenerated,
	})

	a.scheduler = scheduler.New(a.pipeline, scheduler.Options{
		Interval:   cfg.Pipeline.Interval,
		RunOnStart: cfg.Pipeline.RunOnStart,
		Notifier:   a.notifier,
	})

	return a, nil
}

// buildCredentials orders lookups as api_keys table, Secret Manager, environment.
func buildCredentials(ctx context.Context, cfg *config.Config, db *store.Store, a *App) (credentials.Resolver, error) {
	chain := credentials.Chain{credentials.NewStoreResolver(db)}

	if cfg.SecretStore.SecretManager {
		sm, err := credentials.NewSecretManagerResolver(ctx, cfg.GCPProject)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sm.Close)
		chain = append(chain, sm)
	}

	return append(chain, credentials.DefaultEnvResolver()), nil
}

func buildLLM(cfg *config.Config, creds credentials.Resolver) llm.Client {
	switch cfg.LLM.Provider {
	case "gemini":
		return llm.NewResolving(credentials.ProviderGemini, creds, func(ctx context.Context, key string) (llm.Client, error) {
			return gemini.NewClient(ctx, gemini.Options{
				APIKey:    key,
				Project:   cfg.GCPProject,
				Location:  cfg.LLM.Location,
				Model:     cfg.LLM.Model,
				MaxTokens: cfg.LLM.MaxTokens,
			})
		})
	case "openai":
		return llm.NewResolving(credentials.ProviderOpenAI, creds, func(_ context.Context, key string) (llm.Client, error) {
			return openai.NewClient(key, openai.Options{
				Model:     cfg.LLM.Model,
				MaxTokens: cfg.LLM.MaxTokens,
				BaseURL:   cfg.LLM.BaseURL,
			}), nil
		})
	default:
		return llm.NewResolving(credentials.ProviderGroq, creds, func(_ context.Context, key string) (llm.Client, error) {
			return groq.NewClient(key, groq.Options{
				Model:     cfg.LLM.Model,
				MaxTokens: cfg.LLM.MaxTokens,
			})
		})
	}
}

func buildStorage(ctx context.Context, cfg *config.Config, a *App) (storage.Uploader, error) {
	if cfg.Storage.Provider == "gcs" {
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.Storage.Prefix)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, gcs.Close)
		return gcs, nil
	}

	local := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Server.PublicBaseURL)
	if err := local.EnsureDirectories(); err != nil {
		return nil, err
	}
	a.mediaDir = local.Dir()
	return local, nil
}

func buildMedia(cfg *config.Config, creds credentials.Resolver, uploader storage.Uploader) (media.ImageGenerator, media.VideoGenerator, error) {
	factory := media.NewGenAIFactory(creds, media.GenAIOptions{
		Project:  cfg.GCPProject,
		Location: cfg.LLM.Location,
	})

	var images media.ImageGenerator
	switch cfg.Media.Image.Provider {
	case "openai":
		images = media.NewOpenAIImages(creds, media.OpenAIOptions{
			BaseURL:  cfg.Media.Image.BaseURL,
			Model:    cfg.Media.Image.Model,
			Size:     cfg.Media.Image.Size,
			Uploader: uploader,
		})
	case "imagen":
		images = media.NewImagen(factory, cfg.Media.Image.Model, uploader)
	default:
		return nil, nil, fmt.Errorf("unknown image provider %q", cfg.Media.Image.Provider)
	}

	var videos media.VideoGenerator
	switch cfg.Media.Video.Provider {
	case "veo":
		videos = media.NewVeo(factory, cfg.Media.Video.Model, uploader, cfg.Media.Video.PollInterval, cfg.Media.Video.MaxWait)
	case "static":
		videos = media.StaticVideo{URL: cfg.Media.Video.StaticURL}
	default:
		return nil, nil, fmt.Errorf("unknown video provider %q", cfg.Media.Video.Provider)
	}

	return images, videos, nil
}

func buildLocker(ctx context.Context, cfg *config.Config, a *App) (locker.Locker, error) {
	if !cfg.Redis.Enabled {
		return locker.NewMemoryLocker(), nil
	}
	rl, err := locker.NewRedisLockerFromURL(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, rl.Close)
	return rl, nil
}

func buildNotifier(cfg *config.Config) (notify.Notifier, *notify.Telegram) {
	var (
		multi notify.Multi
		tg    *notify.Telegram
	)
	if cfg.TelegramBotToken != "" {
		tg = notify.NewTelegram(cfg.TelegramBotToken, cfg.Notify.TelegramChatID)
		if cfg.Notify.TelegramChatID != 0 {
			multi = append(multi, tg)
		}
	}
	if email := cfg.Notify.Email; email.Host != "" && len(email.To) > 0 {
		multi = append(multi, notify.NewEmail(notify.SMTPOptions{
			Host:     email.Host,
			Port:     email.Port,
			Username: email.Username,
			Password: cfg.SMTPPassword,
			From:     email.From,
			To:       email.To,
		}))
	}

	if len(multi) == 0 {
		slog.Debug("No notifier configured, dead letters are only logged")
		return notify.Nop{}, tg
	}
	return multi, tg
}

// closeAll runs closers in reverse order and joins their errors.
func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
