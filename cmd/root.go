package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"contentpilot/internal/app"
	"contentpilot/pkg/config"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "contentpilot",
	Short: "Plan, generate and publish social content",
	Long: `Contentpilot keeps a calendar of content plans, generates captions and media
with LLM and image/video providers, and publishes due plans to Instagram and
YouTube Shorts.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config.yaml")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger(config.LoggingConfig{})
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadFrom(ctx, configPath)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Logging)
	return cfg, nil
}

// buildApp loads configuration and wires the application. The caller closes it.
func buildApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg)
}

func setupLogger(cfg config.LoggingConfig) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = slog.LevelInfo
		}
	}
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	if cfg.File != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
