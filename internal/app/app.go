// Package app turns a loaded Config into the shared runtime used by the
// adgen, web and bot binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"pro-banana-creatives/internal/campaign"
	"pro-banana-creatives/internal/config"
	"pro-banana-creatives/internal/gemini"
	"pro-banana-creatives/internal/httpclient"
	"pro-banana-creatives/internal/llm"
	"pro-banana-creatives/internal/observability"
	"pro-banana-creatives/internal/openai"
	"pro-banana-creatives/internal/studio"
)

type Runtime struct {
	Config     config.Config
	Logger     *slog.Logger
	HTTPClient *http.Client
	Campaign   campaign.Campaign
	Studio     *studio.Studio

	shutdown observability.Shutdown
}

func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	camp, err := loadCampaign(cfg)
	if err != nil {
		return nil, err
	}

	shutdown, err := observability.InitTracing(ctx, logger, observability.Config{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.OTelServiceName,
	})
	if err != nil {
		return nil, err
	}

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gem, err := gemini.New(ctx, gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		TextModel:  cfg.TextModel,
		HTTPClient: httpClient,
		Logger:     logger.With("component", "gemini"),
	})
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	text, err := textGenerator(cfg, gem, httpClient, logger)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	st, err := studio.New(studio.Options{
		Text:      text,
		Image:     gem,
		TextModel: cfg.TextModel,
		Tier:      cfg.ImageTier,
		Country:   cfg.TargetCountry,
		Logger:    logger.With("component", "studio"),
	})
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	logger.Info("runtime ready",
		"text_provider", cfg.TextProvider,
		"image_tier", cfg.ImageTier,
		"product", camp.Product.Name,
	)

	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		HTTPClient: httpClient,
		Campaign:   camp,
		Studio:     st,
		shutdown:   shutdown,
	}, nil
}

// Close flushes tracing.
func (r *Runtime) Close(ctx context.Context) error {
	if r == nil || r.shutdown == nil {
		return nil
	}
	return r.shutdown(ctx)
}

func textGenerator(cfg config.Config, gem *gemini.Client, httpClient *http.Client, logger *slog.Logger) (llm.TextGenerator, error) {
	if cfg.TextProvider != config.ProviderOpenAI {
		return gem, nil
	}
	client, err := openai.New(openai.Options{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      cfg.OpenAIModel,
		HTTPClient: httpClient,
		Logger:     logger.With("component", "openai"),
	})
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return client, nil
}

func loadCampaign(cfg config.Config) (campaign.Campaign, error) {
	if cfg.CampaignFile == "" {
		return campaign.Named(""), nil
	}
	return campaign.LoadFile(cfg.CampaignFile)
}
