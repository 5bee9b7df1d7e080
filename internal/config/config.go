package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pro-banana-creatives/internal/llm"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiAPIVersion string

	TextProvider  string
	TextModel     string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	ImageTier     llm.ImageTier
	TargetCountry string
	CampaignFile  string

	TelegramToken string
	WebAddr       string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	MaxConcurrent      int
	MaxHistoryMessages int
	RequestTimeout     time.Duration
	HTTPTimeout        time.Duration

	OTelEnabled     bool
	OTelServiceName string
}

func Load() (Config, error) {
	cfg := Config{
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:      strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		GeminiAPIVersion:   getEnv("GEMINI_API_VERSION", "v1beta"),
		TextProvider:       strings.ToLower(getEnv("TEXT_PROVIDER", ProviderGemini)),
		TextModel:          getEnv("TEXT_MODEL", ""),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", ""),
		ImageTier:          llm.ParseTier(getEnv("IMAGE_TIER", string(llm.TierFlash))),
		TargetCountry:      getEnv("TARGET_COUNTRY", ""),
		CampaignFile:       getEnv("CAMPAIGN_FILE", ""),
		TelegramToken:      strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		WebAddr:            getEnv("WEB_ADDR", ":8080"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Debug:              getEnvBool("DEBUG", false),
		PreferIPv4:         getEnvBool("PREFER_IPV4", true),
		MaxConcurrent:      getEnvInt("MAX_CONCURRENT", 4),
		MaxHistoryMessages: getEnvInt("MAX_HISTORY_MESSAGES", 20),
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 180)) * time.Second,
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		OTelEnabled:        getEnvBool("OTEL_ENABLED", false),
		OTelServiceName:    getEnv("OTEL_SERVICE_NAME", "pro-banana-creatives"),
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}
	switch cfg.TextProvider {
	case ProviderGemini:
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return Config{}, errors.New("OPENAI_API_KEY is required when TEXT_PROVIDER=openai")
		}
	default:
		return Config{}, fmt.Errorf("unknown TEXT_PROVIDER %q", cfg.TextProvider)
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxHistoryMessages < 1 {
		cfg.MaxHistoryMessages = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}

	return cfg, nil
}

// RequireTelegram is checked only by the bot binary.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
