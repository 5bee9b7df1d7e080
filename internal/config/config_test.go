package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro-banana-creatives/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_API_VERSION", "TEXT_PROVIDER", "TEXT_MODEL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "IMAGE_TIER", "TARGET_COUNTRY",
		"CAMPAIGN_FILE", "TELEGRAM_BOT_TOKEN", "WEB_ADDR", "LOG_LEVEL", "DEBUG", "PREFER_IPV4",
		"MAX_CONCURRENT", "MAX_HISTORY_MESSAGES", "REQUEST_TIMEOUT_SECONDS", "HTTP_TIMEOUT_SECONDS",
		"OTEL_ENABLED", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", " key ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, ProviderGemini, cfg.TextProvider)
	assert.Equal(t, "v1beta", cfg.GeminiAPIVersion)
	assert.Equal(t, llm.TierFlash, cfg.ImageTier)
	assert.Equal(t, ":8080", cfg.WebAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.PreferIPv4)
	assert.Equal(t, 180*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 20, cfg.MaxHistoryMessages)
	assert.False(t, cfg.OTelEnabled)
	assert.Error(t, cfg.RequireTelegram())
}

func TestLoadOverridesAndClamps(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("IMAGE_TIER", "PRO")
	t.Setenv("MAX_CONCURRENT", "0")
	t.Setenv("MAX_HISTORY_MESSAGES", "oops")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-5")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, llm.TierPro, cfg.ImageTier)
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, 20, cfg.MaxHistoryMessages)
	assert.Equal(t, 180*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.OTelEnabled)
	assert.NoError(t, cfg.RequireTelegram())
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TEXT_PROVIDER", "openai")
	_, err = Load()
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.TextProvider)

	t.Setenv("TEXT_PROVIDER", "llama")
	_, err = Load()
	assert.ErrorContains(t, err, "TEXT_PROVIDER")
}
