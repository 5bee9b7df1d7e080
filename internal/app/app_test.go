package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro-banana-creatives/internal/config"
	"pro-banana-creatives/internal/gemini"
	"pro-banana-creatives/internal/openai"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.Config{LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = NewLogger(config.Config{LogLevel: "error", Debug: true}, &buf)
	logger.Debug("debug on")
	assert.Contains(t, buf.String(), "debug on")
}

func TestTextGeneratorSelection(t *testing.T) {
	gem, err := gemini.New(context.Background(), gemini.Options{APIKey: "test"})
	require.NoError(t, err)

	text, err := textGenerator(config.Config{TextProvider: config.ProviderGemini}, gem, nil, NewLogger(config.Config{}, &bytes.Buffer{}))
	require.NoError(t, err)
	assert.Same(t, gem, text)

	text, err = textGenerator(config.Config{TextProvider: config.ProviderOpenAI, OpenAIAPIKey: "sk"}, gem, nil, NewLogger(config.Config{}, &bytes.Buffer{}))
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, text)
}

func TestNewLoadsCampaign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaign.yaml")
	require.NoError(t, os.WriteFile(path, []byte("product:\n  name: Kopi Susu\n"), 0o600))

	rt, err := New(context.Background(), config.Config{
		GeminiAPIKey: "test",
		TextProvider: config.ProviderGemini,
		CampaignFile: path,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kopi Susu", rt.Campaign.Product.Name)
	assert.NotNil(t, rt.Studio)
	assert.NoError(t, rt.Close(context.Background()))

	_, err = New(context.Background(), config.Config{GeminiAPIKey: "test", CampaignFile: path + ".missing"}, nil)
	assert.Error(t, err)
}
