package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"pro-banana-creatives/internal/llm"
)

const (
	modelText     = "gemini-3-flash-preview"
	modelImage    = "gemini-2.5-flash-image"
	modelImagePro = "gemini-3-pro-image-preview"

	proImageSize = "2K"
)

const referenceInstruction = "Using the provided image as the main subject, generate the requested scene. " +
	"Ensure the key features, colors, and logos of the product in the provided image remain completely unchanged and look naturally lit."

type Options struct {
	APIKey      string
	BaseURL     string
	APIVersion  string
	TextModel   string
	HTTPClient  *http.Client
	Logger      *slog.Logger
	MaxAttempts int
	Backoff     time.Duration
}

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models      generator
	textModel   string
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
}

var (
	_ llm.TextGenerator  = (*Client)(nil)
	_ llm.ImageGenerator = (*Client)(nil)
)

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		cfg.HTTPOptions.BaseURL = strings.TrimRight(baseURL, "/") + "/"
	}
	if apiVersion := strings.TrimSpace(opts.APIVersion); apiVersion != "" {
		cfg.HTTPOptions.APIVersion = apiVersion
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newWithGenerator(client.Models, opts), nil
}

func newWithGenerator(models generator, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = modelText
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	return &Client{
		models:      models,
		textModel:   textModel,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

func (c *Client) GenerateText(ctx context.Context, req llm.TextRequest) (llm.TextResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return llm.TextResponse{}, errors.New("prompt is empty")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.textModel
	}

	config := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toGenaiSchema(req.Schema)
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.generateWithRetry(ctx, model, contents, config)
	if err != nil {
		return llm.TextResponse{}, err
	}

	return llm.TextResponse{
		Text:  strings.TrimSpace(resp.Text()),
		Usage: usageOf(resp),
	}, nil
}

func (c *Client) GenerateImage(ctx context.Context, req llm.ImageRequest) (llm.ImageResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return llm.ImageResponse{}, errors.New("prompt is empty")
	}

	model := modelImage
	imageConfig := &genai.ImageConfig{AspectRatio: llm.NormalizeAspectRatio(req.AspectRatio)}
	if req.Tier == llm.TierPro {
		model = modelImagePro
		imageConfig.ImageSize = proImageSize
	}

	var parts []*genai.Part
	if ref := req.Reference; ref != nil && len(ref.Data) > 0 {
		mimeType := ref.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append(parts, genai.NewPartFromBytes(ref.Data, mimeType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		parts = append(parts, genai.NewPartFromText(referenceInstruction))
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig:        imageConfig,
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.generateWithRetry(ctx, model, contents, config)
	if err != nil && isUnknownFieldError(err, "imageSize") {
		c.logger.Warn("image size not supported, retrying without it", "model", model)
		config.ImageConfig.ImageSize = ""
		resp, err = c.generateWithRetry(ctx, model, contents, config)
	}
	if err != nil {
		return llm.ImageResponse{}, err
	}

	text, images := extractParts(resp)
	return llm.ImageResponse{
		Images: images,
		Text:   text,
		Usage:  usageOf(resp),
	}, nil
}

func (c *Client) generateWithRetry(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.models.GenerateContent(ctx, model, contents, config)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == c.maxAttempts {
			break
		}

		wait := c.backoff * time.Duration(1<<(attempt-1))
		c.logger.Warn("gemini request failed, retrying", "model", model, "attempt", attempt, "wait", wait, "err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("gemini %s: %w", model, lastErr)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	default:
		// transport level failure
		return true
	}
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}

func extractParts(resp *genai.GenerateContentResponse) (string, []llm.InlineImage) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var textBuilder strings.Builder
	var images []llm.InlineImage
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		if p.Text != "" {
			textBuilder.WriteString(p.Text)
		}
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			mimeType := p.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			images = append(images, llm.InlineImage{Data: p.InlineData.Data, MIMEType: mimeType})
		}
	}
	return strings.TrimSpace(textBuilder.String()), images
}

func usageOf(resp *genai.GenerateContentResponse) llm.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return llm.Usage{}
	}
	return llm.Usage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
	}
}

func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genai.Type(s.Type),
		Description: s.Description,
		Required:    append([]string(nil), s.Required...),
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
