// Package openai adapts any OpenAI-compatible chat endpoint to the text
// generation contract used by the creative pipeline.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"pro-banana-creatives/internal/llm"
)

const defaultModel = "gpt-4o-mini"

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	client *goopenai.Client
	model  string
	logger *slog.Logger
}

var _ llm.TextGenerator = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is empty")
	}

	config := goopenai.DefaultConfig(opts.APIKey)
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		client: goopenai.NewClientWithConfig(config),
		model:  model,
		logger: logger,
	}, nil
}

func (c *Client) GenerateText(ctx context.Context, req llm.TextRequest) (llm.TextResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return llm.TextResponse{}, errors.New("prompt is empty")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = c.model
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	chatReq := goopenai.ChatCompletionRequest{Model: model}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
	}
	if req.Schema != nil {
		instruction, err := schemaInstruction(req.Schema)
		if err != nil {
			return llm.TextResponse{}, err
		}
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: instruction,
		})
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})
	chatReq.Messages = messages

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return llm.TextResponse{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.TextResponse{}, errors.New("openai returned no choices")
	}

	c.logger.Debug("openai completion", "model", model, "finish_reason", resp.Choices[0].FinishReason)

	return llm.TextResponse{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: llm.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func schemaInstruction(schema *llm.Schema) (string, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal response schema: %w", err)
	}
	return "Respond with a single JSON object that matches this schema. No prose, no code fences.\n" + string(raw), nil
}
