package studio

import (
	"context"
	"fmt"
	"strings"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

// CreativeStrategy asks for structured ad copy. Upstream and validation
// errors are returned to the caller.
func (s *Studio) CreativeStrategy(ctx context.Context, req CreativeRequest) (Result[creative.CreativeStrategy], error) {
	ctx, span, _ := s.startSpan(ctx, "studio.CreativeStrategy", req)
	defer span.End()

	resp, err := s.text.GenerateText(ctx, llm.TextRequest{
		Model:       s.textModel,
		Prompt:      creative.ComposeCreativeStrategyPrompt(s.input(req)),
		Temperature: llm.Temperature(promptTemperature),
		Schema:      creative.CreativeStrategySchema(),
	})
	if err != nil {
		recordError(span, err)
		return Result[creative.CreativeStrategy]{}, fmt.Errorf("generate creative strategy: %w", err)
	}

	cs, err := llm.DecodeJSON[creative.CreativeStrategy](resp.Text)
	if err != nil {
		err = fmt.Errorf("%w: %v", creative.ErrMalformedOutput, err)
		recordError(span, err)
		return Result[creative.CreativeStrategy]{}, err
	}
	if err := creative.ValidateCreativeStrategy(cs); err != nil {
		recordError(span, err)
		return Result[creative.CreativeStrategy]{}, err
	}
	return resultOf(cs, resp.Usage), nil
}

// SalesLetter writes long-form copy in markdown.
func (s *Studio) SalesLetter(ctx context.Context, req CreativeRequest) (Result[string], error) {
	ctx, span, _ := s.startSpan(ctx, "studio.SalesLetter", req)
	defer span.End()

	resp, err := s.text.GenerateText(ctx, llm.TextRequest{
		Model:  s.textModel,
		Prompt: creative.ComposeSalesLetterPrompt(s.input(req)),
	})
	if err != nil {
		recordError(span, err)
		return Result[string]{}, fmt.Errorf("generate sales letter: %w", err)
	}
	letter := strings.TrimSpace(resp.Text)
	if letter == "" {
		err := fmt.Errorf("%w: empty sales letter", creative.ErrMalformedOutput)
		recordError(span, err)
		return Result[string]{}, err
	}
	return resultOf(letter, resp.Usage), nil
}
