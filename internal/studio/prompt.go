package studio

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

type PromptOutput struct {
	RunID      string `json:"runId"`
	MetaPrompt string `json:"metaPrompt"`
	Prompt     string `json:"prompt"`
	// Enhanced is false when the fallback template was used.
	Enhanced bool `json:"enhanced"`
}

// ImagePrompt asks the text model to write the final image prompt. Upstream
// failures fall back to the deterministic template; only cancellation is
// returned as an error.
func (s *Studio) ImagePrompt(ctx context.Context, req CreativeRequest) (Result[PromptOutput], error) {
	ctx, span, runID := s.startSpan(ctx, "studio.ImagePrompt", req)
	defer span.End()

	out, usage, err := s.imagePrompt(ctx, req)
	if err != nil {
		recordError(span, err)
		return Result[PromptOutput]{}, err
	}
	out.RunID = runID
	span.SetAttributes(attribute.Bool("prompt.enhanced", out.Enhanced))
	return resultOf(out, usage), nil
}

func (s *Studio) imagePrompt(ctx context.Context, req CreativeRequest) (PromptOutput, llm.Usage, error) {
	pc := creative.NewPromptContext(s.input(req))
	meta := creative.ComposeImagePrompt(pc)

	resp, err := s.text.GenerateText(ctx, llm.TextRequest{
		Model:       s.textModel,
		Prompt:      meta,
		Temperature: llm.Temperature(promptTemperature),
	})
	if err == nil {
		if cleaned := creative.CleanModelPrompt(resp.Text); cleaned != "" {
			prompt := creative.EnsureEmbeddedText(cleaned, pc.EmbeddedText, pc.Class)
			return PromptOutput{MetaPrompt: meta, Prompt: prompt, Enhanced: true}, resp.Usage, nil
		}
		s.logger.WarnContext(ctx, "prompt model returned empty text, using fallback", "format", req.Format)
	} else {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PromptOutput{}, llm.Usage{}, ctxErr
		}
		s.logger.WarnContext(ctx, "prompt generation failed, using fallback", "format", req.Format, "err", err)
	}

	return PromptOutput{MetaPrompt: meta, Prompt: creative.FallbackImagePrompt(pc)}, llm.Usage{}, nil
}
