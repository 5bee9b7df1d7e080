package studio

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

var ErrNoImageGenerator = errors.New("image generator is not configured")

type ImageOutput struct {
	RunID       string           `json:"runId"`
	Image       *llm.InlineImage `json:"-"`
	FinalPrompt string           `json:"finalPrompt"`
	Enhanced    bool             `json:"enhanced"`
}

// CreativeImage writes the prompt and renders it. An image model failure is
// not an error: the result carries a nil image and the attempted prompt.
func (s *Studio) CreativeImage(ctx context.Context, req CreativeRequest) (Result[ImageOutput], error) {
	if s.image == nil {
		return Result[ImageOutput]{}, ErrNoImageGenerator
	}
	ctx, span, runID := s.startSpan(ctx, "studio.CreativeImage", req)
	defer span.End()

	prompt, _, err := s.imagePrompt(ctx, req)
	if err != nil {
		recordError(span, err)
		return Result[ImageOutput]{}, err
	}

	out := ImageOutput{RunID: runID, FinalPrompt: prompt.Prompt, Enhanced: prompt.Enhanced}
	tier := s.tierFor(req.Campaign)
	span.SetAttributes(attribute.String("image.tier", string(tier)))

	resp, err := s.image.GenerateImage(ctx, llm.ImageRequest{
		Prompt:      prompt.Prompt,
		Reference:   s.reference(ctx, req),
		AspectRatio: req.AspectRatio,
		Tier:        tier,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "image generation failed", "run_id", runID, "format", req.Format, "err", err)
		recordError(span, err)
		return resultOf(out, llm.Usage{}), nil
	}
	if len(resp.Images) == 0 {
		s.logger.WarnContext(ctx, "image model returned no image", "run_id", runID, "format", req.Format, "text", resp.Text)
		return resultOf(out, resp.Usage), nil
	}

	img := resp.Images[0]
	out.Image = &img
	return resultOf(out, resp.Usage), nil
}

type CarouselOutput struct {
	RunID   string            `json:"runId"`
	Images  []llm.InlineImage `json:"-"`
	Prompts []string          `json:"prompts"`
}

// Carousel writes one prompt per slide and renders them one at a time. A
// failed slide is logged and skipped; every attempted prompt is returned.
func (s *Studio) Carousel(ctx context.Context, req CreativeRequest) (Result[CarouselOutput], error) {
	if s.image == nil {
		return Result[CarouselOutput]{}, ErrNoImageGenerator
	}
	ctx, span, runID := s.startSpan(ctx, "studio.Carousel", req)
	defer span.End()

	slides := creative.ClampSlides(req.Slides)

	in := s.input(req)
	var usage llm.Usage
	var prompts []string

	resp, err := s.text.GenerateText(ctx, llm.TextRequest{
		Model:  s.textModel,
		Prompt: creative.ComposeCarouselPrompt(in, slides),
		Schema: creative.CarouselSchema(),
	})
	switch {
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			recordError(span, ctxErr)
			return Result[CarouselOutput]{}, ctxErr
		}
		s.logger.WarnContext(ctx, "slide prompt generation failed, using base scene", "run_id", runID, "err", err)
	default:
		usage = usage.Add(llm.Usage{InputTokens: resp.Usage.InputTokens})
		parsed, decodeErr := llm.DecodeJSON[creative.CarouselSlides](resp.Text)
		if decodeErr != nil {
			s.logger.WarnContext(ctx, "slide prompts unreadable, using base scene", "run_id", runID, "err", decodeErr)
		}
		for _, p := range parsed.Slides {
			if p = strings.TrimSpace(p); p != "" {
				prompts = append(prompts, p)
			}
		}
	}
	prompts = fitSlides(prompts, in, slides)

	tier := s.tierFor(req.Campaign)
	images := make([]llm.InlineImage, 0, len(prompts))
	for i, prompt := range prompts {
		if ctx.Err() != nil {
			s.logger.WarnContext(ctx, "carousel interrupted", "run_id", runID, "done", i, "total", len(prompts))
			break
		}
		imageResp, err := s.image.GenerateImage(ctx, llm.ImageRequest{
			Prompt:      prompt,
			AspectRatio: llm.AspectSquare,
			Tier:        tier,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "slide image failed", "run_id", runID, "slide", i+1, "err", err)
			continue
		}
		usage = usage.Add(llm.Usage{OutputTokens: imageResp.Usage.OutputTokens})
		if len(imageResp.Images) == 0 {
			s.logger.WarnContext(ctx, "slide returned no image", "run_id", runID, "slide", i+1)
			continue
		}
		images = append(images, imageResp.Images[0])
	}

	span.SetAttributes(
		attribute.Int("carousel.requested", slides),
		attribute.Int("carousel.rendered", len(images)),
	)
	return resultOf(CarouselOutput{RunID: runID, Images: images, Prompts: prompts}, usage), nil
}

// fitSlides returns exactly slides prompts: extra model slides are dropped and
// missing ones are filled from the fallback.
func fitSlides(prompts []string, in creative.PromptInput, slides int) []string {
	if len(prompts) > slides {
		return prompts[:slides]
	}
	if missing := slides - len(prompts); missing > 0 {
		prompts = append(prompts, fallbackSlides(in, missing)...)
	}
	return prompts
}

func fallbackSlides(in creative.PromptInput, slides int) []string {
	scene := strings.TrimSpace(in.VisualScene)
	if scene == "" {
		scene = creative.FallbackImagePrompt(creative.NewPromptContext(in))
	}
	out := make([]string, slides)
	for i := range out {
		out[i] = scene
	}
	return out
}
