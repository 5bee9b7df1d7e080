// Package studio runs one creative request end to end: it composes the
// meta-prompt, asks the text model to write the final image prompt, repairs
// it, and hands it to the image model.
package studio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pro-banana-creatives/internal/campaign"
	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

const tracerName = "pro-banana-creatives/studio"

// promptTemperature is used only for the prompt-writing and copy steps.
const promptTemperature float32 = 1.0

type Options struct {
	Text      llm.TextGenerator
	Image     llm.ImageGenerator
	TextModel string
	Tier      llm.ImageTier
	Country   string
	Logger    *slog.Logger
	Tracer    trace.Tracer
}

type Studio struct {
	text      llm.TextGenerator
	image     llm.ImageGenerator
	textModel string
	tier      llm.ImageTier
	country   string
	logger    *slog.Logger
	tracer    trace.Tracer
}

func New(opts Options) (*Studio, error) {
	if opts.Text == nil {
		return nil, errors.New("text generator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Studio{
		text:      opts.Text,
		image:     opts.Image,
		textModel: strings.TrimSpace(opts.TextModel),
		tier:      opts.Tier,
		country:   strings.TrimSpace(opts.Country),
		logger:    logger,
		tracer:    tracer,
	}, nil
}

// Result carries the payload plus pass-through token accounting.
type Result[T any] struct {
	Data         T   `json:"data"`
	InputTokens  int `json:"inputTokenCount"`
	OutputTokens int `json:"outputTokenCount"`
}

func resultOf[T any](data T, usage llm.Usage) Result[T] {
	return Result[T]{Data: data, InputTokens: usage.InputTokens, OutputTokens: usage.OutputTokens}
}

type CreativeRequest struct {
	Format              creative.Format
	Campaign            campaign.Campaign
	Angle               string
	EmbeddedText        string
	VisualScene         string
	VisualStyle         string
	AspectRatio         string
	CongruenceRationale string
	Reference           *llm.InlineImage
	// Slides is only read by Carousel.
	Slides int
}

func (s *Studio) input(req CreativeRequest) creative.PromptInput {
	in := req.Campaign.Input(req.Format)
	if in.Country == "" {
		in.Country = s.country
	}
	in.Angle = req.Angle
	in.EmbeddedText = req.EmbeddedText
	in.VisualScene = req.VisualScene
	in.VisualStyle = req.VisualStyle
	in.AspectRatio = req.AspectRatio
	in.CongruenceRationale = req.CongruenceRationale
	return in
}

func (s *Studio) tierFor(c campaign.Campaign) llm.ImageTier {
	if strings.TrimSpace(c.Product.ImageTier) != "" {
		return c.Tier()
	}
	if s.tier != "" {
		return s.tier
	}
	return llm.TierFlash
}

func (s *Studio) reference(ctx context.Context, req CreativeRequest) *llm.InlineImage {
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		return req.Reference
	}
	ref, err := req.Campaign.Reference()
	if err != nil {
		s.logger.WarnContext(ctx, "campaign reference image unavailable", "err", err)
		return nil
	}
	return ref
}

func (s *Studio) startSpan(ctx context.Context, name string, req CreativeRequest) (context.Context, trace.Span, string) {
	runID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("creative.format", req.Format.String()),
		attribute.Bool("creative.format_known", req.Format.Known()),
		attribute.String("campaign.product", req.Campaign.Product.Name),
	))
	if !req.Format.Known() {
		s.logger.WarnContext(ctx, "unknown format, using default style", "run_id", runID, "format", req.Format)
	}
	return ctx, span, runID
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
