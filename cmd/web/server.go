package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pro-banana-creatives/internal/campaign"
	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
	"pro-banana-creatives/internal/studio"
)

const maxBodyBytes = 25 << 20

type creativeStudio interface {
	ImagePrompt(ctx context.Context, req studio.CreativeRequest) (studio.Result[studio.PromptOutput], error)
	CreativeImage(ctx context.Context, req studio.CreativeRequest) (studio.Result[studio.ImageOutput], error)
	Carousel(ctx context.Context, req studio.CreativeRequest) (studio.Result[studio.CarouselOutput], error)
	CreativeStrategy(ctx context.Context, req studio.CreativeRequest) (studio.Result[creative.CreativeStrategy], error)
	SalesLetter(ctx context.Context, req studio.CreativeRequest) (studio.Result[string], error)
}

type serverOptions struct {
	Studio         creativeStudio
	Campaign       campaign.Campaign
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

type server struct {
	studio   creativeStudio
	campaign campaign.Campaign
	logger   *slog.Logger
	timeout  time.Duration
}

type apiError struct {
	Error string `json:"error"`
}

type creativeRequest struct {
	Format              string             `json:"format"`
	Campaign            *campaign.Campaign `json:"campaign,omitempty"`
	Angle               string             `json:"angle,omitempty"`
	EmbeddedText        string             `json:"embeddedText,omitempty"`
	VisualScene         string             `json:"visualScene,omitempty"`
	VisualStyle         string             `json:"visualStyle,omitempty"`
	AspectRatio         string             `json:"aspectRatio,omitempty"`
	CongruenceRationale string             `json:"congruenceRationale,omitempty"`
	ReferenceImage      string             `json:"referenceImage,omitempty"`
	Slides              int                `json:"slides,omitempty"`
}

type formatInfo struct {
	Format       creative.Format      `json:"format"`
	Name         string               `json:"name"`
	DigitalUI    bool                 `json:"digitalUI"`
	RawAuthentic bool                 `json:"rawAuthentic"`
	NativeStory  bool                 `json:"nativeStory"`
	Carousel     bool                 `json:"carousel"`
	Enhancer     creative.Enhancer    `json:"enhancer"`
	Roleplay     string               `json:"roleplay"`
	StyleGuide   *creative.StyleGuide `json:"styleGuide,omitempty"`
	GuideText    string               `json:"guideText,omitempty"`
}

type imageData struct {
	RunID       string  `json:"runId"`
	ImageURL    *string `json:"imageUrl"`
	FinalPrompt string  `json:"finalPrompt"`
	Enhanced    bool    `json:"enhanced"`
}

type carouselData struct {
	RunID     string   `json:"runId"`
	ImageURLs []string `json:"imageUrls"`
	Prompts   []string `json:"prompts"`
}

func newServer(opts serverOptions) *server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 240 * time.Second
	}
	return &server{
		studio:   opts.Studio,
		campaign: opts.Campaign,
		logger:   logger,
		timeout:  timeout,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(s.withLogging)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Get("/formats/{format}", s.handleFormat)
		r.Post("/prompt", s.handlePrompt)
		r.Post("/creative", s.handleCreative)
		r.Post("/carousel", s.handleCarousel)
		r.Post("/copy", s.handleCopy)
		r.Post("/letter", s.handleLetter)
	})
	return r
}

func (s *server) handleFormats(w http.ResponseWriter, r *http.Request) {
	formats := creative.Formats()
	out := make([]formatInfo, 0, len(formats))
	for _, f := range formats {
		out = append(out, describe(f, false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleFormat(w http.ResponseWriter, r *http.Request) {
	f, ok := creative.ParseFormat(chi.URLParam(r, "format"))
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "unknown format"})
		return
	}
	writeJSON(w, http.StatusOK, describe(f, true))
}

func (s *server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	req, ctx, cancel, ok := s.decode(w, r)
	if !ok {
		return
	}
	defer cancel()

	res, err := s.studio.ImagePrompt(ctx, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleCreative(w http.ResponseWriter, r *http.Request) {
	req, ctx, cancel, ok := s.decode(w, r)
	if !ok {
		return
	}
	defer cancel()

	res, err := s.studio.CreativeImage(ctx, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := imageData{RunID: res.Data.RunID, FinalPrompt: res.Data.FinalPrompt, Enhanced: res.Data.Enhanced}
	if img := res.Data.Image; img != nil {
		url := img.DataURL()
		data.ImageURL = &url
	}
	writeJSON(w, http.StatusOK, studio.Result[imageData]{Data: data, InputTokens: res.InputTokens, OutputTokens: res.OutputTokens})
}

func (s *server) handleCarousel(w http.ResponseWriter, r *http.Request) {
	req, ctx, cancel, ok := s.decode(w, r)
	if !ok {
		return
	}
	defer cancel()

	res, err := s.studio.Carousel(ctx, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := carouselData{RunID: res.Data.RunID, Prompts: res.Data.Prompts, ImageURLs: make([]string, 0, len(res.Data.Images))}
	for _, img := range res.Data.Images {
		data.ImageURLs = append(data.ImageURLs, img.DataURL())
	}
	writeJSON(w, http.StatusOK, studio.Result[carouselData]{Data: data, InputTokens: res.InputTokens, OutputTokens: res.OutputTokens})
}

func (s *server) handleCopy(w http.ResponseWriter, r *http.Request) {
	req, ctx, cancel, ok := s.decode(w, r)
	if !ok {
		return
	}
	defer cancel()

	res, err := s.studio.CreativeStrategy(ctx, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleLetter(w http.ResponseWriter, r *http.Request) {
	req, ctx, cancel, ok := s.decode(w, r)
	if !ok {
		return
	}
	defer cancel()

	res, err := s.studio.SalesLetter(ctx, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decode parses the body into a studio request and derives the request
// context. It writes the error response itself when ok is false.
func (s *server) decode(w http.ResponseWriter, r *http.Request) (studio.CreativeRequest, context.Context, context.CancelFunc, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body creativeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return studio.CreativeRequest{}, nil, nil, false
	}

	if body.Slides < 0 || body.Slides > creative.MaxSlideCount {
		writeJSON(w, http.StatusBadRequest, apiError{Error: fmt.Sprintf("slides must be between 1 and %d", creative.MaxSlideCount)})
		return studio.CreativeRequest{}, nil, nil, false
	}

	c := s.campaign
	if body.Campaign != nil {
		if err := body.Campaign.Prepare(); err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
			return studio.CreativeRequest{}, nil, nil, false
		}
		c = *body.Campaign
	}

	format := creative.Format(strings.TrimSpace(body.Format))
	if parsed, ok := creative.ParseFormat(body.Format); ok {
		format = parsed
	}

	req := studio.CreativeRequest{
		Format:              format,
		Campaign:            c,
		Angle:               body.Angle,
		EmbeddedText:        body.EmbeddedText,
		VisualScene:         body.VisualScene,
		VisualStyle:         body.VisualStyle,
		AspectRatio:         llm.NormalizeAspectRatio(body.AspectRatio),
		CongruenceRationale: body.CongruenceRationale,
		Slides:              body.Slides,
	}
	if strings.TrimSpace(body.ReferenceImage) != "" {
		img, err := llm.ParseDataURL(body.ReferenceImage)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid referenceImage"})
			return studio.CreativeRequest{}, nil, nil, false
		}
		req.Reference = &img
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	return req, ctx, cancel, true
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, studio.ErrNoImageGenerator):
		status = http.StatusServiceUnavailable
	}
	s.logger.Error("request failed", "status", status, "err", err)
	writeJSON(w, status, apiError{Error: err.Error()})
}

func describe(f creative.Format, withGuide bool) formatInfo {
	c := creative.Classify(f)
	info := formatInfo{
		Format:       f,
		Name:         f.DisplayName(),
		DigitalUI:    c.DigitalUI,
		RawAuthentic: c.RawAuthentic,
		NativeStory:  c.NativeStory,
		Carousel:     f.IsCarousel(),
		Enhancer:     c.Enhancer,
		Roleplay:     c.Roleplay,
	}
	if withGuide {
		g := creative.StyleGuideFor(f)
		info.StyleGuide = &g
		info.GuideText = g.Text()
	}
	return info
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"dur_ms", time.Since(start).Milliseconds(),
		)
	})
}
