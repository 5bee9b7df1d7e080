package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro-banana-creatives/internal/campaign"
	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
	"pro-banana-creatives/internal/studio"
)

type fakeStudio struct {
	last studio.CreativeRequest
	err  error
}

func (f *fakeStudio) ImagePrompt(_ context.Context, req studio.CreativeRequest) (studio.Result[studio.PromptOutput], error) {
	f.last = req
	if f.err != nil {
		return studio.Result[studio.PromptOutput]{}, f.err
	}
	return studio.Result[studio.PromptOutput]{
		Data:        studio.PromptOutput{RunID: "run-1", Prompt: "final prompt"},
		InputTokens: 10, OutputTokens: 5,
	}, nil
}

func (f *fakeStudio) CreativeImage(_ context.Context, req studio.CreativeRequest) (studio.Result[studio.ImageOutput], error) {
	f.last = req
	if f.err != nil {
		return studio.Result[studio.ImageOutput]{}, f.err
	}
	out := studio.ImageOutput{RunID: "run-2", FinalPrompt: "final prompt"}
	if req.EmbeddedText != "no image" {
		out.Image = &llm.InlineImage{MIMEType: "image/png", Data: []byte("png")}
	}
	return studio.Result[studio.ImageOutput]{Data: out, InputTokens: 12, OutputTokens: 100}, nil
}

func (f *fakeStudio) Carousel(_ context.Context, req studio.CreativeRequest) (studio.Result[studio.CarouselOutput], error) {
	f.last = req
	return studio.Result[studio.CarouselOutput]{
		Data: studio.CarouselOutput{
			RunID:   "run-3",
			Images:  []llm.InlineImage{{MIMEType: "image/png", Data: []byte("a")}, {MIMEType: "image/png", Data: []byte("b")}},
			Prompts: []string{"one", "two", "three"},
		},
		InputTokens: 40, OutputTokens: 200,
	}, nil
}

func (f *fakeStudio) CreativeStrategy(_ context.Context, req studio.CreativeRequest) (studio.Result[creative.CreativeStrategy], error) {
	f.last = req
	if f.err != nil {
		return studio.Result[creative.CreativeStrategy]{}, f.err
	}
	return studio.Result[creative.CreativeStrategy]{Data: creative.CreativeStrategy{Headline: "Stop overpaying"}}, nil
}

func (f *fakeStudio) SalesLetter(_ context.Context, req studio.CreativeRequest) (studio.Result[string], error) {
	f.last = req
	return studio.Result[string]{Data: "Dear reader", InputTokens: 3, OutputTokens: 30}, nil
}

func newTestServer(t *testing.T, fs *fakeStudio) *httptest.Server {
	t.Helper()
	s := newServer(serverOptions{Studio: fs, Campaign: campaign.Named("Acme Serum")})
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeStudio{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFormatsEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeStudio{})

	resp, err := http.Get(srv.URL + "/api/formats")
	require.NoError(t, err)
	var list []formatInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Len(t, list, len(creative.Formats()))

	resp, err = http.Get(srv.URL + "/api/formats/" + string(creative.FormatStickyNoteRealism))
	require.NoError(t, err)
	var one formatInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	resp.Body.Close()
	assert.Equal(t, creative.FormatStickyNoteRealism, one.Format)
	assert.NotEmpty(t, one.GuideText)

	resp, err = http.Get(srv.URL + "/api/formats/not_a_format")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromptUsesDefaultCampaign(t *testing.T) {
	fs := &fakeStudio{}
	srv := newTestServer(t, fs)

	resp, out := post(t, srv, "/api/prompt", `{"format":"sticky_note_realism","embeddedText":"Hi","aspectRatio":"4:5"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(10), out["inputTokenCount"])
	assert.Equal(t, "Acme Serum", fs.last.Campaign.Product.Name)
	assert.Equal(t, llm.AspectVertical, fs.last.AspectRatio)
	assert.Equal(t, creative.FormatStickyNoteRealism, fs.last.Format)
}

func TestCreativeReturnsDataURL(t *testing.T) {
	fs := &fakeStudio{}
	srv := newTestServer(t, fs)

	ref := llm.InlineImage{MIMEType: "image/jpeg", Data: []byte("jpeg")}
	body := fmt.Sprintf(`{"format":"meme","referenceImage":%q}`, ref.DataURL())
	resp, out := post(t, srv, "/api/creative", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := out["data"].(map[string]any)
	assert.True(t, strings.HasPrefix(data["imageUrl"].(string), "data:image/png;base64,"))
	require.NotNil(t, fs.last.Reference)
	assert.Equal(t, "image/jpeg", fs.last.Reference.MIMEType)
}

func TestCreativeWithoutImageReturnsNull(t *testing.T) {
	srv := newTestServer(t, &fakeStudio{})

	resp, out := post(t, srv, "/api/creative", `{"format":"meme","embeddedText":"no image"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]any)
	assert.Nil(t, data["imageUrl"])
	assert.Equal(t, "final prompt", data["finalPrompt"])
}

func TestCarouselKeepsAllPrompts(t *testing.T) {
	srv := newTestServer(t, &fakeStudio{})

	resp, out := post(t, srv, "/api/carousel", `{"format":"carousel_real_story","slides":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]any)
	assert.Len(t, data["imageUrls"], 2)
	assert.Len(t, data["prompts"], 3)
	assert.Equal(t, float64(200), out["outputTokenCount"])
}

func TestCopyAndLetter(t *testing.T) {
	srv := newTestServer(t, &fakeStudio{})

	resp, out := post(t, srv, "/api/copy", `{"format":"meme"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Stop overpaying", out["data"].(map[string]any)["headline"])

	resp, out = post(t, srv, "/api/letter", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dear reader", out["data"])
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t, &fakeStudio{})

	resp, _ := post(t, srv, "/api/prompt", `{"format":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, "/api/prompt", `{"referenceImage":"data:image/png;base64,@@@"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, "/api/carousel", `{"slides":500}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, "/api/prompt", `{"campaign":{"product":{"name":"  "}}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, "/api/prompt", `{"campaign":{"product":{"name":"X","referenceImage":"/etc/hosts"}}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpstreamErrorsMapToGatewayStatus(t *testing.T) {
	fs := &fakeStudio{err: fmt.Errorf("strategy: %w", creative.ErrMalformedOutput)}
	srv := newTestServer(t, fs)
	resp, out := post(t, srv, "/api/copy", `{}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.NotEmpty(t, out["error"])

	fs.err = context.DeadlineExceeded
	resp, _ = post(t, srv, "/api/prompt", `{}`)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)

	fs.err = studio.ErrNoImageGenerator
	resp, _ = post(t, srv, "/api/creative", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequestCampaignOverridesDefault(t *testing.T) {
	fs := &fakeStudio{}
	srv := newTestServer(t, fs)

	resp, _ := post(t, srv, "/api/letter", `{"campaign":{"product":{"name":" Other ","awareness":"most_aware"},"persona":{"keywords":["  cheap "]}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Other", fs.last.Campaign.Product.Name)
	assert.Equal(t, []string{"cheap"}, fs.last.Campaign.Persona.Keywords)
}
