// Package llm holds the provider-neutral request and response shapes shared by
// the text and image transports.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

type TextRequest struct {
	Model       string // optional override of the transport default
	Prompt      string
	Temperature *float32
	Schema      *Schema // when set the response must be JSON matching it
}

type TextResponse struct {
	Text  string
	Usage Usage
}

type ImageTier string

const (
	TierFlash ImageTier = "flash"
	TierPro   ImageTier = "pro"
)

func ParseTier(value string) ImageTier {
	if strings.EqualFold(strings.TrimSpace(value), string(TierPro)) {
		return TierPro
	}
	return TierFlash
}

type InlineImage struct {
	Data     []byte
	MIMEType string
}

func (img InlineImage) DataURL() string {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(img.Data))
}

type ImageRequest struct {
	Prompt      string
	Reference   *InlineImage
	AspectRatio string // "1:1" or "9:16"
	Tier        ImageTier
}

type ImageResponse struct {
	Images []InlineImage
	Text   string
	Usage  Usage
}

type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (TextResponse, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResponse, error)
}

func Temperature(v float32) *float32 {
	return &v
}

const (
	AspectSquare   = "1:1"
	AspectVertical = "9:16"
)

// NormalizeAspectRatio collapses any ratio into the two selectors the image
// models accept. Empty input means square.
func NormalizeAspectRatio(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "", "square", AspectSquare:
		return AspectSquare
	case "vertical", "portrait", "story", AspectVertical:
		return AspectVertical
	}

	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return AspectSquare
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a <= 0 || b <= 0 || a == b {
		return AspectSquare
	}
	return AspectVertical
}

// ParseDataURL accepts either a data URL or bare base64 payload.
func ParseDataURL(value string) (InlineImage, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return InlineImage{}, errors.New("empty data url")
	}

	mimeType := "image/png"
	payload := value
	if strings.HasPrefix(value, "data:") {
		parts := strings.SplitN(value, ",", 2)
		if len(parts) != 2 {
			return InlineImage{}, errors.New("invalid data url")
		}
		meta := strings.Split(strings.TrimPrefix(parts[0], "data:"), ";")
		if m := strings.TrimSpace(meta[0]); m != "" {
			mimeType = m
		}
		payload = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return InlineImage{}, fmt.Errorf("decode base64: %w", err)
	}
	return InlineImage{Data: data, MIMEType: mimeType}, nil
}
