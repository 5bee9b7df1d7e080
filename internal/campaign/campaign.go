// Package campaign loads the product, persona and strategy bundle that every
// creative request is written against.
package campaign

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

var (
	ErrNoProduct     = errors.New("campaign product name is empty")
	ErrFileReference = errors.New("reference image must be a data url")
)

type Product struct {
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Offer          string `json:"offer,omitempty" yaml:"offer,omitempty"`
	Country        string `json:"country,omitempty" yaml:"country,omitempty"`
	Awareness      string `json:"awareness,omitempty" yaml:"awareness,omitempty"`
	ImageTier      string `json:"imageTier,omitempty" yaml:"image_tier,omitempty"`
	ReferenceImage string `json:"referenceImage,omitempty" yaml:"reference_image,omitempty"`
}

type Campaign struct {
	Product  Product           `json:"product" yaml:"product"`
	Persona  creative.Persona  `json:"persona" yaml:"persona"`
	Strategy creative.Strategy `json:"strategy" yaml:"strategy"`

	// directory of the source file, used to resolve relative image paths
	baseDir string
}

func Parse(data []byte) (Campaign, error) {
	var c Campaign
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Campaign{}, fmt.Errorf("parse campaign: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func LoadFile(path string) (Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Campaign{}, fmt.Errorf("read campaign %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Campaign{}, fmt.Errorf("%s: %w", path, err)
	}
	c.baseDir = filepath.Dir(path)
	return c, nil
}

// Named returns a minimal campaign for callers that only know the product.
func Named(product string) Campaign {
	c := Campaign{Product: Product{Name: product}}
	c.normalize()
	return c
}

// Prepare normalizes a campaign decoded outside Parse and validates it.
// File references are refused since there is no trusted base directory.
func (c *Campaign) Prepare() error {
	c.normalize()
	ref := strings.TrimSpace(c.Product.ReferenceImage)
	if ref != "" && !strings.HasPrefix(ref, "data:") {
		return ErrFileReference
	}
	return c.Validate()
}

func (c Campaign) Validate() error {
	if strings.TrimSpace(c.Product.Name) == "" {
		return ErrNoProduct
	}
	return nil
}

func (c Campaign) Awareness() creative.MarketAwareness {
	return creative.ParseAwareness(c.Product.Awareness)
}

func (c Campaign) Tier() llm.ImageTier {
	return llm.ParseTier(c.Product.ImageTier)
}

// Input maps the campaign onto a prompt input for the given format.
func (c Campaign) Input(format creative.Format) creative.PromptInput {
	return creative.PromptInput{
		Format:             format,
		ProductName:        c.Product.Name,
		ProductDescription: c.Product.Description,
		Offer:              c.Product.Offer,
		Country:            c.Product.Country,
		Awareness:          c.Awareness(),
		Persona:            c.Persona,
		Strategy:           c.Strategy,
	}
}

// Reference reads the product reference image, if one is configured.
func (c Campaign) Reference() (*llm.InlineImage, error) {
	path := strings.TrimSpace(c.Product.ReferenceImage)
	if path == "" {
		return nil, nil
	}
	if strings.HasPrefix(path, "data:") {
		img, err := llm.ParseDataURL(path)
		if err != nil {
			return nil, fmt.Errorf("reference image: %w", err)
		}
		return &img, nil
	}
	if !filepath.IsAbs(path) && c.baseDir != "" {
		path = filepath.Join(c.baseDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference image: %w", err)
	}
	return &llm.InlineImage{Data: data, MIMEType: http.DetectContentType(data)}, nil
}

func (c *Campaign) normalize() {
	c.Product.Name = strings.TrimSpace(c.Product.Name)
	c.Product.Country = strings.TrimSpace(c.Product.Country)
	c.Persona.Keywords = creative.NormalizeKeywords(c.Persona.Keywords)
	c.Strategy.Keywords = creative.NormalizeKeywords(c.Strategy.Keywords)
}
