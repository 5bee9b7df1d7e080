package creative

import "strings"

// Enhancer names a photographic aesthetic preset merged into image prompts.
type Enhancer string

const (
	EnhancerProfessional Enhancer = "professional"
	EnhancerUGC          Enhancer = "ugc"
	EnhancerRaw          Enhancer = "authentic_raw"
)

var enhancerDirectives = map[Enhancer]string{
	EnhancerProfessional: "High-end commercial photography, 8k, shot on Phase One, studio lighting, clean composition.",
	EnhancerUGC:          "Shot on iPhone 15, authentic creator vibe, natural home lighting, realistic skin textures, no filters, slightly imperfect framing.",
	EnhancerRaw: strings.Join([]string{
		`STYLE: "AUTHENTIC SOCIAL" REALISM.`,
		"CAMERA: Modern Smartphone (iPhone 15 Pro or Google Pixel), sharp focus, high resolution.",
		"LIGHTING: Soft natural morning light, diffused window light. AVOID harsh flash.",
		"ENVIRONMENT: Real home setting (lived-in, authentic textures), but NOT filthy/garbage.",
		`VIBE: Viral organic post, "Aesthetically Real", candid, user-generated content.`,
		"NO: perfect symmetry, 3D render look, blurriness, pixelation, overly dark shadows.",
	}, "\n"),
}

func (e Enhancer) Directive() string {
	if d, ok := enhancerDirectives[e]; ok {
		return d
	}
	return enhancerDirectives[EnhancerProfessional]
}

func (e Enhancer) Label() string {
	switch e {
	case EnhancerRaw:
		return "AUTHENTIC SOCIAL / NATIVE"
	case EnhancerUGC:
		return "User-Generated Content"
	default:
		return "Standard Native"
	}
}
