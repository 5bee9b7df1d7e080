package creative

import (
	"fmt"
	"strings"
)

// PromptInput is everything a caller knows about one generation request.
type PromptInput struct {
	Format              Format
	ProductName         string
	ProductDescription  string
	Offer               string
	Country             string
	Awareness           MarketAwareness
	Angle               string
	VisualScene         string
	VisualStyle         string
	EmbeddedText        string
	AspectRatio         string
	CongruenceRationale string
	Persona             Persona
	Strategy            Strategy
}

// PromptContext is assembled once per composition and discarded afterwards.
type PromptContext struct {
	Format              Format
	Class               Classification
	Guide               StyleGuide
	Angle               ParsedAngle
	Context             Extracted
	Culture             string
	SubjectFocus        string
	EmbeddedText        string
	VisualScene         string
	VisualStyle         string
	ProductName         string
	AspectRatio         string
	CongruenceRationale string
}

const defaultProductName = "the product"

func NewPromptContext(in PromptInput) PromptContext {
	return PromptContext{
		Format:              in.Format,
		Class:               Classify(in.Format),
		Guide:               StyleGuideFor(in.Format),
		Angle:               ParseAngle(in.Angle),
		Context:             ExtractContext(in.Strategy, in.Persona),
		Culture:             CulturePrompt(in.Country),
		SubjectFocus:        SubjectFocus(in.Awareness),
		EmbeddedText:        strings.TrimSpace(in.EmbeddedText),
		VisualScene:         strings.TrimSpace(in.VisualScene),
		VisualStyle:         strings.TrimSpace(in.VisualStyle),
		ProductName:         coalesce(in.ProductName, defaultProductName),
		AspectRatio:         coalesce(in.AspectRatio, "1:1"),
		CongruenceRationale: strings.TrimSpace(in.CongruenceRationale),
	}
}

// NoHardwareClause keeps screen formats from being rendered as a photo of a
// phone.
const NoHardwareClause = "Frame only the screen content edge to edge: no phone body, no bezels, no notch, no fingers holding a device, no visible phone hardware anywhere in the frame."

// ComposeImagePrompt builds the instruction document for the prompt-writing
// model. Section order is fixed.
func ComposeImagePrompt(pc PromptContext) string {
	var b strings.Builder
	b.Grow(4096)

	b.WriteString("ROLE: You are a prompt engineer specialised in native social ads and in-image text rendering.\n\n")

	b.WriteString("GOAL: Write ONE single, unified text prompt for an AI image generator. ")
	b.WriteString("It must be one continuous, descriptive narrative paragraph. ")
	b.WriteString("Do NOT split it into parts, headings, bullet points or numbered lists.\n\n")

	b.WriteString("ROLEPLAY: Open the narrative from this persona. " + pc.Class.Roleplay + "\n\n")

	b.WriteString("EMBEDDED TEXT:\n")
	if pc.EmbeddedText != "" {
		b.WriteString(fmt.Sprintf("- Instruct the image model to render the text %q exactly, letter for letter, untranslated.\n", pc.EmbeddedText))
		b.WriteString("- Describe where the text lives: " + pc.Guide.Surface + "\n")
	} else {
		b.WriteString("- No specific text is required; any visible text must stay natural to the scene.\n")
	}
	b.WriteString(pc.Guide.Text() + "\n\n")

	b.WriteString("VISUAL TECHNIQUE:\n")
	for _, line := range visualTechnique(pc) {
		b.WriteString("- " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString("STRATEGIC CONTEXT:\n")
	writeField(&b, "Product", pc.ProductName)
	writeField(&b, "Format", fmt.Sprintf("%s (%s)", pc.Format.DisplayName(), pc.Format))
	writeField(&b, "Persona", pc.Context.PersonaName)
	writeField(&b, "Pain point", pc.Context.PainPoint)
	writeField(&b, "Mass desire", pc.Context.MassDesire)
	writeField(&b, "Mechanism", pc.Context.Mechanism)
	writeField(&b, "Angle", pc.Angle.Clean)
	writeField(&b, "Angle emphasis", pc.Angle.Emphasis())
	writeField(&b, "Subject focus", pc.SubjectFocus)
	writeField(&b, "Visual action", pc.VisualScene)
	writeField(&b, "Visual vibe", pc.VisualStyle)
	writeField(&b, "Image proves", pc.CongruenceRationale)
	writeField(&b, "Aspect ratio", pc.AspectRatio)
	writeField(&b, "Cultural context", pc.Culture)
	if clause := VocabularyClause(pc.Context.Keywords); clause != "" {
		b.WriteString(clause + "\n")
	}
	b.WriteString("SAFETY:\n" + SafetyGuidelines() + "\n\n")

	b.WriteString("OUTPUT FORMAT:\n")
	b.WriteString("Return ONLY the raw prompt string. No commentary, no quotes, no markdown fences.\n")
	b.WriteString(`Example output: "A sharp phone photo taken in a cozy bedroom with morning sunlight coming through the window. ` +
		`A hand holds a yellow sticky note against a mirror; the note carries the handwritten text 'MINUM AIR DULU' in black marker. ` +
		`The mirror shows an unmade bed in the background. Focus is sharp on the note and the hand."`)

	return strings.TrimSpace(b.String())
}

func visualTechnique(pc PromptContext) []string {
	if pc.Class.DigitalUI {
		return []string{
			"Render the interface as a crisp, fully legible capture of the screen.",
			"Add a faint screen glare reflection and a slight handheld tilt to the captured view.",
			"Let anything behind the interface fall into soft environmental blur so the UI is the only sharp element.",
			NoHardwareClause,
		}
	}

	lighting := "Natural light: soft window light, realistic shadows, no harsh flash."
	if pc.Class.Enhancer == EnhancerProfessional {
		lighting = "Studio lighting: balanced key, fill and rim, soft shadow falloff."
	}
	return []string{
		lighting,
		"Lens: 26mm smartphone main camera or 50mm prime at f/1.8, subject tack-sharp with gentle depth of field.",
		"Texture: show the real material of the surface carrying the text (" + pc.Guide.Surface + ").",
		"Authenticity over perfection: candid framing, realistic skin texture, amateur composition but a sharp subject. Never ask for bad quality or blur.",
		"Enhancer profile (" + pc.Class.Enhancer.Label() + "): " + strings.Join(strings.Fields(pc.Class.Enhancer.Directive()), " "),
	}
}

// FallbackImagePrompt is used when the prompt-writing model is unavailable.
// It needs nothing but the inputs and is always usable on its own.
func FallbackImagePrompt(pc PromptContext) string {
	parts := []string{
		fmt.Sprintf("A high-quality phone photo in the style of %s.", pc.Format.DisplayName()),
		pc.Class.Roleplay,
		"The scene shows: " + strings.TrimSuffix(coalesce(pc.VisualScene, pc.SubjectFocus), ".") + ".",
	}
	if pc.Culture != "" {
		parts = append(parts, pc.Culture)
	}
	parts = append(parts, strings.Join(strings.Fields(pc.Class.Enhancer.Directive()), " "))
	if pc.EmbeddedText != "" {
		parts = append(parts, fmt.Sprintf("Render the text %q naturally and clearly in the image, on %s", pc.EmbeddedText, lowerFirst(pc.Guide.Surface)))
	}
	if pc.Class.DigitalUI {
		parts = append(parts, NoHardwareClause)
	}
	return strings.Join(parts, " ")
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString("- " + label + ": " + value + "\n")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
