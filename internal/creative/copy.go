package creative

import (
	"errors"
	"fmt"
	"strings"

	"pro-banana-creatives/internal/llm"
)

var ErrMalformedOutput = errors.New("malformed structured output")

type UglyAdStructure struct {
	Keyword   string `json:"keyword"`
	Emotion   string `json:"emotion"`
	Qualifier string `json:"qualifier"`
	Outcome   string `json:"outcome"`
}

// CreativeStrategy is the structured ad copy returned by the text model.
type CreativeStrategy struct {
	VisualScene         string           `json:"visualScene"`
	VisualStyle         string           `json:"visualStyle"`
	EmbeddedText        string           `json:"embeddedText"`
	PrimaryText         string           `json:"primaryText"`
	Headline            string           `json:"headline"`
	CTA                 string           `json:"cta"`
	Rationale           string           `json:"rationale"`
	CongruenceRationale string           `json:"congruenceRationale,omitempty"`
	UglyAdStructure     *UglyAdStructure `json:"uglyAdStructure"`
}

func CreativeStrategySchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"visualScene":         llm.String(),
		"visualStyle":         llm.String(),
		"embeddedText":        llm.String(),
		"primaryText":         llm.String(),
		"headline":            llm.String(),
		"cta":                 llm.String(),
		"rationale":           llm.String(),
		"congruenceRationale": llm.String(),
		"uglyAdStructure": llm.Object(map[string]*llm.Schema{
			"keyword":   llm.String(),
			"emotion":   llm.String(),
			"qualifier": llm.String(),
			"outcome":   llm.String(),
		}, "keyword", "emotion", "qualifier", "outcome"),
	}, "visualScene", "visualStyle", "embeddedText", "primaryText", "headline", "cta", "rationale", "uglyAdStructure")
}

// ValidateCreativeStrategy reports every missing required field at once.
func ValidateCreativeStrategy(cs CreativeStrategy) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"visualScene", cs.VisualScene},
		{"visualStyle", cs.VisualStyle},
		{"embeddedText", cs.EmbeddedText},
		{"primaryText", cs.PrimaryText},
		{"headline", cs.Headline},
		{"cta", cs.CTA},
		{"rationale", cs.Rationale},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	if u := cs.UglyAdStructure; u == nil {
		missing = append(missing, "uglyAdStructure")
	} else {
		for _, f := range []struct {
			name  string
			value string
		}{
			{"uglyAdStructure.keyword", u.Keyword},
			{"uglyAdStructure.emotion", u.Emotion},
			{"uglyAdStructure.qualifier", u.Qualifier},
			{"uglyAdStructure.outcome", u.Outcome},
		} {
			if strings.TrimSpace(f.value) == "" {
				missing = append(missing, f.name)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformedOutput, strings.Join(missing, ", "))
	}
	return nil
}

func ComposeCreativeStrategyPrompt(in PromptInput) string {
	ctx := ExtractContext(in.Strategy, in.Persona)
	guide := StyleGuideFor(in.Format)

	var b strings.Builder
	b.Grow(2048)

	b.WriteString("# ROLE: Native Advertising Expert\n")
	b.WriteString(`TASK: Design a Creative Asset that is "Invisible" (Native Ad).` + "\n\n")

	b.WriteString("CONTEXT:\n")
	writeField(&b, "Format", fmt.Sprintf("%s (%s)", in.Format.DisplayName(), in.Format))
	writeField(&b, "Target", coalesce(in.Country, "Indonesia"))
	writeField(&b, "Product", coalesce(in.ProductName, defaultProductName))
	writeField(&b, "Hook", ParseAngle(in.Angle).Clean)
	b.WriteString("\n")

	b.WriteString("PERSONA DATA:\n")
	writeField(&b, "Who", ctx.PersonaName)
	writeField(&b, "Pain", ctx.PainPoint)
	writeField(&b, "Desire", ctx.MassDesire)
	writeField(&b, "Mechanism", ctx.Mechanism)
	b.WriteString("\n")

	if clause := VocabularyClause(ctx.Keywords); clause != "" {
		b.WriteString(clause + "\n\n")
	}

	b.WriteString("MANDATORY NATIVE RULE:\n")
	b.WriteString("- VISUAL SCENE INSTRUCTION: Do NOT describe a polished ad. Describe a RAW SCENE.\n")
	b.WriteString(`- Example: Instead of "A woman smiling holding product", use "A messy bathroom selfie with flash showing the product on the counter."` + "\n")
	b.WriteString("- The 'embeddedText' must be short and natively integrated (sticky note, phone UI, cardboard sign).\n\n")

	b.WriteString(guide.Text() + "\n\n")

	b.WriteString("TASK: Design the COMPLETE Creative Asset.\n\n")
	b.WriteString("OUTPUT JSON:\n")
	for _, line := range []string{
		`visualScene: Specific RAW action/setup for the image generator. Focus on the "Real" aspect.`,
		"visualStyle: Camera type, lighting, mood.",
		"embeddedText: The exact text string to render on the image (native language).",
		"primaryText: Ad caption (native language).",
		"headline: Ad headline (native language).",
		"cta: Button text.",
		"rationale: Why this hooks the persona.",
		"congruenceRationale: How the image visually proves the text claim.",
		"uglyAdStructure: { keyword, emotion, qualifier, outcome } (MANDATORY).",
	} {
		b.WriteString("- " + line + "\n")
	}

	return strings.TrimSpace(b.String())
}

type CarouselSlides struct {
	Slides []string `json:"slides"`
}

func CarouselSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"slides": llm.ArrayOf(llm.String()),
	}, "slides")
}

const (
	DefaultSlideCount = 3
	// MaxSlideCount matches the Telegram album limit.
	MaxSlideCount = 10
)

// ClampSlides maps a requested slide count into [1, MaxSlideCount]; zero or
// negative means DefaultSlideCount.
func ClampSlides(n int) int {
	switch {
	case n < 1:
		return DefaultSlideCount
	case n > MaxSlideCount:
		return MaxSlideCount
	}
	return n
}

func ComposeCarouselPrompt(in PromptInput, slides int) string {
	slides = ClampSlides(slides)
	class := Classify(in.Format)
	guide := StyleGuideFor(in.Format)

	var b strings.Builder
	b.Grow(2048)

	b.WriteString("ROLE: Creative Director for native social carousels.\n")
	b.WriteString(fmt.Sprintf("TASK: Create %d distinct image prompts for a carousel ad, one per slide, in slide order.\n\n", slides))

	b.WriteString("CONTEXT:\n")
	writeField(&b, "Format", fmt.Sprintf("%s (%s)", in.Format.DisplayName(), in.Format))
	writeField(&b, "Angle", ParseAngle(in.Angle).Clean)
	writeField(&b, "Product", coalesce(in.ProductName, defaultProductName))
	writeField(&b, "Base scene", in.VisualScene)
	writeField(&b, "Visual vibe", in.VisualStyle)
	writeField(&b, "Cultural context", CulturePrompt(in.Country))
	b.WriteString("\n")

	b.WriteString(guide.Text() + "\n\n")

	b.WriteString("METHODOLOGY:\n")
	b.WriteString(fmt.Sprintf("Write %d single narrative prompts. Each prompt must include the visual description, the text overlay instruction and the raw style instruction. ", slides))
	b.WriteString("No bullet points inside a prompt.\n")
	b.WriteString("Roleplay: " + class.Roleplay + "\n")
	b.WriteString("Style: " + strings.Join(strings.Fields(class.Enhancer.Directive()), " ") + "\n\n")

	b.WriteString("OUTPUT JSON:\n")
	b.WriteString(`{"slides": ["Full narrative prompt for slide 1...", "..."]}`)

	return strings.TrimSpace(b.String())
}

func ComposeSalesLetterPrompt(in PromptInput) string {
	ctx := ExtractContext(in.Strategy, in.Persona)
	country := coalesce(in.Country, "Indonesia")
	product := coalesce(in.ProductName, defaultProductName)

	var b strings.Builder
	b.Grow(2048)

	b.WriteString("ROLE: Direct Response Copywriter (Long Form / Advertorial Specialist).\n")
	b.WriteString("TARGET COUNTRY: " + country + ".\n")
	b.WriteString("TASK: Write a high-converting Sales Letter (long-form Facebook Ad) in the NATIVE language of " + country + ".\n\n")

	b.WriteString(salesFramework(in.Awareness, product) + "\n\n")

	b.WriteString("STRATEGY STACK:\n")
	b.WriteString(fmt.Sprintf("1. HOOK: %q\n", ParseAngle(in.Angle).Clean))
	b.WriteString(fmt.Sprintf("2. STORY: %q\n", ctx.Story))
	b.WriteString(fmt.Sprintf("3. THE SHIFT: %q\n", ctx.BigIdea))
	mechanism := ctx.Mechanism
	if m := in.Strategy.Mechanism; m != nil && strings.TrimSpace(m.ScientificPseudo) != "" {
		mechanism = strings.TrimSpace(m.ScientificPseudo)
	}
	b.WriteString(fmt.Sprintf("4. THE SOLUTION: %q\n", mechanism))
	b.WriteString(fmt.Sprintf("5. OFFER: %s for %s.\n", coalesce(in.Offer, "The current offer"), product))
	writeField(&b, "PRODUCT DETAILS", in.ProductDescription)
	b.WriteString("\n")

	if clause := VocabularyClause(ctx.Keywords); clause != "" {
		b.WriteString(clause + "\n\n")
	}

	b.WriteString("FORMAT: Markdown. Short paragraphs.")
	return b.String()
}

func salesFramework(a MarketAwareness, product string) string {
	switch a {
	case AwarenessUnaware:
		return strings.Join([]string{
			"FRAMEWORK: 8-STEP INDIRECT STORY LEAD",
			"1. The Hook (Behavior/Emotion): start with a specific behavior or feeling. NO PRODUCT MENTION.",
			"2. Instant Identity: call out who this is for indirectly.",
			"3. Amplify Emotion: twist the knife.",
			"4. The Real Problem: reveal the real enemy.",
			"5. The New Mechanism: introduce the new concept/shift.",
			`6. The Discovery: the "epiphany" moment.`,
			"7. The Transformation: what life looks like now.",
			"8. The Offer/CTA: ONLY NOW introduce " + product + ".",
			"TONE: Confessional, vulnerable.",
		}, "\n")
	case AwarenessProblemAware, "":
		return strings.Join([]string{
			"FRAMEWORK: PAS (Problem - Agitate - Solution)",
			"1. Call out the pain/symptom immediately.",
			`2. Agitate: "It gets worse if ignored..."`,
			"3. Introduce the mechanism (why it happens).",
			"4. Introduce the solution (" + product + ").",
			"5. Social proof and offer.",
		}, "\n")
	default:
		return strings.Join([]string{
			"FRAMEWORK: DIRECT RESPONSE OFFER",
			"1. BOLD PROMISE: what result in what timeframe?",
			"2. THE MECHANISM: why it works.",
			"3. VALUE STACK: everything they get.",
			`4. RISK REVERSAL: the "insane" guarantee.`,
			"5. SCARCITY: why buy now?",
		}, "\n")
	}
}
