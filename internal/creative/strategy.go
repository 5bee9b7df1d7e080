package creative

import (
	"fmt"
	"regexp"
	"strings"
)

type Persona struct {
	Name             string   `json:"name" yaml:"name"`
	VisceralSymptoms []string `json:"visceralSymptoms" yaml:"visceral_symptoms"`
	Keywords         []string `json:"keywords" yaml:"keywords"`
}

type Story struct {
	Narrative string `json:"narrative" yaml:"narrative"`
}

type BigIdea struct {
	Headline string `json:"headline" yaml:"headline"`
}

type Mechanism struct {
	UMS              string `json:"ums" yaml:"ums"`
	ScientificPseudo string `json:"scientificPseudo" yaml:"scientific_pseudo"`
}

type MassDesire struct {
	Headline string `json:"headline" yaml:"headline"`
}

// Strategy is the campaign narrative bundle. Every part is optional.
type Strategy struct {
	Story      *Story      `json:"story,omitempty" yaml:"story,omitempty"`
	BigIdea    *BigIdea    `json:"bigIdea,omitempty" yaml:"big_idea,omitempty"`
	Mechanism  *Mechanism  `json:"mechanism,omitempty" yaml:"mechanism,omitempty"`
	MassDesire *MassDesire `json:"massDesire,omitempty" yaml:"mass_desire,omitempty"`
	Keywords   []string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

const (
	DefaultPainPoint  = "Core Pain"
	DefaultMassDesire = "Core Desire"
	DefaultMechanism  = "The Solution"
	DefaultPersona    = "The Customer"
	DefaultBigIdea    = "The Big Idea"
	DefaultStory      = "A relatable everyday moment"
)

// Extracted holds the strategic snippets interpolated into prompts. Every
// string field is non-empty.
type Extracted struct {
	PersonaName string
	PainPoint   string
	MassDesire  string
	Mechanism   string
	BigIdea     string
	Story       string
	Keywords    []string
}

func ExtractContext(s Strategy, p Persona) Extracted {
	out := Extracted{
		PersonaName: coalesce(p.Name, DefaultPersona),
		PainPoint:   coalesce(strings.Join(cleanList(p.VisceralSymptoms), ", "), DefaultPainPoint),
		MassDesire:  DefaultMassDesire,
		Mechanism:   DefaultMechanism,
		BigIdea:     DefaultBigIdea,
		Story:       DefaultStory,
	}
	if s.MassDesire != nil {
		out.MassDesire = coalesce(s.MassDesire.Headline, DefaultMassDesire)
	}
	if s.Mechanism != nil {
		out.Mechanism = coalesce(s.Mechanism.UMS, s.Mechanism.ScientificPseudo, DefaultMechanism)
	}
	if s.BigIdea != nil {
		out.BigIdea = coalesce(s.BigIdea.Headline, DefaultBigIdea)
	}
	if s.Story != nil {
		out.Story = coalesce(s.Story.Narrative, DefaultStory)
	}

	out.Keywords = NormalizeKeywords(p.Keywords)
	if len(out.Keywords) == 0 {
		out.Keywords = NormalizeKeywords(s.Keywords)
	}
	return out
}

// NormalizeKeywords trims and drops blanks and case-insensitive duplicates,
// keeping the first spelling.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
	}
	return out
}

const vocabularyHeader = "MANDATORY VOCABULARY"

// VocabularyClause is empty when there are no keywords.
func VocabularyClause(keywords []string) string {
	keywords = NormalizeKeywords(keywords)
	if len(keywords) == 0 {
		return ""
	}
	return fmt.Sprintf("%s (THE TRIBE LANGUAGE): You MUST use the following insider slang/keywords verbatim: [%s]. DO NOT TRANSLATE THESE. Use them raw.",
		vocabularyHeader, strings.Join(keywords, ", "))
}

type ParsedAngle struct {
	Clean           string
	PainFocused     bool
	SolutionFocused bool
	Urgent          bool
}

var (
	painPattern     = regexp.MustCompile(`(?i)pain|problem|struggle|tired|failed|worst`)
	solutionPattern = regexp.MustCompile(`(?i)fix|solve|cure|relief|trick|hack`)
	urgentPattern   = regexp.MustCompile(`(?i)now|today|immediately|urgent`)
)

func ParseAngle(angle string) ParsedAngle {
	clean := strings.TrimSpace(angle)
	clean = strings.TrimPrefix(clean, `"`)
	clean = strings.TrimSuffix(clean, `"`)
	return ParsedAngle{
		Clean:           clean,
		PainFocused:     painPattern.MatchString(clean),
		SolutionFocused: solutionPattern.MatchString(clean),
		Urgent:          urgentPattern.MatchString(clean),
	}
}

func (a ParsedAngle) Emphasis() string {
	var parts []string
	if a.PainFocused {
		parts = append(parts, "lead with the pain")
	}
	if a.SolutionFocused {
		parts = append(parts, "show the fix working")
	}
	if a.Urgent {
		parts = append(parts, "make it feel like it has to happen today")
	}
	if len(parts) == 0 {
		return "let the scene speak for itself"
	}
	return strings.Join(parts, "; ")
}

func CulturePrompt(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		return ""
	}
	return fmt.Sprintf("SETTING: %s context. Ensure the environment, architectural style, and background characters match %s.", country, country)
}

type MarketAwareness string

const (
	AwarenessUnaware       MarketAwareness = "unaware"
	AwarenessProblemAware  MarketAwareness = "problem_aware"
	AwarenessSolutionAware MarketAwareness = "solution_aware"
	AwarenessProductAware  MarketAwareness = "product_aware"
	AwarenessMostAware     MarketAwareness = "most_aware"
)

func ParseAwareness(raw string) MarketAwareness {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch MarketAwareness(key) {
	case AwarenessUnaware, AwarenessProblemAware, AwarenessSolutionAware, AwarenessProductAware, AwarenessMostAware:
		return MarketAwareness(key)
	}
	return AwarenessProblemAware
}

func SubjectFocus(a MarketAwareness) string {
	switch a {
	case AwarenessUnaware:
		return "Focus on an ANOMALY or TEXTURE close-up. Create a 'Curiosity Gap'. Do NOT show the product logo clearly yet."
	case AwarenessProblemAware:
		return "Focus on the SYMPTOM. Show the problem clearly in a well-lit environment. Sharp macro shot."
	case AwarenessSolutionAware:
		return "Focus on the COMPARISON or the MECHANISM. Show a crude but clear 'Us vs Them' setup on a table."
	default:
		return "Focus on the PRODUCT in a HAND-HELD shot. Product held by a hand in a living room/bathroom, clear focal point."
	}
}

func SafetyGuidelines() string {
	return strings.Join([]string{
		"1. Humans must look realistic unless specified as cartoon.",
		`2. NO realistic "before/after" split screens that violate platform policies.`,
	}, "\n")
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
