package creative

import (
	"fmt"
	"strings"

	"pro-banana-creatives/internal/llm"
)

const missingTextClause = "The image must feature the text %q clearly visible in the scene."

// EnsureEmbeddedText appends an instruction to render the required text when
// a cleaned prompt does not already contain it.
func EnsureEmbeddedText(prompt, required string, c Classification) string {
	prompt = strings.TrimSpace(prompt)
	required = strings.TrimSpace(required)
	if required == "" || strings.Contains(prompt, required) {
		return prompt
	}

	prompt = strings.TrimSpace(prompt + " " + fmt.Sprintf(missingTextClause, required))
	if c.DigitalUI {
		prompt += " " + NoHardwareClause
	}
	return prompt
}

// CleanModelPrompt strips markdown fences and one pair of wrapping quotes.
// Quotes are only removed when they enclose the whole prompt, so quoted
// phrases at either end survive.
func CleanModelPrompt(raw string) string {
	prompt := strings.TrimSpace(llm.TrimCodeFence(raw))
	for _, q := range [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}} {
		if len(prompt) <= len(q[0])+len(q[1]) || !strings.HasPrefix(prompt, q[0]) || !strings.HasSuffix(prompt, q[1]) {
			continue
		}
		inner := prompt[len(q[0]) : len(prompt)-len(q[1])]
		if strings.Contains(inner, q[0]) || strings.Contains(inner, q[1]) {
			break
		}
		return strings.TrimSpace(inner)
	}
	return prompt
}
