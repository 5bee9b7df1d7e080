package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrEmptyPayload = errors.New("empty payload")

// DecodeJSON pulls the first JSON object or array out of a model reply,
// tolerating markdown fences and surrounding chatter.
func DecodeJSON[T any](raw string) (T, error) {
	var zero T
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return zero, ErrEmptyPayload
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func ExtractJSON(raw string) string {
	text := TrimCodeFence(raw)
	if text == "" {
		return ""
	}
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func TrimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
