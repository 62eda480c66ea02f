package llm

import (
	"encoding/json"
	"strings"

	"fundmanager-backend/internal/domain"
)

// ExtractJSON parses a model response that may wrap its JSON payload in
// fenced code blocks. A ```json fence wins; otherwise the first fenced block
// is used; otherwise the trimmed full text is treated as the payload.
// Returns *domain.MalformedResponseError when the payload is not valid JSON.
func ExtractJSON(text string, v interface{}) error {
	cleaned := strings.TrimSpace(text)

	if i := strings.Index(cleaned, "```json"); i >= 0 {
		cleaned = cleaned[i+len("```json"):]
		if j := strings.Index(cleaned, "```"); j >= 0 {
			cleaned = cleaned[:j]
		}
		cleaned = strings.TrimSpace(cleaned)
	} else if i := strings.Index(cleaned, "```"); i >= 0 {
		cleaned = cleaned[i+len("```"):]
		if j := strings.Index(cleaned, "```"); j >= 0 {
			cleaned = cleaned[:j]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &domain.MalformedResponseError{Err: err}
	}
	return nil
}
