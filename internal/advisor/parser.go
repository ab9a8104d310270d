package advisor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseRanking parses a ranker reply into ranked items. Models wrap JSON in
// markdown fences or prose often enough that this tries, in order: the whole
// reply, the reply stripped of code fences, and the outermost [...] slice.
// Anything that still fails to decode is a malformed response, which the
// advisor maps to its fallback path.
func ParseRanking(text string) ([]RankedItem, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "[]" {
		return nil, nil
	}

	var ranked []RankedItem
	if err := json.Unmarshal([]byte(cleaned), &ranked); err == nil {
		return ranked, nil
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &ranked); err == nil {
			return ranked, nil
		}
	}

	return nil, fmt.Errorf("failed to parse ranking as JSON: %.200s", cleaned)
}
