package nlu

import (
	"fmt"
	"strings"
)

// extractJSON pulls the first JSON object out of a completion. Models wrap
// structured output in prose or markdown fences often enough that unmarshaling
// the raw completion directly is a losing bet.
func extractJSON(completion string) (string, error) {
	s := strings.TrimSpace(completion)

	// Strip a markdown fence if the whole reply is fenced.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object in completion")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], nil
				}
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in completion")
}
