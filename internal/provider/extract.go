package provider

import (
	"strings"

	"github.com/HackrsValv/design-critic/internal/critique"
)

// StripFences removes a markdown code fence wrapping the content, if present.
// Models routinely wrap JSON in ```json ... ``` even when asked not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the first balanced JSON object embedded in s,
// tolerating surrounding prose. It is a single left-to-right scan tracking
// brace depth and string/escape state: worst case O(len(s)) with no
// backtracking, even for pathological inputs full of braces inside strings.
// Fails with a parse error when no balanced object exists.
func ExtractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", critique.Parsef("no JSON object found in provider response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", critique.Parsef("unterminated JSON object in provider response")
}
