package llm

import "strings"

// StripCodeFences removes leading/trailing markdown fence markup the model
// was told not to emit but might anyway.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = s[3:]
		// drop a language tag like "json" on the opening fence
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			first := strings.TrimSpace(s[:idx])
			if first == "" || isFenceTag(first) {
				s = s[idx+1:]
			}
		}
	}
	if strings.HasSuffix(strings.TrimSpace(s), "```") {
		t := strings.TrimSpace(s)
		s = t[:len(t)-3]
	}
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// ExtractFirstJSONObject returns the first balanced top-level {...} object by
// brace-depth scanning. Malformed or unbalanced input yields the original
// string, which then fails structured parsing downstream.
func ExtractFirstJSONObject(s string) string {
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return s
}
