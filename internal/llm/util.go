package llm

import (
	"regexp"
	"strings"
)

// fencedBlock matches a markdown code fence anywhere in the text.
var fencedBlock = regexp.MustCompile("(?s)```(?:[A-Za-z0-9_-]*)[ \t]*\\n?(.*?)```")

// CleanJSONBlock extracts a JSON value from a model response.
// LLMs often wrap JSON in ```json ... ``` blocks or add prose around it even
// when instructed not to. Text with no recognizable JSON is returned trimmed.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		if v := extractJSONValue(text); v != "" {
			return v
		}
		return text
	}

	// Preamble: find the first object or array start
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	if v := extractJSONValue(text[start:]); v != "" {
		return v
	}
	return text
}

func extractJSONValue(text string) string {
	if strings.HasPrefix(text, "[") {
		return extractJSONArray(text)
	}
	return extractJSONObject(text)
}

// extractJSONObject returns the balanced object at the start of text, or "".
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced array at the start of text, or "".
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, open, closing byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
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
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
