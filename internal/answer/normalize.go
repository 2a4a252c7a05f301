package answer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
)

// Normalize flattens a provider-native response value into a plain string.
//
// Generation providers do not guarantee a flat string: the raw value may be a
// model response envelope, a message with mixed parts, a sequence, or a
// mapping. Downstream storage and transport always need a string, so every
// shape is reduced here and nowhere else.
//
// Reduction rules, applied recursively one level deep:
//   - envelopes (*ai.ModelResponse, *ai.Message) are unwrapped to their
//     content parts first
//   - sequences normalize each element and join with newlines
//   - mappings reduce to the first present key of content, text, message;
//     otherwise the whole mapping is serialized as JSON
//   - strings pass through unchanged (Normalize is idempotent on strings)
//   - anything else is stringified
func Normalize(raw any) string {
	return normalize(raw, 0)
}

// maxDepth bounds the structural recursion; provider envelopes are at most
// one wrapper around one sequence of leaf values.
const maxDepth = 4

func normalize(raw any, depth int) string {
	if raw == nil {
		return ""
	}
	if depth > maxDepth {
		return fmt.Sprint(raw)
	}

	switch v := raw.(type) {
	case string:
		return v

	case *ai.ModelResponse:
		if v == nil || v.Message == nil {
			return ""
		}
		return normalize(v.Message, depth+1)

	case *ai.Message:
		if v == nil {
			return ""
		}
		return normalizeParts(v.Content)

	case []*ai.Part:
		return normalizeParts(v)

	case []any:
		lines := make([]string, 0, len(v))
		for _, elem := range v {
			lines = append(lines, normalize(elem, depth+1))
		}
		return joinNonEmpty(lines)

	case []string:
		return joinNonEmpty(v)

	case map[string]any:
		return normalizeMapping(v, depth)

	default:
		return fmt.Sprint(raw)
	}
}

// normalizeMapping reduces a mapping by key preference: content, then text,
// then message. A mapping with none of those keys is serialized whole.
func normalizeMapping(m map[string]any, depth int) string {
	for _, key := range []string{"content", "text", "message"} {
		if val, ok := m[key]; ok {
			return normalize(val, depth+1)
		}
	}

	serialized, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprint(m)
	}
	return string(serialized)
}

// normalizeParts joins the text of message parts. Non-text parts (tool
// requests, media) are skipped; they carry no guest-visible text.
func normalizeParts(parts []*ai.Part) string {
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		if p.Text != "" {
			lines = append(lines, p.Text)
		}
	}
	return joinNonEmpty(lines)
}

func joinNonEmpty(lines []string) string {
	nonEmpty := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
