package textgen

import (
	"encoding/json"
	"fmt"
)

// ExtractJSONObject finds the first balanced {...} span in raw and decodes it
// into v. Generative models routinely wrap JSON in prose or markdown fences,
// so the scan ignores everything outside the first balanced object. Braces
// inside JSON strings are skipped. Both stages fail closed: a missing span or
// a strict-decode failure returns an error and the caller falls back.
func ExtractJSONObject(raw string, v any) error {
	span, err := firstObjectSpan(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return fmt.Errorf("decode extracted object: %w", err)
	}
	return nil
}

func firstObjectSpan(raw string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		ch := raw[i]

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
				if depth == 0 {
					return raw[start : i+1], nil
				}
			}
		}
	}

	if start >= 0 {
		return "", fmt.Errorf("unterminated object starting at byte %d", start)
	}
	return "", fmt.Errorf("no JSON object found in response")
}
