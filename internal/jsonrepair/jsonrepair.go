// Package jsonrepair recovers JSON objects from model output. Providers
// routinely wrap JSON in Markdown code fences or prepend commentary, so
// callers that expect a schema must not parse responses naively.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoObject = errors.New("no JSON object found in content")

// stripFences removes Markdown code-fence lines (``` or ```json) while
// keeping everything between them.
func stripFences(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}

	var sb strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Extract returns the first balanced {...} span in raw that parses as
// JSON, after stripping code fences. Commentary ahead of the object can
// itself contain brace pairs, so candidate spans that do not parse are
// skipped and the scan resumes at the next opening brace.
func Extract(raw string) (string, error) {
	content := stripFences(raw)

	for start := strings.Index(content, "{"); start != -1; {
		if span := balancedSpan(content, start); span != "" && json.Valid([]byte(span)) {
			return span, nil
		}
		next := strings.Index(content[start+1:], "{")
		if next == -1 {
			break
		}
		start += 1 + next
	}

	return "", ErrNoObject
}

// balancedSpan returns the balanced {...} span opening at start, or ""
// when the braces never balance. The scan is string-aware: braces
// inside JSON string literals do not count toward balance.
func balancedSpan(content string, start int) string {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]

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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

// Unmarshal extracts the first balanced object from raw and parses it
// strictly into v.
func Unmarshal(raw string, v any) error {
	snippet, err := Extract(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(snippet), v)
}
