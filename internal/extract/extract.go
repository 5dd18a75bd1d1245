// Package extract recovers structured records from raw model output. The
// model is asked for a fenced JSON array but routinely returns prose around
// the fence, a bare object, or nothing usable, so extraction is a total
// function: every input maps to a record list, never an error.
package extract

import (
	"encoding/json"
	"strings"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"

	// diagnosticRawLimit caps the echoed source text in a parse_failed
	// record.
	diagnosticRawLimit = 500
)

// Extract parses raw model output into a list of record maps. It tries, in
// order: the first ```json fenced block, then the whole text. A parsed array
// is returned element-wise, a single object becomes a one-element list, and
// any other JSON value is preserved under "raw_output". When nothing parses,
// the result is a single diagnostic record carrying a truncated copy of the
// input.
func Extract(raw string) []map[string]any {
	if block, ok := fencedBlock(raw); ok {
		if records, ok := parse(block); ok {
			return records
		}
	}

	if records, ok := parse(strings.TrimSpace(raw)); ok {
		return records
	}

	return []map[string]any{{
		"error": "parse_failed",
		"raw":   truncate(raw, diagnosticRawLimit),
	}}
}

// fencedBlock returns the text between the first ```json marker and the next
// closing fence. An unterminated fence runs to the end of the input.
func fencedBlock(raw string) (string, bool) {
	_, after, found := strings.Cut(raw, fenceOpen)
	if !found {
		return "", false
	}
	block, _, _ := strings.Cut(after, fenceClose)
	return strings.TrimSpace(block), true
}

// parse decodes text as JSON and shapes the value into record maps. The
// second return is false only when decoding itself fails.
func parse(text string) ([]map[string]any, bool) {
	if text == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}

	switch val := v.(type) {
	case []any:
		records := make([]map[string]any, 0, len(val))
		for _, elem := range val {
			if m, ok := elem.(map[string]any); ok {
				records = append(records, m)
				continue
			}
			records = append(records, map[string]any{"raw_output": elem})
		}
		return records, true
	case map[string]any:
		return []map[string]any{val}, true
	default:
		return []map[string]any{{"raw_output": val}}, true
	}
}

// truncate limits s to n runes, appending an ellipsis when it was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
