// Package json provides JSON extraction utilities for parsing model responses.
//
// Models often wrap structured output in markdown code fences or surround it
// with commentary despite being instructed not to. This package strips the
// fences and extracts the JSON payload from such responses.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fence prefixes in match order; the bare fence must come last so that
// language-tagged fences are recognized first.
var fencePrefixes = []string{"```json", "```svg", "```xml", "```"}

// StripFences removes markdown code-fence markers from a response.
// Handles ```json, ```svg, ```xml and bare ``` variants at both ends.
// The function is idempotent: stripping an already-stripped response
// returns it unchanged, and nested fences are removed in one call.
func StripFences(response string) string {
	trimmed := strings.TrimSpace(response)

	for {
		stripped := false
		for _, prefix := range fencePrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
				stripped = true
				break
			}
		}
		if strings.HasSuffix(trimmed, "```") {
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
			stripped = true
		}
		if !stripped {
			return trimmed
		}
	}
}

// extractJSON finds and returns the JSON portion of a response string.
// It handles common model response patterns:
// 1. Pure JSON response - returns the full response
// 2. JSON wrapped in markdown code fences
// 3. JSON object or array embedded in text - delimiter matching
//
// Limitations:
// - Uses simple delimiter matching, not full JSON parsing
// - May fail if delimiters appear in strings or are unbalanced
func extractJSON(response string) (string, error) {
	response = StripFences(response)

	// Try full response first
	var test interface{}
	if err := json.Unmarshal([]byte(response), &test); err == nil {
		return response, nil
	}

	// Try to find an embedded object or array
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(response, pair[0])
		if start == -1 {
			continue
		}
		end := strings.LastIndex(response, pair[1])
		if end == -1 || end <= start {
			continue
		}
		jsonStr := response[start : end+1]
		var test interface{}
		if err := json.Unmarshal([]byte(jsonStr), &test); err == nil {
			return jsonStr, nil
		}
	}

	// Create a preview for the error message
	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// ExtractJSONFromResponse extracts and parses JSON from a model response.
// Returns the parsed value or an error if extraction fails.
func ExtractJSONFromResponse[T any](response string) (T, error) {
	var result T
	jsonStr, err := extractJSON(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}
