package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedResponseError means a model response could not be parsed as JSON
// even after fence stripping. Raw preserves the cleaned text for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("jsonutil: failed to parse LLM response as JSON: %s", e.Raw)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// StripFences removes code-fence delimiter lines (``` or ```lang) that models
// sometimes wrap around structured output, then trims surrounding whitespace.
func StripFences(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Parse decodes a model response into a generic JSON value. The raw text is
// tried first; only on failure are fences stripped and the parse retried.
// Both attempts failing yields a MalformedResponseError.
func Parse(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, nil
	}
	cleaned := StripFences(text)
	var v2 any
	if err := json.Unmarshal([]byte(cleaned), &v2); err != nil {
		return nil, &MalformedResponseError{Raw: cleaned, Err: err}
	}
	return v2, nil
}

// Unmarshal decodes a model response into v with the same raw-first,
// fence-stripped-second policy as Parse.
func Unmarshal(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	cleaned := StripFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &MalformedResponseError{Raw: cleaned, Err: err}
	}
	return nil
}
