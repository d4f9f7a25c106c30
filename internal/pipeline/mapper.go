package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"naturaledit/internal/llm"
	"naturaledit/internal/summary"
	"naturaledit/internal/util/jsonutil"
)

// Mapper extracts ordered (summary component -> code segments)
// correspondences for one summary level of one code fragment.
type Mapper struct {
	LLM llm.Client
	Log *log.Logger
}

// Map builds the extraction prompt over a line-numbered rendering of the
// fragment and validates the response. Entries whose summaryComponent is not
// a verbatim substring of summaryText are dropped with a log line; a non-array
// response yields an empty sequence. Surviving entries keep their original
// order.
func (m *Mapper) Map(ctx context.Context, frag summary.CodeFragment, summaryText string) ([]summary.MappingEntry, error) {
	prompt := render(mappingTmpl, mappingParams{
		NumberedCode: numberLines(frag),
		SummaryText:  summaryText,
	})
	raw, err := m.LLM.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := jsonutil.Parse(raw)
	if err != nil {
		return nil, err
	}

	arr, ok := parsed.([]any)
	if !ok {
		return []summary.MappingEntry{}, nil
	}

	filtered := make([]summary.MappingEntry, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			m.logf("mapper: dropping non-object entry: %v", item)
			continue
		}
		var entry summary.MappingEntry
		if comp, ok := obj["summaryComponent"].(string); ok {
			if !strings.Contains(summaryText, comp) {
				m.logf("mapper: summaryComponent not found in summary: %s", comp)
				continue
			}
			entry.SummaryComponent = comp
		}
		entry.CodeSegments = coerceSegments(obj["codeSegments"])
		filtered = append(filtered, entry)
	}
	return filtered, nil
}

// numberLines renders the fragment with each physical line prefixed by its
// absolute line number, starting at the fragment's configured start line.
func numberLines(frag summary.CodeFragment) string {
	lines := strings.Split(frag.Code, "\n")
	start := frag.Start()
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", start+i, line)
	}
	return b.String()
}

// coerceSegments converts the raw codeSegments value into a segment slice.
// Any non-array value becomes an empty slice; the field is never absent.
func coerceSegments(v any) []summary.CodeSegment {
	raw, ok := v.([]any)
	if !ok {
		return []summary.CodeSegment{}
	}
	segs := make([]summary.CodeSegment, 0, len(raw))
	for _, s := range raw {
		obj, ok := s.(map[string]any)
		if !ok {
			continue
		}
		code, _ := obj["code"].(string)
		line, _ := obj["line"].(float64)
		segs = append(segs, summary.CodeSegment{Code: code, Line: int(line)})
	}
	return segs
}

func (m *Mapper) logf(format string, args ...any) {
	if m.Log != nil {
		m.Log.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
