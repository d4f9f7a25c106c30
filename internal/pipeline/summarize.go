package pipeline

import (
	"context"
	"encoding/json"

	"naturaledit/internal/llm"
	"naturaledit/internal/summary"
	"naturaledit/internal/util/jsonutil"
)

// Summarizer produces the fixed six-level summary record for a code fragment.
// Transport and parse failures propagate unchanged; the pair processor is the
// recovery boundary.
type Summarizer struct{ LLM llm.Client }

// Summarize asks for six independent summaries of the fragment and normalizes
// the response into a full Record.
func (s *Summarizer) Summarize(ctx context.Context, frag summary.CodeFragment) (summary.Record, error) {
	prompt := render(summarizeTmpl, summarizeParams{
		FileContext: frag.FileContext,
		Code:        frag.Code,
	})
	return s.complete(ctx, prompt)
}

// SummarizeWithReference asks for a summary of the modified fragment that is
// a minimal diff of the old one: spans unaffected by the code change are
// copied verbatim, and rewritten spans read as integrated prose or bullets
// rather than change-log annotations.
func (s *Summarizer) SummarizeWithReference(ctx context.Context, newFrag, oldFrag summary.CodeFragment, oldSummary summary.Record) (summary.Record, error) {
	oldJSON, _ := json.MarshalIndent(oldSummary, "", "  ")
	prompt := render(summarizeRefTmpl, summarizeRefParams{
		FileContext:    newFrag.FileContext,
		OriginalCode:   oldFrag.Code,
		NewCode:        newFrag.Code,
		OldSummaryJSON: string(oldJSON),
	})
	return s.complete(ctx, prompt)
}

func (s *Summarizer) complete(ctx context.Context, prompt string) (summary.Record, error) {
	raw, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		return summary.Record{}, err
	}
	parsed, err := jsonutil.Parse(raw)
	if err != nil {
		return summary.Record{}, err
	}
	return normalizeRecord(parsed), nil
}

// normalizeRecord reads the seven fixed keys with an empty-string default, so
// the Record invariant holds even when the model omits fields or returns
// non-string values.
func normalizeRecord(v any) summary.Record {
	obj, _ := v.(map[string]any)
	get := func(key string) string {
		s, _ := obj[key].(string)
		return s
	}
	return summary.Record{
		Title:              get("title"),
		LowUnstructured:    get(string(summary.LowUnstructured)),
		LowStructured:      get(string(summary.LowStructured)),
		MediumUnstructured: get(string(summary.MediumUnstructured)),
		MediumStructured:   get(string(summary.MediumStructured)),
		HighUnstructured:   get(string(summary.HighUnstructured)),
		HighStructured:     get(string(summary.HighStructured)),
	}
}
