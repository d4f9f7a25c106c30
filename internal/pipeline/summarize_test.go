package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"naturaledit/internal/summary"
)

func TestSummarize_FixedShapeNormalization(t *testing.T) {
	cli := &scriptedLLM{fn: func(string) (string, error) {
		// Model omits most keys and returns a non-string for one of them.
		return `{"title":"Scraper","low_unstructured":"Scrapes pages.","medium_structured":42}`, nil
	}}
	s := &Summarizer{LLM: cli}

	rec, err := s.Summarize(context.Background(), summary.CodeFragment{Code: "x = 1"})
	require.NoError(t, err)
	require.Equal(t, "Scraper", rec.Title)
	require.Equal(t, "Scrapes pages.", rec.LowUnstructured)
	require.Equal(t, "", rec.LowStructured)
	require.Equal(t, "", rec.MediumUnstructured)
	require.Equal(t, "", rec.MediumStructured)
	require.Equal(t, "", rec.HighUnstructured)
	require.Equal(t, "", rec.HighStructured)
}

func TestSummarize_PromptContent(t *testing.T) {
	cli := &scriptedLLM{fn: func(string) (string, error) { return `{}`, nil }}
	s := &Summarizer{LLM: cli}

	frag := summary.CodeFragment{Code: "def rank():\n    pass", FileContext: "model.py surroundings"}
	_, err := s.Summarize(context.Background(), frag)
	require.NoError(t, err)

	prompts := cli.seen()
	require.Len(t, prompts, 1)
	p := prompts[0]
	require.Contains(t, p, "generate 6 summaries")
	require.Contains(t, p, "low_unstructured: One-sentence")
	require.Contains(t, p, "high_structured: 4-8 bullet points")
	require.Contains(t, p, `indent the second-level bullet with 2 spaces before the "◦"`)
	require.Contains(t, p, "model.py surroundings")
	require.Contains(t, p, "def rank():")
}

func TestSummarizeWithReference_PromptContent(t *testing.T) {
	cli := &scriptedLLM{fn: func(string) (string, error) { return `{}`, nil }}
	s := &Summarizer{LLM: cli}

	oldSum := summary.Record{Title: "old title", LowUnstructured: "Old summary sentence."}
	_, err := s.SummarizeWithReference(context.Background(),
		summary.CodeFragment{Code: "new body"},
		summary.CodeFragment{Code: "old body"},
		oldSum)
	require.NoError(t, err)

	p := cli.seen()[0]
	require.Contains(t, p, "MODIFIED code")
	require.Contains(t, p, "old body")
	require.Contains(t, p, "new body")
	// Old summary is embedded verbatim as JSON.
	require.Contains(t, p, `"title": "old title"`)
	require.Contains(t, p, `"low_unstructured": "Old summary sentence."`)
	// The minimal-diff contract forbids change-log phrasing.
	require.Contains(t, p, "seamlessly integrate the changes")
}

func TestSummarize_ParseErrorPropagates(t *testing.T) {
	cli := &scriptedLLM{fn: func(string) (string, error) { return "not json", nil }}
	s := &Summarizer{LLM: cli}
	_, err := s.Summarize(context.Background(), summary.CodeFragment{Code: "x"})
	require.Error(t, err)
}

func TestSummarize_FencedResponse(t *testing.T) {
	cli := &scriptedLLM{fn: func(string) (string, error) {
		return "```json\n{\"title\":\"T\"}\n```", nil
	}}
	s := &Summarizer{LLM: cli}
	rec, err := s.Summarize(context.Background(), summary.CodeFragment{Code: "x"})
	require.NoError(t, err)
	require.Equal(t, "T", rec.Title)
}
