package llm

import (
	"context"
	"strings"
)

// FakeClient returns deterministic, minimal payloads for offline runs and
// tests. It inspects the prompt to decide whether a summary record or a
// mapping array is expected.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "code-to-summary mapping") {
		return `[]`, nil
	}
	return `{
  "title": "fake title",
  "low_unstructured": "fake one-sentence summary.",
  "low_structured": "• fake bullet\n• another fake bullet",
  "medium_unstructured": "fake medium summary. second sentence.",
  "medium_structured": "• fake bullet\n  ◦ fake sub-bullet\n• another fake bullet",
  "high_unstructured": "fake high summary. second sentence. third sentence.",
  "high_structured": "• fake bullet\n  ◦ fake sub-bullet\n• another fake bullet\n• third fake bullet"
}`, nil
}
