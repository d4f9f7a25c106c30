package pipeline

import (
	"context"
	"strings"
	"sync"
)

// scriptedLLM routes each prompt through fn and records every prompt it saw.
// Safe for concurrent use; mapping fan-out hits it from several goroutines.
type scriptedLLM struct {
	mu      sync.Mutex
	fn      func(prompt string) (string, error)
	prompts []string
}

func (f *scriptedLLM) Name() string { return "scripted" }
func (f *scriptedLLM) Close() error { return nil }

func (f *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.fn(prompt)
}

func (f *scriptedLLM) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func isMappingPrompt(prompt string) bool {
	return strings.Contains(prompt, "code-to-summary mapping")
}
