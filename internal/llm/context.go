package llm

import "context"

type ctxKeyPhase struct{}

// WithPhase tags the context with a pipeline phase label (e.g.
// "task_3/summarize_old"). Middleware uses it for logging and transcripts.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase label stored in the context.
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// PromptHook observes every completion call. Before runs with the outbound
// prompt; After runs with the raw response or the error.
type PromptHook interface {
	Before(ctx context.Context, phase, prompt string)
	After(ctx context.Context, phase, response string, err error)
}
