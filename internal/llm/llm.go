package llm

import "context"

// Client issues a single text-completion request and returns the raw model
// text. Implementations make exactly one attempt per call; retry/backoff is
// deliberately not provided at this boundary.
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// SystemRole is sent as the system message on every completion request.
const SystemRole = "You are a helpful programming assistant."

// DefaultTemperature is the sampling temperature for all pipeline calls.
const DefaultTemperature float32 = 0.3
