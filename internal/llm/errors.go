package llm

import "fmt"

// AuthenticationError means no API credential could be resolved. It is fatal
// for the call that triggered it and is never retried.
type AuthenticationError struct {
	Provider string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("llm: no credential resolvable for %s", e.Provider)
}

// ProviderError wraps any transport or service failure from the completion
// backend. The underlying error is opaque to callers.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm: %s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
