package llm

import (
	"os"
	"strings"
)

// CredentialSource resolves the API secret for a completion backend. It is
// injected into clients so tests can run without process environment.
type CredentialSource interface {
	Resolve() (string, error)
}

// EnvCredential reads the secret from a process environment variable.
// Resolution happens on every call; the value is never cached.
type EnvCredential struct {
	Var      string // environment variable name, e.g. OPENAI_API_KEY
	Provider string // provider label used in error messages
}

func (c EnvCredential) Resolve() (string, error) {
	if v := strings.TrimSpace(os.Getenv(c.Var)); v != "" {
		return v, nil
	}
	return "", &AuthenticationError{Provider: c.Provider}
}

// StaticCredential returns a fixed secret. Used by tests and by callers that
// already hold the key (e.g. read from a flag).
type StaticCredential string

func (c StaticCredential) Resolve() (string, error) {
	if c == "" {
		return "", &AuthenticationError{Provider: "static"}
	}
	return string(c), nil
}
