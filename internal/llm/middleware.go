package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, caching, logging, transcript hooks).
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate limiting --------

// RateLimit limits request rate with a token bucket. If rps <= 0, the
// limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

// RateLimitFromEnv reads RPS/BURST from environment variables with the given
// prefixes in priority order. For example, ("LLM","OPENAI") checks
// LLM_RPS/LLM_BURST first, then OPENAI_RPS/OPENAI_BURST.
func RateLimitFromEnv(prefixes ...string) Middleware {
	find := func(suffix string) string {
		for _, p := range prefixes {
			if p == "" {
				continue
			}
			if v := os.Getenv(p + suffix); v != "" {
				return v
			}
		}
		return ""
	}
	rps, _ := strconv.ParseFloat(find("_RPS"), 64)
	burst, _ := strconv.Atoi(find("_BURST"))
	return RateLimit(rps, burst)
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return c.next.Complete(ctx, prompt)
}

// -------- Completion cache --------

// Cache memoizes completions in an LRU keyed by prompt hash. Identical
// summarize/map prompts across reruns hit the cache instead of the provider.
// Errors are never cached.
func Cache(size int) Middleware {
	if size <= 0 {
		size = 1024
	}
	return func(next Client) Client {
		c, err := lru.New[string, string](size)
		if err != nil {
			// Only reachable with size <= 0, which is normalized above.
			return next
		}
		return &cached{next: next, lru: c}
	}
}

type cached struct {
	next Client
	lru  *lru.Cache[string, string]
}

func (c *cached) Name() string { return c.next.Name() }
func (c *cached) Close() error { return c.next.Close() }
func (c *cached) Complete(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}
	out, err := c.next.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.lru.Add(key, out)
	return out, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// -------- Logging & hooks --------

// WithLogging logs request size and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) Complete(ctx context.Context, prompt string) (string, error) {
	l.log.Printf("LLM request (%s): %d bytes", PhaseFrom(ctx), len(prompt))
	out, err := l.next.Complete(ctx, prompt)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", PhaseFrom(ctx), err)
	}
	return out, err
}

// WithHook calls hook.Before/After around every completion.
func WithHook(hook PromptHook) Middleware {
	return func(next Client) Client {
		return &hooked{next: next, hook: hook}
	}
}

type hooked struct {
	next Client
	hook PromptHook
}

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }
func (h *hooked) Complete(ctx context.Context, prompt string) (string, error) {
	phase := PhaseFrom(ctx)
	if h.hook != nil {
		h.hook.Before(ctx, phase, prompt)
	}
	out, err := h.next.Complete(ctx, prompt)
	if h.hook != nil {
		h.hook.After(ctx, phase, out, err)
	}
	return out, err
}
