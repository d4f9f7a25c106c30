package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAIClient calls the OpenAI Chat Completions API.
// See: https://platform.openai.com/docs/api-reference/chat
type OpenAIClient struct {
	http    *http.Client
	creds   CredentialSource
	model   string
	baseURL string
}

// NewOpenAIClient creates an OpenAI client. The credential is resolved per
// call, not at construction, so a missing key surfaces on first use.
func NewOpenAIClient(creds CredentialSource, model string) *OpenAIClient {
	if creds == nil {
		creds = EnvCredential{Var: "OPENAI_API_KEY", Provider: "openai"}
	}
	if model == "" {
		model = "gpt-4.1"
	}
	return &OpenAIClient{
		http:    &http.Client{Timeout: 120 * time.Second},
		creds:   creds,
		model:   model,
		baseURL: "https://api.openai.com/v1/chat/completions",
	}
}

func (c *OpenAIClient) Name() string { return "OpenAI:" + c.model }
func (c *OpenAIClient) Close() error { return nil }

type openaiChatReq struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
}
type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type openaiChatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message under the fixed system
// role and returns the model text verbatim. One attempt, no retry.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	key, err := c.creds.Resolve()
	if err != nil {
		return "", err
	}

	reqBody := openaiChatReq{
		Model: c.model,
		Messages: []openaiMessage{
			{Role: "system", Content: SystemRole},
			{Role: "user", Content: prompt},
		},
		Temperature: DefaultTemperature,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return "", &ProviderError{Provider: "openai", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: "openai", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		return "", &ProviderError{
			Provider: "openai",
			Err:      fmt.Errorf("unexpected status %s: %s", resp.Status, string(body)),
		}
	}
	var out openaiChatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ProviderError{Provider: "openai", Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Err: fmt.Errorf("empty choices")}
	}
	return out.Choices[0].Message.Content, nil
}
