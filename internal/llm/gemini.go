package llm

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient creates a Gemini-backed completion client. The credential is
// resolved up front because the genai SDK binds it at construction.
func NewGeminiClient(ctx context.Context, creds CredentialSource, model string) (*GeminiClient, error) {
	if creds == nil {
		creds = EnvCredential{Var: "GEMINI_API_KEY", Provider: "gemini"}
	}
	key, err := creds.Resolve()
	if err != nil {
		return nil, err
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// Complete sends the prompt as a single text part. One attempt, no retry.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	temp := DefaultTemperature
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemRole}}},
			Temperature:       &temp,
		},
	)
	if err != nil {
		return "", &ProviderError{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: "gemini", Err: fmt.Errorf("empty candidates")}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
