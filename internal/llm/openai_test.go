package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAI_MissingCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cli := NewOpenAIClient(nil, "")
	_, err := cli.Complete(context.Background(), "hello")
	var aerr *AuthenticationError
	require.True(t, errors.As(err, &aerr))
}

func TestOpenAI_Complete(t *testing.T) {
	var gotReq openaiChatReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"model text"}}]}`))
	}))
	defer srv.Close()

	cli := NewOpenAIClient(StaticCredential("test-key"), "gpt-4.1")
	cli.baseURL = srv.URL

	out, err := cli.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	require.Equal(t, "model text", out)

	require.Equal(t, "gpt-4.1", gotReq.Model)
	require.Equal(t, DefaultTemperature, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 2)
	require.Equal(t, "system", gotReq.Messages[0].Role)
	require.Equal(t, SystemRole, gotReq.Messages[0].Content)
	require.Equal(t, "user", gotReq.Messages[1].Role)
	require.Equal(t, "the prompt", gotReq.Messages[1].Content)
}

func TestOpenAI_ServiceErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cli := NewOpenAIClient(StaticCredential("k"), "")
	cli.baseURL = srv.URL

	_, err := cli.Complete(context.Background(), "p")
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	require.Contains(t, perr.Error(), "429")
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	cli := NewOpenAIClient(StaticCredential("k"), "")
	cli.baseURL = srv.URL

	_, err := cli.Complete(context.Background(), "p")
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
}

func TestEnvCredential(t *testing.T) {
	t.Setenv("SOME_KEY", "  secret  ")
	v, err := EnvCredential{Var: "SOME_KEY", Provider: "test"}.Resolve()
	require.NoError(t, err)
	require.Equal(t, "secret", v)

	t.Setenv("SOME_KEY", "")
	_, err = EnvCredential{Var: "SOME_KEY", Provider: "test"}.Resolve()
	var aerr *AuthenticationError
	require.True(t, errors.As(err, &aerr))
	require.Contains(t, aerr.Error(), "test")
}
