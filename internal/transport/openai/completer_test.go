package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/domain"
	"github.com/kailas-cloud/riskdesk/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterGenerationMetrics()
	os.Exit(m.Run())
}

// chatRequest mirrors the fields of the chat completion request the tests inspect.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature    float32 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func chatResponse(text string, prompt, completion int) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "test-model",
		"choices": []map[string]any{{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": text}}},
		"usage":   map[string]any{"prompt_tokens": prompt, "completion_tokens": completion, "total_tokens": prompt + completion},
	}
}

func newTestCompleter(url string) *Completer {
	return NewCompleter(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestCompleter_Complete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse(`{"summary":"ok"}`, 30, 12)) //nolint:errcheck
	}))
	defer server.Close()

	res, err := newTestCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{
		System:    "instruction",
		Prompt:    `USER QUERY: "high risk"`,
		MaxTokens: 512,
		JSON:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"summary":"ok"}`, res.Text)
	assert.Equal(t, 30, res.PromptTokens)
	assert.Equal(t, 12, res.CompletionTokens)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "instruction", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Greater(t, got.Temperature, float32(0), "zero temperature is sent as a tiny positive value")
	assert.Less(t, got.Temperature, float32(1e-6))
}

func TestCompleter_PlainTextNoSystem(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("## Explanation", 1, 1)) //nolint:errcheck
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{
		Prompt:      "p",
		Temperature: 0.3,
	})
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1, "only the user message")
	assert.Nil(t, got.ResponseFormat, "plain text request must not set a response format")
	assert.InDelta(t, 0.3, got.Temperature, 0.01)
}

func TestCompleter_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"tokens"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})
	require.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.ErrorContains(t, err, "429")
	assert.ErrorContains(t, err, "Rate limit reached")
}

func TestCompleter_DetailError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"upstream model unavailable"}`)) //nolint:errcheck
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestCompleter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}}) //nolint:errcheck
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestCompleter_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}}) //nolint:errcheck
	}))
	defer server.Close()

	assert.NoError(t, newTestCompleter(server.URL).HealthCheck(context.Background()))
}

func TestCompleter_HealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	assert.Error(t, newTestCompleter(server.URL).HealthCheck(context.Background()))
}
