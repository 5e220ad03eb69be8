package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(url string) *OllamaProvider {
	cfg := OllamaEndpointConfig{BaseURL: url, Model: "test-model"}
	return NewOllamaProvider(cfg, cfg)
}

func TestEmbedBatchSendsModelAndInputs(t *testing.T) {
	var got struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer srv.Close()

	vectors, err := newTestProvider(srv.URL).EmbedBatch(context.Background(), []string{"one", "two"})

	require.NoError(t, err)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, []string{"one", "two"}, got.Input)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
}

func TestEmbedBatchRejectsCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1}},
		})
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).EmbedBatch(context.Background(), []string{"one", "two"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 embeddings for 2 inputs")
}

func TestChatBuildsContextBlock(t *testing.T) {
	var got struct {
		Stream   bool `json:"stream"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "the answer"},
		})
	}))
	defer srv.Close()

	answer, err := newTestProvider(srv.URL).Chat(context.Background(),
		"system prompt", "the question", []string{"chunk one", "chunk two"})

	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system prompt", got.Messages[0].Content)
	assert.Equal(t, "Context:\nchunk one\n\nchunk two\n\nQuestion:\nthe question", got.Messages[1].Content)
}

func TestChatWithoutContextSendsBareQuestion(t *testing.T) {
	var got struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": "ok"},
		})
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Chat(context.Background(), "", "just a question", nil)

	require.NoError(t, err)
	require.Len(t, got.Messages, 1, "no system message when the prompt is empty")
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "just a question", got.Messages[0].Content)
}

func TestChatSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Chat(context.Background(), "", "q", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestHealthyChecksBothEndpoints(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	ok := OllamaEndpointConfig{BaseURL: up.URL, Model: "m"}
	bad := OllamaEndpointConfig{BaseURL: down.URL, Model: "m"}

	assert.True(t, NewOllamaProvider(ok, ok).Healthy(context.Background()))
	assert.False(t, NewOllamaProvider(ok, bad).Healthy(context.Background()))
	assert.False(t, NewOllamaProvider(bad, ok).Healthy(context.Background()))
}

func TestAuthorizationHeaderForwarded(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{0.1}}})
	}))
	defer srv.Close()

	cfg := OllamaEndpointConfig{BaseURL: srv.URL, Model: "m", Token: "secret"}
	_, err := NewOllamaProvider(cfg, cfg).Embed(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}
