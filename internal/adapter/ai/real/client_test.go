package real_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-coach/internal/adapter/ai/real"
	"github.com/fairyhunter13/interview-coach/internal/config"
	"github.com/fairyhunter13/interview-coach/internal/domain"
)

func testConfig(chatURL, embedURL string) config.Config {
	return config.Config{
		AppEnv:                 "test",
		ChatAPIKey:             "chat-key",
		ChatBaseURL:            chatURL,
		ChatModel:              "mistral-small-latest",
		ChatTimeout:            5 * time.Second,
		EmbeddingsAPIKey:       "embed-key",
		EmbeddingsBaseURL:      embedURL,
		EmbeddingsModel:        "text-embedding-3-small",
		EmbeddingsTimeout:      5 * time.Second,
		AIRetryMaxAttempts:     3,
		AIRetryInitialInterval: time.Millisecond,
		AIRetryMultiplier:      2.0,
	}
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestCompleteSuccess(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer chat-key", r.Header.Get("Authorization"))
		var body struct {
			Model       string              `json:"model"`
			Messages    []map[string]string `json:"messages"`
			MaxTokens   int                 `json:"max_tokens"`
			Temperature float64             `json:"temperature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mistral-small-latest", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0]["role"])
		assert.Equal(t, "user", body.Messages[1]["role"])
		assert.Equal(t, 350, body.MaxTokens)
		assert.InDelta(t, 0.8, body.Temperature, 1e-9)
		_ = json.NewEncoder(w).Encode(chatResponse("Tell me about indexes."))
	}))
	defer srv.Close()

	c := real.New(testConfig(srv.URL, srv.URL))
	got, err := c.Complete(context.Background(), "sys", "user", 350, 0.8)
	require.NoError(t, err)
	assert.Equal(t, "Tell me about indexes.", got)
}

func TestCompleteRetriesOn429(t *testing.T) {
	t.Parallel()
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer srv.Close()

	c := real.New(testConfig(srv.URL, srv.URL))
	got, err := c.Complete(context.Background(), "sys", "user", 100, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
}

func TestCompleteRateLimitExhaustion(t *testing.T) {
	t.Parallel()
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := real.New(testConfig(srv.URL, srv.URL))
	_, err := c.Complete(context.Background(), "sys", "user", 100, 0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamRateLimit)
	assert.Equal(t, 3, attempts)
}

func TestCompleteNoRetryOn4xx(t *testing.T) {
	t.Parallel()
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := real.New(testConfig(srv.URL, srv.URL))
	_, err := c.Complete(context.Background(), "sys", "user", 100, 0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Equal(t, 1, attempts)
}

func TestCompleteNoRetryOn500(t *testing.T) {
	t.Parallel()
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := real.New(testConfig(srv.URL, srv.URL))
	_, err := c.Complete(context.Background(), "sys", "user", 100, 0.5)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestCompleteMissingKey(t *testing.T) {
	t.Parallel()
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.ChatAPIKey = ""
	c := real.New(cfg)
	_, err := c.Complete(context.Background(), "sys", "user", 100, 0.5)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestEmbedBatchPreservesOrder(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer embed-key", r.Header.Get("Authorization"))
		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Input, 2)
		// provider may return data out of order; Index ties it back
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float32{0, 1}},
				{"index": 0, "embedding": []float32{1, 0}},
			},
		})
	}))
	defer srv.Close()

	c := real.New(testConfig(srv.URL, srv.URL))
	vecs, err := c.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0}, vecs[0])
	assert.Equal(t, []float32{0, 1}, vecs[1])
}

func TestEmbedEmptyInput(t *testing.T) {
	t.Parallel()
	c := real.New(testConfig("http://127.0.0.1:1", "http://127.0.0.1:1"))
	vecs, err := c.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedCountMismatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float32{1}}},
		})
	}))
	defer srv.Close()

	c := real.New(testConfig(srv.URL, srv.URL))
	_, err := c.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}
