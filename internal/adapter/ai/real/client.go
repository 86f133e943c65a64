// Package real implements the chat and embeddings ports against live
// OpenAI-compatible HTTP APIs.
package real

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/interview-coach/internal/config"
	"github.com/fairyhunter13/interview-coach/internal/domain"
)

// Client implements domain.ChatModel and domain.Embedder over HTTP.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
}

// New constructs a client with per-provider timeouts from cfg.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: cfg.ChatTimeout},
		embedHC: &http.Client{Timeout: cfg.EmbeddingsTimeout},
	}
}

func (c *Client) newBackoff(ctx domain.Context) backoff.BackOff {
	maxAttempts, initial, multiplier := c.cfg.AIRetryPolicy()
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = initial
	expo.Multiplier = multiplier
	expo.RandomizationFactor = 0
	expo.MaxElapsedTime = 0
	var bo backoff.BackOff = expo
	if maxAttempts > 0 {
		bo = backoff.WithMaxRetries(expo, uint64(maxAttempts-1))
	}
	return backoff.WithContext(bo, ctx)
}

// Complete calls the chat completions endpoint and returns the first choice's
// message content. Only 429 responses are retried; other non-2xx statuses
// fail immediately.
func (c *Client) Complete(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	if c.cfg.ChatAPIKey == "" {
		return "", fmt.Errorf("%w: chat api key not configured", domain.ErrPrecondition)
	}
	body := map[string]any{
		"model": c.cfg.ChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	b, _ := json.Marshal(body)

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	rateLimited := false
	op := func() error {
		start := time.Now()
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ChatBaseURL+"/chat/completions", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Authorization", "Bearer "+c.cfg.ChatAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.chatHC.Do(r)
		observability.AIRequestsTotal.WithLabelValues("chat", "complete").Inc()
		observability.AIRequestDuration.WithLabelValues("chat", "complete").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests {
			rateLimited = true
			slog.Warn("chat provider rate limited",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.ChatModel))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		rateLimited = false
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Error("chat provider non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.ChatModel),
				slog.String("body", readSnippet(resp.Body, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode chat response: %w", err))
		}
		return nil
	}
	if err := backoff.Retry(op, c.newBackoff(ctx)); err != nil {
		if rateLimited {
			return "", fmt.Errorf("%w: %v", domain.ErrUpstreamRateLimit, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices from chat provider", domain.ErrUpstreamFailure)
	}
	return out.Choices[0].Message.Content, nil
}

// Embed calls the embeddings endpoint with all texts in one batch. The same
// retry policy as Complete applies.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.EmbeddingsAPIKey == "" {
		return nil, fmt.Errorf("%w: embeddings api key not configured", domain.ErrPrecondition)
	}
	if len(texts) == 0 {
		return nil, nil
	}
	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	}
	b, _ := json.Marshal(body)

	var out struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	rateLimited := false
	op := func() error {
		start := time.Now()
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EmbeddingsBaseURL+"/embeddings", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Authorization", "Bearer "+c.cfg.EmbeddingsAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.embedHC.Do(r)
		observability.AIRequestsTotal.WithLabelValues("embeddings", "embed").Inc()
		observability.AIRequestDuration.WithLabelValues("embeddings", "embed").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests {
			rateLimited = true
			slog.Warn("embeddings provider rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}
		rateLimited = false
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Error("embeddings provider non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("body", readSnippet(resp.Body, 512)))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode embeddings response: %w", err))
		}
		return nil
	}
	if err := backoff.Retry(op, c.newBackoff(ctx)); err != nil {
		if rateLimited {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamRateLimit, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: %d embeddings for %d inputs", domain.ErrUpstreamFailure, len(out.Data), len(texts))
	}
	vecs := make([][]float32, len(texts))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", domain.ErrUpstreamFailure, d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", domain.ErrUpstreamFailure, i)
		}
	}
	return vecs, nil
}

// readSnippet reads at most n bytes for log output.
func readSnippet(r io.Reader, n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	b, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return string(b)
}

var (
	_ domain.ChatModel = (*Client)(nil)
	_ domain.Embedder  = (*Client)(nil)
)
