// Package zeroshot implements the classifier port against a HuggingFace
// inference endpoint running a zero-shot classification model.
package zeroshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/interview-coach/internal/config"
	"github.com/fairyhunter13/interview-coach/internal/domain"
)

// Client calls the hosted inference API for zero-shot classification.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a classifier client.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: 30 * time.Second}}
}

type result struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Classify labels every text with its best candidate label. The result slice
// is ordered like the input regardless of how the provider shapes its JSON:
// a single object for one input, an array for several.
func (c *Client) Classify(ctx domain.Context, texts []string, labels []string) ([]domain.Classification, error) {
	if c.cfg.ClassifierAPIKey == "" {
		return nil, fmt.Errorf("%w: classifier api key not configured", domain.ErrPrecondition)
	}
	if len(texts) == 0 {
		return nil, nil
	}
	body := map[string]any{
		"inputs": texts,
		"parameters": map[string]any{
			"candidate_labels": strings.Join(labels, ","),
		},
	}
	b, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/models/%s", c.cfg.ClassifierBaseURL, c.cfg.ClassifierModel)

	var raw []byte
	rateLimited := false
	op := func() error {
		start := time.Now()
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Authorization", "Bearer "+c.cfg.ClassifierAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.AIRequestsTotal.WithLabelValues("classifier", "classify").Inc()
		observability.AIRequestDuration.WithLabelValues("classifier", "classify").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests {
			rateLimited = true
			slog.Warn("classifier rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("classify status %d", resp.StatusCode)
		}
		rateLimited = false
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("classify status %d", resp.StatusCode))
		}
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return nil
	}
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
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if rateLimited {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamRateLimit, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	results, err := decodeResults(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("%w: %d results for %d inputs", domain.ErrUpstreamFailure, len(results), len(texts))
	}
	out := make([]domain.Classification, len(texts))
	for i, res := range results {
		if len(res.Labels) == 0 || len(res.Scores) == 0 {
			return nil, fmt.Errorf("%w: empty labels in classifier result %d", domain.ErrUpstreamFailure, i)
		}
		out[i] = domain.Classification{
			Text:  texts[i],
			Label: res.Labels[0],
			Score: res.Scores[0],
		}
	}
	return out, nil
}

// decodeResults accepts both response shapes.
func decodeResults(raw []byte) ([]result, error) {
	var many []result
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	var one result
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	return []result{one}, nil
}

var _ domain.Classifier = (*Client)(nil)
