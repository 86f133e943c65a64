// Package stub provides deterministic in-process stand-ins for the chat,
// embeddings, and classifier ports. The server falls back to these when no
// provider keys are configured, which keeps local development and tests
// offline.
package stub

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/pkg/vecx"
)

const embeddingDim = 64

// Client implements the AI ports with deterministic behavior.
type Client struct{}

// New constructs a stub client.
func New() *Client { return &Client{} }

// Complete returns a canned coaching reply derived from the prompts.
func (c *Client) Complete(_ domain.Context, systemPrompt, userPrompt string, _ int, _ float64) (string, error) {
	if strings.Contains(systemPrompt, "ask the candidate one new interview question") {
		return "Can you walk me through a recent problem you solved with this skill?", nil
	}
	words := len(strings.Fields(userPrompt))
	return fmt.Sprintf("Good answer (%d words). Try to add a concrete example next time. What result did it produce?", words), nil
}

// Embed returns unit vectors derived from token hashes. Texts sharing words
// land near each other, so retrieval and semantic matching stay exercisable.
func (c *Client) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, embeddingDim)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(w))
			v[h.Sum32()%embeddingDim]++
		}
		vecx.Normalize(v)
		if vecx.Norm(v) == 0 {
			v[0] = 1
		}
		out[i] = v
	}
	return out, nil
}

// hrKeywords marks obviously behavioral skills; everything else is technical.
var hrKeywords = []string{
	"communication", "teamwork", "leadership", "management",
	"adaptability", "thinking", "problem solving",
}

// Classify labels each text with the first label when it looks behavioral and
// the second otherwise.
func (c *Client) Classify(_ domain.Context, texts []string, labels []string) ([]domain.Classification, error) {
	if len(labels) < 2 {
		return nil, fmt.Errorf("%w: need at least two candidate labels", domain.ErrInvalidArgument)
	}
	out := make([]domain.Classification, len(texts))
	for i, t := range texts {
		label := labels[1]
		lower := strings.ToLower(t)
		for _, kw := range hrKeywords {
			if strings.Contains(lower, kw) {
				label = labels[0]
				break
			}
		}
		out[i] = domain.Classification{Text: t, Label: label, Score: 0.75}
	}
	return out, nil
}

var (
	_ domain.ChatModel  = (*Client)(nil)
	_ domain.Embedder   = (*Client)(nil)
	_ domain.Classifier = (*Client)(nil)
)
