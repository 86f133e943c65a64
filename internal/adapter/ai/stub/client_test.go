package stub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-coach/internal/adapter/ai/stub"
	"github.com/fairyhunter13/interview-coach/pkg/vecx"
)

func TestEmbedDeterministicUnitVectors(t *testing.T) {
	t.Parallel()
	c := stub.New()

	a, err := c.Embed(context.Background(), []string{"pivot tables", "pivot tables", "kubernetes"})
	require.NoError(t, err)
	require.Len(t, a, 3)
	assert.Equal(t, a[0], a[1])
	assert.NotEqual(t, a[0], a[2])
	assert.InDelta(t, 1.0, vecx.Norm(a[0]), 1e-6)
}

func TestEmbedSharedWordsAreCloser(t *testing.T) {
	t.Parallel()
	c := stub.New()
	vecs, err := c.Embed(context.Background(), []string{
		"pivot tables in excel",
		"excel pivot tables",
		"container orchestration",
	})
	require.NoError(t, err)
	assert.Greater(t, vecx.Cosine(vecs[0], vecs[1]), vecx.Cosine(vecs[0], vecs[2]))
}

func TestCompleteVariesByPromptKind(t *testing.T) {
	t.Parallel()
	c := stub.New()

	q, err := c.Complete(context.Background(), "coach: ask the candidate one new interview question", "input", 100, 0.5)
	require.NoError(t, err)
	assert.Contains(t, q, "?")

	f, err := c.Complete(context.Background(), "coach: give feedback", "my three word answer here", 100, 0.5)
	require.NoError(t, err)
	assert.Contains(t, f, "Good answer")
}

func TestClassifyKeywordSplit(t *testing.T) {
	t.Parallel()
	c := stub.New()
	got, err := c.Classify(context.Background(), []string{"Teamwork", "Python"}, []string{"HR", "Technical"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "HR", got[0].Label)
	assert.Equal(t, "Technical", got[1].Label)
}
