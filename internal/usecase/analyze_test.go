package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/internal/extract"
	"github.com/fairyhunter13/interview-coach/internal/match"
	"github.com/fairyhunter13/interview-coach/internal/skills"
	"github.com/fairyhunter13/interview-coach/internal/usecase"
)

// passthroughExtractor treats every upload as plain text.
type passthroughExtractor struct{}

func (passthroughExtractor) Extract(_ domain.Context, _ string, data []byte) (string, error) {
	return strings.TrimSpace(string(data)), nil
}

// axisEmbedder maps unknown texts onto a far-off axis so only exact and fuzzy
// matching fire in these tests.
type axisEmbedder struct{}

func (axisEmbedder) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0, 0, 0, 1}
	}
	return out, nil
}

type technicalClassifier struct{}

func (technicalClassifier) Classify(_ domain.Context, texts []string, labels []string) ([]domain.Classification, error) {
	out := make([]domain.Classification, len(texts))
	for i, txt := range texts {
		label := labels[1]
		if strings.Contains(strings.ToLower(txt), "communication") {
			label = labels[0]
		}
		out[i] = domain.Classification{Text: txt, Label: label, Score: 0.9}
	}
	return out, nil
}

func newAnalyzeService(t *testing.T) *usecase.AnalyzeService {
	t.Helper()
	catalog := []string{"Python", "Kubernetes", "SQL", "Communication"}
	// threshold above 1 keeps the semantic tier inert under the flat embedder
	matcher := match.New(axisEmbedder{}, catalog, match.WithSemanticThreshold(2))
	return usecase.NewAnalyzeService(
		passthroughExtractor{},
		extract.NewGenerator(),
		matcher,
		skills.NewCategorizer(technicalClassifier{}),
		usecase.NewSessionStore(),
	)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	t.Parallel()
	svc := newAnalyzeService(t)

	jd := []byte("We need Python and Kubernetes plus SQL and strong Communication.")
	resume := []byte("Seasoned Python engineer with SQL background.")

	sess, err := svc.Analyze(context.Background(), "jd.txt", jd, "resume.txt", resume)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.ID)

	assert.True(t, sess.JDSkills.Has("Python"))
	assert.True(t, sess.JDSkills.Has("Kubernetes"))
	assert.True(t, sess.ResumeSkills.Has("Python"))
	assert.False(t, sess.ResumeSkills.Has("Kubernetes"))

	assert.True(t, sess.Diff.Present.Has("Python"))
	assert.True(t, sess.Diff.Missing.Has("Kubernetes"))
	assert.True(t, sess.Categories.Technical.Has("Kubernetes"))
	assert.True(t, sess.Categories.HR.Has("Communication"))

	// session is retrievable afterwards
	got, err := svc.Sessions.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestAnalyzeEmptyUpload(t *testing.T) {
	t.Parallel()
	svc := newAnalyzeService(t)
	_, err := svc.Analyze(context.Background(), "jd.txt", nil, "resume.txt", []byte("Python"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAnalyzeNoExtractableText(t *testing.T) {
	t.Parallel()
	svc := newAnalyzeService(t)
	_, err := svc.Analyze(context.Background(), "jd.txt", []byte("   "), "resume.txt", []byte("Python"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSessionStoreNotFound(t *testing.T) {
	t.Parallel()
	store := usecase.NewSessionStore()
	_, err := store.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
