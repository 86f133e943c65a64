package httpserver_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/interview-coach/internal/app"
	"github.com/fairyhunter13/interview-coach/internal/chat"
	"github.com/fairyhunter13/interview-coach/internal/config"
	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/internal/extract"
	"github.com/fairyhunter13/interview-coach/internal/match"
	"github.com/fairyhunter13/interview-coach/internal/registry"
	"github.com/fairyhunter13/interview-coach/internal/skills"
	"github.com/fairyhunter13/interview-coach/internal/usecase"
)

type plainExtractor struct{}

func (plainExtractor) Extract(_ domain.Context, _ string, data []byte) (string, error) {
	return strings.TrimSpace(string(data)), nil
}

type flatEmbedder struct{}

func (flatEmbedder) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type fixedModel struct{}

func (fixedModel) Complete(_ domain.Context, _, _ string, _ int, _ float64) (string, error) {
	return "Keep practicing. What else have you built?", nil
}

type fixedClassifier struct{}

func (fixedClassifier) Classify(_ domain.Context, texts []string, labels []string) ([]domain.Classification, error) {
	out := make([]domain.Classification, len(texts))
	for i, txt := range texts {
		out[i] = domain.Classification{Text: txt, Label: labels[1], Score: 0.9}
	}
	return out, nil
}

type wordCounter struct{}

func (wordCounter) CountTokens(text, _ string) (int, error) { return len(strings.Fields(text)), nil }

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	refsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(refsDir, "kubernetes.yaml"),
		[]byte("skill: Kubernetes\ntopics:\n  - Pods\n"), 0o600))

	cfg := config.Config{
		AppEnv:           "test",
		MaxUploadMB:      1,
		RateLimitPerMin:  1000,
		CORSAllowOrigins: "*",
	}
	catalog := []string{"Python", "Kubernetes", "SQL"}
	matcher := match.New(flatEmbedder{}, catalog, match.WithSemanticThreshold(2))
	store := usecase.NewSessionStore()
	analyze := usecase.NewAnalyzeService(plainExtractor{}, extract.NewGenerator(), matcher, skills.NewCategorizer(fixedClassifier{}), store)
	engine := chat.NewEngine(fixedModel{}, wordCounter{}, chat.Options{
		Model: "test", MaxTokens: 350, Temperature: 0.8,
		PromptTokenCap: 2000, RetrievalTopK: 3, RetrievalCutoff: 0.1,
	})
	coach := usecase.NewCoachService(engine, flatEmbedder{}, store, registry.New(), refsDir, nil)
	return app.BuildRouter(cfg, httpserver.NewServer(cfg, analyze, coach))
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".txt")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func analyzeSession(t *testing.T, h http.Handler) map[string]any {
	t.Helper()
	body, ctype := multipartBody(t, map[string]string{
		"jd":     "Looking for Python and Kubernetes experience.",
		"resume": "Python developer with SQL.",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func postJSON(h http.Handler, path string, payload any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Parallel()
	h := testHandler(t)
	out := analyzeSession(t, h)

	assert.NotEmpty(t, out["id"])
	assert.ElementsMatch(t, []any{"Kubernetes", "Python"}, out["jd_skills"])
	assert.Contains(t, out["missing"], "Kubernetes")
	assert.Contains(t, out["present"], "Python")
}

func TestAnalyzeRejectsNonMultipart(t *testing.T) {
	t.Parallel()
	h := testHandler(t)
	rec := postJSON(h, "/v1/analyze", map[string]string{"jd": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeMissingFile(t *testing.T) {
	t.Parallel()
	h := testHandler(t)
	body, ctype := multipartBody(t, map[string]string{"jd": "Python"})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume")
}

func TestAnalyzeRejectsUnknownExtension(t *testing.T) {
	t.Parallel()
	h := testHandler(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("jd", "jd.exe")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("bad"))
	fw, err = mw.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("Python"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	h := testHandler(t)
	out := analyzeSession(t, h)
	id := out["id"].(string)

	// fetch session
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// unknown session 404s
	req = httptest.NewRequest(http.MethodGet, "/v1/sessions/nope", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// select a skill that is not missing
	rec = postJSON(h, "/v1/sessions/"+id+"/skill", map[string]string{"skill": "Python"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// chat before selecting conflicts
	rec = postJSON(h, "/v1/sessions/"+id+"/chat", map[string]string{"message": "hello"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// select the missing skill
	rec = postJSON(h, "/v1/sessions/"+id+"/skill", map[string]string{"skill": "Kubernetes"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// plain chat
	rec = postJSON(h, "/v1/sessions/"+id+"/chat", map[string]string{"message": "I know pods"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var chatOut struct {
		Turns []map[string]string `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatOut))
	require.Len(t, chatOut.Turns, 3)
	assert.Equal(t, "welcome", chatOut.Turns[0]["kind"])
	assert.Equal(t, "answer", chatOut.Turns[2]["kind"])

	// knowledge coach adds feedback and question turns
	rec = postJSON(h, "/v1/sessions/"+id+"/coach", map[string]string{"message": "pods group containers"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatOut))
	require.Len(t, chatOut.Turns, 6)
	assert.Equal(t, "feedback", chatOut.Turns[4]["kind"])
	assert.Equal(t, "question", chatOut.Turns[5]["kind"])

	// transcript endpoint returns the same turns
	req = httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id+"/conversation?skill=Kubernetes", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatOut))
	assert.Len(t, chatOut.Turns, 6)
}

func TestChatValidation(t *testing.T) {
	t.Parallel()
	h := testHandler(t)
	out := analyzeSession(t, h)
	id := out["id"].(string)

	rec := postJSON(h, "/v1/sessions/"+id+"/chat", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()
	h := testHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

