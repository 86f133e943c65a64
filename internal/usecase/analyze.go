package usecase

import (
	"fmt"

	"log/slog"

	"github.com/fairyhunter13/interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/internal/extract"
	"github.com/fairyhunter13/interview-coach/internal/match"
	"github.com/fairyhunter13/interview-coach/internal/skills"
)

// AnalyzeService runs the full document comparison: extract text, generate
// skill candidates, match them to the catalog, diff, and categorize.
type AnalyzeService struct {
	Extractor   domain.TextExtractor
	Generator   *extract.Generator
	Matcher     *match.Matcher
	Categorizer *skills.Categorizer
	Sessions    *SessionStore
}

// NewAnalyzeService wires the analysis pipeline.
func NewAnalyzeService(ex domain.TextExtractor, gen *extract.Generator, m *match.Matcher, cat *skills.Categorizer, store *SessionStore) *AnalyzeService {
	return &AnalyzeService{Extractor: ex, Generator: gen, Matcher: m, Categorizer: cat, Sessions: store}
}

// Analyze compares a job description against a resume and opens a session
// holding the result. Both inputs are uploaded files.
func (s *AnalyzeService) Analyze(ctx domain.Context, jdName string, jdData []byte, resumeName string, resumeData []byte) (*Session, error) {
	jdSkills, err := s.skillsFromDocument(ctx, jdName, jdData)
	if err != nil {
		return nil, fmt.Errorf("job description: %w", err)
	}
	resumeSkills, err := s.skillsFromDocument(ctx, resumeName, resumeData)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}

	diff := skills.Diff(jdSkills, resumeSkills)
	categories, err := s.Categorizer.Categorize(ctx, diff.Missing)
	if err != nil {
		return nil, fmt.Errorf("categorize missing skills: %w", err)
	}

	sess := s.Sessions.Create()
	sess.JDSkills = jdSkills
	sess.ResumeSkills = resumeSkills
	sess.Diff = diff
	sess.Categories = categories

	observability.ObserveAnalysis(jdSkills.Len(), resumeSkills.Len())
	slog.Info("analysis complete",
		slog.String("session_id", sess.ID),
		slog.Int("jd_skills", jdSkills.Len()),
		slog.Int("resume_skills", resumeSkills.Len()),
		slog.Int("missing", diff.Missing.Len()))
	return sess, nil
}

func (s *AnalyzeService) skillsFromDocument(ctx domain.Context, filename string, data []byte) (domain.SkillSet, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload %q", domain.ErrInvalidArgument, filename)
	}
	text, err := s.Extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", filename, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: no text extracted from %q", domain.ErrInvalidArgument, filename)
	}
	candidates, err := s.Generator.Candidates(text)
	if err != nil {
		return nil, fmt.Errorf("generate candidates: %w", err)
	}
	matched, err := s.Matcher.Match(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("match skills: %w", err)
	}
	return matched, nil
}
