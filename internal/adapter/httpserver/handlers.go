package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/interview-coach/internal/config"
	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/internal/usecase"
)

// Server binds the usecase services to HTTP handlers.
type Server struct {
	Cfg     config.Config
	Analyze *usecase.AnalyzeService
	Coach   *usecase.CoachService
}

// NewServer constructs a Server.
func NewServer(cfg config.Config, analyze *usecase.AnalyzeService, coach *usecase.CoachService) *Server {
	return &Server{Cfg: cfg, Analyze: analyze, Coach: coach}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

func allowedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

// allowedMIMEFor allowlists sniffed content types per extension. Plain text
// detection is loose on purpose: .txt uploads sniff as a range of text/*
// types.
func allowedMIMEFor(m, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return strings.HasPrefix(m, "application/pdf")
	case ".docx":
		return strings.HasPrefix(m, "application/vnd.openxmlformats-officedocument.wordprocessingml.document") ||
			strings.HasPrefix(m, "application/zip")
	case ".txt":
		return strings.HasPrefix(m, "text/") || strings.HasPrefix(m, "application/octet-stream")
	}
	return false
}

func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, *multipart.FileHeader, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %s file required", domain.ErrInvalidArgument, field), map[string]string{"field": field})
		return nil, nil, false
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidArgument, field, err), nil)
		return nil, nil, false
	}
	if !allowedExt(header.Filename) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
			Code:    "INVALID_ARGUMENT",
			Message: fmt.Sprintf("unsupported media type for %s (extension)", field),
			Details: map[string]any{"filename": header.Filename},
		}})
		return nil, nil, false
	}
	if m := mimetype.Detect(data); !allowedMIMEFor(m.String(), header.Filename) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
			Code:    "INVALID_ARGUMENT",
			Message: fmt.Sprintf("unsupported media type for %s (content)", field),
			Details: map[string]any{"mime": m.String(), "filename": header.Filename},
		}})
		return nil, nil, false
	}
	return data, header, true
}

// AnalyzeHandler accepts multipart jd and resume files and returns the
// session with the skill comparison.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes*2)
		if err := r.ParseMultipartForm(maxBytes * 2); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code:    "INVALID_ARGUMENT",
					Message: "payload too large",
					Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
				}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		jdData, jdHeader, ok := readUpload(w, r, "jd")
		if !ok {
			return
		}
		resumeData, resumeHeader, ok := readUpload(w, r, "resume")
		if !ok {
			return
		}

		sess, err := s.Analyze.Analyze(r.Context(), jdHeader.Filename, jdData, resumeHeader.Filename, resumeData)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionEnvelope(sess))
	}
}

// SessionHandler returns a previously created session.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Analyze.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionEnvelope(sess))
	}
}

type selectSkillRequest struct {
	Skill string `json:"skill" validate:"required,min=1,max=100"`
}

// SelectSkillHandler picks the missing skill to train in a session.
func (s *Server) SelectSkillHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectSkillRequest
		if !decodeBody(w, r, &req) {
			return
		}
		sess, err := s.Coach.SelectSkill(chi.URLParam(r, "id"), req.Skill)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionEnvelope(sess))
	}
}

type chatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

// ChatHandler runs one plain coaching exchange.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if !decodeBody(w, r, &req) {
			return
		}
		turns, err := s.Coach.Chat(r.Context(), chi.URLParam(r, "id"), req.Message)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, turnsEnvelope(turns))
	}
}

// CoachHandler runs one retrieval-grounded coaching exchange.
func (s *Server) CoachHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if !decodeBody(w, r, &req) {
			return
		}
		turns, err := s.Coach.CoachWithKnowledge(r.Context(), chi.URLParam(r, "id"), req.Message)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, turnsEnvelope(turns))
	}
}

// ConversationHandler returns the transcript for a session's skill.
func (s *Server) ConversationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turns, err := s.Coach.Conversation(chi.URLParam(r, "id"), r.URL.Query().Get("skill"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, turnsEnvelope(turns))
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid json body: %v", domain.ErrInvalidArgument, err), nil)
		return false
	}
	if err := getValidator().Struct(v); err != nil {
		var details any
		if ve, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fe.Field())
			}
			details = map[string]any{"fields": fields}
		}
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), details)
		return false
	}
	return true
}

func sessionEnvelope(sess *usecase.Session) map[string]any {
	return map[string]any{
		"id":            sess.ID,
		"created_at":    sess.CreatedAt,
		"jd_skills":     sess.JDSkills.Sorted(),
		"resume_skills": sess.ResumeSkills.Sorted(),
		"present":       sess.Diff.Present.Sorted(),
		"missing":       sess.Diff.Missing.Sorted(),
		"categories": map[string]any{
			"hr":        sess.Categories.HR.Sorted(),
			"technical": sess.Categories.Technical.Sorted(),
		},
		"selected_skill": sess.SelectedSkill,
	}
}

func turnsEnvelope(turns []domain.ConversationTurn) map[string]any {
	out := make([]map[string]string, len(turns))
	for i, t := range turns {
		out[i] = map[string]string{
			"role": string(t.Role),
			"kind": string(t.Kind),
			"text": t.Text,
		}
	}
	return map[string]any{"turns": out}
}
