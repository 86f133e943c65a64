// Package usecase composes the extraction, matching, and coaching pipelines
// behind the HTTP layer.
package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/interview-coach/internal/domain"
)

// Session holds one analysis and the coaching state that follows it.
type Session struct {
	ID        string
	CreatedAt time.Time

	JDSkills     domain.SkillSet
	ResumeSkills domain.SkillSet
	Diff         domain.DiffResult
	Categories   domain.CategorizedSkills

	// SelectedSkill is the missing skill the candidate chose to train.
	SelectedSkill string
}

// SessionStore keeps sessions in memory. Sessions are ephemeral; restarting
// the server drops them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create registers a new session and returns it.
func (s *SessionStore) Create() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session or domain.ErrNotFound.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return sess, nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
