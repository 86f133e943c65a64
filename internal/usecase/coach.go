package usecase

import (
	"fmt"

	"log/slog"

	"github.com/fairyhunter13/interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/interview-coach/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/interview-coach/internal/chat"
	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/internal/knowledge"
	"github.com/fairyhunter13/interview-coach/internal/registry"
)

// CoachService runs coaching conversations for a session's selected skill.
// Knowledge bases and conversations are memoized in the registry, so a skill's
// reference is embedded once per process and transcripts survive across
// requests.
type CoachService struct {
	Engine   *chat.Engine
	Embedder domain.Embedder
	Sessions *SessionStore
	Registry *registry.Registry
	RefsDir  string
	Qdrant   *qdrant.Client // nil disables persistence
}

// NewCoachService wires the coaching pipeline.
func NewCoachService(engine *chat.Engine, emb domain.Embedder, store *SessionStore, reg *registry.Registry, refsDir string, q *qdrant.Client) *CoachService {
	return &CoachService{Engine: engine, Embedder: emb, Sessions: store, Registry: reg, RefsDir: refsDir, Qdrant: q}
}

// SelectSkill picks the missing skill the candidate wants to train. The skill
// must come from the session's missing set.
func (s *CoachService) SelectSkill(sessionID, skill string) (*Session, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Diff.Missing.Has(skill) {
		return nil, fmt.Errorf("%w: skill %q is not missing in session %s", domain.ErrPrecondition, skill, sessionID)
	}
	sess.SelectedSkill = skill
	conv, err := s.conversation(sess.ID, skill)
	if err != nil {
		return nil, err
	}
	conv.SeedWelcome(chat.WelcomeMessage(skill))
	return sess, nil
}

// Conversation returns the transcript for the session and skill, seeding the
// welcome turn on first access.
func (s *CoachService) Conversation(sessionID, skill string) ([]domain.ConversationTurn, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if skill == "" {
		skill = sess.SelectedSkill
	}
	if skill == "" {
		return nil, fmt.Errorf("%w: no skill selected for session %s", domain.ErrPrecondition, sessionID)
	}
	conv, err := s.conversation(sess.ID, skill)
	if err != nil {
		return nil, err
	}
	conv.SeedWelcome(chat.WelcomeMessage(skill))
	return conv.Turns(), nil
}

// Chat runs one plain coaching exchange on the selected skill.
func (s *CoachService) Chat(ctx domain.Context, sessionID, input string) ([]domain.ConversationTurn, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.SelectedSkill == "" {
		return nil, fmt.Errorf("%w: no skill selected for session %s", domain.ErrPrecondition, sessionID)
	}
	conv, err := s.conversation(sess.ID, sess.SelectedSkill)
	if err != nil {
		return nil, err
	}
	if err := s.Engine.Coach(ctx, conv, input); err != nil {
		return nil, err
	}
	observability.ObserveCoachTurn("plain")
	return conv.Turns(), nil
}

// CoachWithKnowledge runs one retrieval-grounded exchange. It requires a
// reference file for the selected skill; without one the plain Chat flow is
// the only option.
func (s *CoachService) CoachWithKnowledge(ctx domain.Context, sessionID, input string) ([]domain.ConversationTurn, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.SelectedSkill == "" {
		return nil, fmt.Errorf("%w: no skill selected for session %s", domain.ErrPrecondition, sessionID)
	}
	if !knowledge.HasReference(s.RefsDir, sess.SelectedSkill) {
		return nil, fmt.Errorf("%w: no reference material for %q", domain.ErrPrecondition, sess.SelectedSkill)
	}
	base, err := s.knowledgeBase(ctx, sess.SelectedSkill)
	if err != nil {
		return nil, err
	}
	conv, err := s.conversation(sess.ID, sess.SelectedSkill)
	if err != nil {
		return nil, err
	}
	if err := s.Engine.CoachWithKnowledge(ctx, conv, base, s.Embedder, input); err != nil {
		return nil, err
	}
	observability.ObserveCoachTurn("knowledge")
	return conv.Turns(), nil
}

// knowledgeBase builds (once) the embedded base for a skill.
func (s *CoachService) knowledgeBase(ctx domain.Context, skill string) (*knowledge.Base, error) {
	v, err := s.Registry.Get(registry.KindKnowledgeBase, skill, func() (any, error) {
		ref, err := knowledge.LoadReference(s.RefsDir, skill)
		if err != nil {
			return nil, err
		}
		base, err := knowledge.Build(ctx, s.Embedder, ref)
		if err != nil {
			return nil, err
		}
		if s.Qdrant != nil {
			if err := knowledge.Seed(ctx, s.Qdrant, base); err != nil {
				// persistence is best effort
				slog.Warn("knowledge base seeding failed",
					slog.String("skill", skill), slog.Any("error", err))
			}
		}
		return base, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*knowledge.Base), nil
}

// conversation fetches (or creates) the transcript for a session and skill.
func (s *CoachService) conversation(sessionID, skill string) (*chat.Conversation, error) {
	v, err := s.Registry.Get(registry.KindConversation, sessionID+":"+skill, func() (any, error) {
		return chat.NewConversation(skill), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*chat.Conversation), nil
}
