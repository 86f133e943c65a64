// Package chat implements the interview coaching dialogue: conversation
// state, prompt assembly, and the plain and retrieval-grounded engines.
package chat

import (
	"strings"
	"sync"

	"github.com/fairyhunter13/interview-coach/internal/domain"
)

// Conversation is the append-only transcript for one coaching context
// (one session and skill pair). Safe for concurrent use.
type Conversation struct {
	mu        sync.Mutex
	skill     string
	turns     []domain.ConversationTurn
	lastInput string
}

// NewConversation creates an empty conversation for a skill.
func NewConversation(skill string) *Conversation {
	return &Conversation{skill: skill}
}

// Skill returns the skill this conversation coaches.
func (c *Conversation) Skill() string { return c.skill }

// Turns returns a copy of the transcript.
func (c *Conversation) Turns() []domain.ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// SeedWelcome appends the welcome turn if the conversation is empty.
// Calling it again is a no-op, so page reloads never duplicate the greeting.
func (c *Conversation) SeedWelcome(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.turns) > 0 {
		return
	}
	c.turns = append(c.turns, domain.ConversationTurn{
		Role: domain.RoleBot,
		Kind: domain.KindWelcome,
		Text: text,
	})
}

// beginInput records the user's turn unless it repeats the previous input.
// Returns false when the input is a duplicate and no turn was added.
func (c *Conversation) beginInput(input string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == c.lastInput {
		return false
	}
	c.lastInput = trimmed
	c.turns = append(c.turns, domain.ConversationTurn{
		Role: domain.RoleUser,
		Kind: domain.KindAnswer,
		Text: trimmed,
	})
	return true
}

// appendBot appends a bot turn.
func (c *Conversation) appendBot(kind domain.TurnKind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, domain.ConversationTurn{
		Role: domain.RoleBot,
		Kind: kind,
		Text: text,
	})
}
