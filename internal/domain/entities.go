// Package domain holds the core entities and ports of the interview coach.
package domain

import (
	"context"
	"errors"
	"sort"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrPrecondition      = errors.New("precondition not met")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrInternal          = errors.New("internal error")
)

// SkillSet is an unordered set of canonical skill labels.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from the given labels.
func NewSkillSet(skills ...string) SkillSet {
	s := make(SkillSet, len(skills))
	for _, sk := range skills {
		s[sk] = struct{}{}
	}
	return s
}

// Add inserts a label.
func (s SkillSet) Add(skill string) { s[skill] = struct{}{} }

// Has reports membership.
func (s SkillSet) Has(skill string) bool { _, ok := s[skill]; return ok }

// Len returns the set size.
func (s SkillSet) Len() int { return len(s) }

// Intersect returns the labels present in both sets.
func (s SkillSet) Intersect(o SkillSet) SkillSet {
	out := make(SkillSet)
	for sk := range s {
		if o.Has(sk) {
			out.Add(sk)
		}
	}
	return out
}

// Subtract returns the labels present in s but not in o.
func (s SkillSet) Subtract(o SkillSet) SkillSet {
	out := make(SkillSet)
	for sk := range s {
		if !o.Has(sk) {
			out.Add(sk)
		}
	}
	return out
}

// Sorted returns the labels in lexical order for stable rendering.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for sk := range s {
		out = append(out, sk)
	}
	sort.Strings(out)
	return out
}

// DiffResult pairs the skills a resume shares with a job description against
// the ones it lacks. Invariant: Present ∪ Missing = JD set, Present ∩ Missing = ∅.
type DiffResult struct {
	Present SkillSet
	Missing SkillSet
}

// CategorizedSkills partitions a skill set by interview track. Every skill
// lands in exactly one bucket.
type CategorizedSkills struct {
	HR        SkillSet
	Technical SkillSet
}

// DocKind tags the origin of a knowledge document within a skill reference.
type DocKind string

// Knowledge document kinds.
const (
	DocTopic       DocKind = "topic"
	DocFunction    DocKind = "function"
	DocSubFunction DocKind = "sub_function"
)

// KnowledgeDocument is one retrievable unit of a skill knowledge base.
// Immutable once the base is built.
type KnowledgeDocument struct {
	Text string
	Kind DocKind
	Name string
}

// RetrievalHit is a scored knowledge document returned for one query.
type RetrievalHit struct {
	Document KnowledgeDocument
	Score    float64
	Rank     int
}

// TurnRole identifies the author of a conversation turn.
type TurnRole string

// Conversation roles.
const (
	RoleUser TurnRole = "user"
	RoleBot  TurnRole = "bot"
)

// TurnKind classifies bot turns so rendering never has to sniff text prefixes.
type TurnKind string

// Conversation turn kinds.
const (
	KindWelcome  TurnKind = "welcome"
	KindFeedback TurnKind = "feedback"
	KindQuestion TurnKind = "question"
	KindAnswer   TurnKind = "answer"
)

// ConversationTurn is one entry in an append-only transcript.
type ConversationTurn struct {
	Role TurnRole
	Kind TurnKind
	Text string
}

// Classification is one zero-shot labeling outcome. Classifiers always return
// an ordered slice of these, one per input, regardless of input size.
type Classification struct {
	Text  string
	Label string
	Score float64
}

// Ports

// Embedder embeds texts into a shared vector space in one batch call.
type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// ChatModel calls an external language model and returns its message content.
type ChatModel interface {
	Complete(ctx Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// Classifier labels each text with the best of the candidate labels.
type Classifier interface {
	Classify(ctx Context, texts []string, labels []string) ([]Classification, error)
}

// TextExtractor pulls plain text out of an uploaded document. Unsupported
// formats yield empty text, not an error.
type TextExtractor interface {
	Extract(ctx Context, filename string, data []byte) (string, error)
}

// Context is an alias to context.Context; adapters and usecases pass the
// standard context through, the alias keeps domain signatures uniform.
type Context = context.Context
