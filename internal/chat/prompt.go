package chat

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/interview-coach/internal/domain"
)

// TokenCounter measures prompt size so transcripts fit the model budget.
type TokenCounter interface {
	CountTokens(text, model string) (int, error)
}

const outputConstraints = "Reply in plain text with no markdown. Keep it to one or two short sentences and end with a follow-up question or a concrete suggestion."

func plainSystemPrompt(skill string) string {
	return fmt.Sprintf("You are an interview coach helping a candidate prepare for questions about %s. Give direct, practical coaching. %s", skill, outputConstraints)
}

func feedbackSystemPrompt(skill string) string {
	return fmt.Sprintf("You are an interview coach for %s. Using only the reference material provided, give brief feedback on the candidate's answer. %s", skill, outputConstraints)
}

func questionSystemPrompt(skill string) string {
	return fmt.Sprintf("You are an interview coach for %s. Using only the reference material provided, ask the candidate one new interview question. Reply in plain text with just the question.", skill)
}

// contextBlock renders retrieval hits into the prompt.
func contextBlock(hits []domain.RetrievalHit) string {
	if len(hits) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Reference material:\n")
	for _, h := range hits {
		b.WriteString(h.Document.Text)
		b.WriteString("\n---\n")
	}
	return b.String()
}

// transcriptBlock renders the conversation oldest-first, dropping the oldest
// turns until the rendering fits budget tokens. The latest turn always
// survives.
func transcriptBlock(turns []domain.ConversationTurn, counter TokenCounter, model string, budget int) string {
	render := func(ts []domain.ConversationTurn) string {
		var b strings.Builder
		for _, t := range ts {
			switch t.Role {
			case domain.RoleUser:
				b.WriteString("Candidate: ")
			case domain.RoleBot:
				b.WriteString("Coach: ")
			}
			b.WriteString(t.Text)
			b.WriteString("\n")
		}
		return b.String()
	}
	for start := 0; start < len(turns); start++ {
		out := render(turns[start:])
		n, err := counter.CountTokens(out, model)
		if err != nil || n <= budget {
			return out
		}
	}
	if len(turns) == 0 {
		return ""
	}
	return render(turns[len(turns)-1:])
}

// userPrompt assembles the model's user message from optional reference
// material, the bounded transcript, and the candidate's latest input.
func userPrompt(hits []domain.RetrievalHit, transcript, input string) string {
	var b strings.Builder
	if cb := contextBlock(hits); cb != "" {
		b.WriteString(cb)
		b.WriteString("\n")
	}
	if transcript != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(transcript)
		b.WriteString("\n")
	}
	b.WriteString("Candidate's latest input: ")
	b.WriteString(input)
	return b.String()
}
