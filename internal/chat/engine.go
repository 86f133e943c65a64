package chat

import (
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/internal/knowledge"
)

// apologyReply is the fallback bot turn when the plain coach cannot reach the
// model. The conversation keeps flowing; the error is only logged.
const apologyReply = "Sorry, I could not come up with a response just now. Please try again."

// WelcomeMessage is the deterministic greeting that seeds every conversation.
func WelcomeMessage(skill string) string {
	return fmt.Sprintf("Welcome! I'm your interview coach for %s. Tell me about your experience with it, or ask me anything to get started.", skill)
}

// Options tune how the engine calls the chat model.
type Options struct {
	Model           string
	MaxTokens       int
	Temperature     float64
	PromptTokenCap  int
	RetrievalTopK   int
	RetrievalCutoff float64
}

// Engine drives coaching conversations over a chat model.
type Engine struct {
	model   domain.ChatModel
	counter TokenCounter
	opts    Options
}

// NewEngine constructs an engine.
func NewEngine(model domain.ChatModel, counter TokenCounter, opts Options) *Engine {
	return &Engine{model: model, counter: counter, opts: opts}
}

// Coach handles one plain coaching exchange: record the input, ask the model,
// append a single answer turn. A duplicate or blank input changes nothing.
// Model failures degrade to an apology turn instead of an error.
func (e *Engine) Coach(ctx domain.Context, conv *Conversation, input string) error {
	conv.SeedWelcome(WelcomeMessage(conv.Skill()))
	if !conv.beginInput(input) {
		return nil
	}
	transcript := transcriptBlock(conv.Turns(), e.counter, e.opts.Model, e.opts.PromptTokenCap)
	reply, err := e.model.Complete(ctx,
		plainSystemPrompt(conv.Skill()),
		userPrompt(nil, transcript, input),
		e.opts.MaxTokens, e.opts.Temperature)
	if err != nil {
		slog.Warn("coach completion failed, using fallback",
			slog.String("skill", conv.Skill()), slog.Any("error", err))
		conv.appendBot(domain.KindAnswer, apologyReply)
		return nil
	}
	conv.appendBot(domain.KindAnswer, SanitizeReply(reply))
	return nil
}

// CoachWithKnowledge handles one retrieval-grounded exchange: record the
// input, retrieve reference material, then append two bot turns, feedback on
// the answer followed by a fresh question. Unlike Coach, model failures
// propagate so the caller can surface them.
func (e *Engine) CoachWithKnowledge(ctx domain.Context, conv *Conversation, base *knowledge.Base, emb domain.Embedder, input string) error {
	conv.SeedWelcome(WelcomeMessage(conv.Skill()))
	if !conv.beginInput(input) {
		return nil
	}
	hits, err := base.Retrieve(ctx, emb, input, e.opts.RetrievalTopK, e.opts.RetrievalCutoff)
	if err != nil {
		return fmt.Errorf("retrieve for %q: %w", conv.Skill(), err)
	}
	transcript := transcriptBlock(conv.Turns(), e.counter, e.opts.Model, e.opts.PromptTokenCap)

	feedback, err := e.model.Complete(ctx,
		feedbackSystemPrompt(conv.Skill()),
		userPrompt(hits, transcript, input),
		e.opts.MaxTokens, e.opts.Temperature)
	if err != nil {
		return fmt.Errorf("feedback completion: %w", err)
	}
	conv.appendBot(domain.KindFeedback, SanitizeReply(feedback))

	question, err := e.model.Complete(ctx,
		questionSystemPrompt(conv.Skill()),
		userPrompt(hits, transcript, input),
		e.opts.MaxTokens, e.opts.Temperature)
	if err != nil {
		return fmt.Errorf("question completion: %w", err)
	}
	conv.appendBot(domain.KindQuestion, SanitizeReply(question))
	return nil
}
