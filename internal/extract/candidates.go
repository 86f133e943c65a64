// Package extract turns raw document text into candidate skill phrases.
//
// Candidates come from three sources: noun-phrase chunks, named-entity spans,
// and sliding 1-3 grams over the token stream. The n-grams recover short
// skill tokens (e.g. "Git") that phrase chunking merges into larger spans.
package extract

import (
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/fairyhunter13/interview-coach/pkg/textx"
)

const (
	minCandidateLen = 2
	maxCandidateLen = 50
)

// genericTerms are near-universal in job text and carry no discriminative
// signal; candidates whose lowercase form matches are dropped.
var genericTerms = map[string]struct{}{
	"experience":   {},
	"project":      {},
	"projects":     {},
	"knowledge":    {},
	"skills":       {},
	"framework":    {},
	"tools":        {},
	"technology":   {},
	"technologies": {},
	"years":        {},
}

// Generator produces candidate skill phrases from free text.
type Generator struct{}

// NewGenerator constructs a Generator.
func NewGenerator() *Generator { return &Generator{} }

// Candidates extracts the normalized candidate phrase set for text.
// Empty or whitespace-only input yields an empty set, not an error.
func (g *Generator) Candidates(text string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	clean := textx.StripNonASCII(text)
	if strings.TrimSpace(clean) == "" {
		return out, nil
	}

	doc, err := prose.NewDocument(clean, prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}

	add := func(phrase string) {
		c := textx.Normalize(phrase)
		if len(c) < minCandidateLen || len(c) > maxCandidateLen {
			return
		}
		if _, generic := genericTerms[strings.ToLower(c)]; generic {
			return
		}
		out[c] = struct{}{}
	}

	tokens := doc.Tokens()
	for _, chunk := range nounPhrases(tokens) {
		add(chunk)
	}
	for _, ent := range doc.Entities() {
		add(ent.Text)
	}

	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.TrimSpace(tok.Text) != "" {
			words = append(words, tok.Text)
		}
	}
	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(words); i++ {
			add(strings.Join(words[i:i+n], " "))
		}
	}
	return out, nil
}

// nounPhrases groups maximal runs of adjective/noun tokens (Penn tags JJ*,
// NN*) into chunks, a lightweight stand-in for full constituency parsing.
func nounPhrases(tokens []prose.Token) []string {
	var phrases []string
	var run []string
	flush := func() {
		if len(run) > 0 {
			phrases = append(phrases, strings.Join(run, " "))
			run = nil
		}
	}
	for _, tok := range tokens {
		if isNounish(tok.Tag) {
			run = append(run, tok.Text)
			continue
		}
		flush()
	}
	flush()
	return phrases
}

func isNounish(tag string) bool {
	return strings.HasPrefix(tag, "NN") || strings.HasPrefix(tag, "JJ")
}
