// Package match maps candidate phrases onto a canonical skill catalog.
//
// Matching runs a three-tier cascade per candidate, cheap and strict first:
// exact normalized equality, then weighted-ratio fuzzy scoring, then semantic
// embedding similarity. A candidate that clears no tier contributes nothing;
// absence is not an error.
package match

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/pkg/textx"
	"github.com/fairyhunter13/interview-coach/pkg/vecx"
)

// Defaults for the looser tiers.
const (
	DefaultFuzzyCutoff       = 90
	DefaultSemanticThreshold = 0.72
	fuzzyTopN                = 3
)

// Option configures a Matcher.
type Option func(*Matcher)

// WithFuzzyCutoff overrides the fuzzy acceptance cutoff (0-100 scale).
func WithFuzzyCutoff(cutoff int) Option {
	return func(m *Matcher) { m.fuzzyCutoff = cutoff }
}

// WithSemanticThreshold overrides the cosine similarity floor.
func WithSemanticThreshold(threshold float64) Option {
	return func(m *Matcher) { m.semanticThreshold = threshold }
}

// Matcher resolves candidate phrases against one catalog. Catalog embeddings
// are computed once on first use and reused for every candidate; the catalog
// itself is read-only after construction.
type Matcher struct {
	embedder          domain.Embedder
	fuzzyCutoff       int
	semanticThreshold float64

	catalog   []string          // canonical entries, original casing
	norms     []string          // normalized+lowercased, parallel to catalog
	normToCat map[string]string // normalized form -> canonical entry

	embedOnce sync.Once
	embedErr  error
	vecs      [][]float32 // unit-normalized catalog embeddings, parallel to norms
}

// New builds a Matcher over catalog using embedder for the semantic tier.
func New(embedder domain.Embedder, catalog []string, opts ...Option) *Matcher {
	m := &Matcher{
		embedder:          embedder,
		fuzzyCutoff:       DefaultFuzzyCutoff,
		semanticThreshold: DefaultSemanticThreshold,
		catalog:           catalog,
		normToCat:         make(map[string]string, len(catalog)),
	}
	for _, entry := range catalog {
		n := normKey(entry)
		m.norms = append(m.norms, n)
		m.normToCat[n] = entry
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match resolves every candidate and unions the canonical results. Multiple
// candidates collapsing onto one catalog entry is expected; candidates that
// match nothing are dropped.
func (m *Matcher) Match(ctx domain.Context, candidates map[string]struct{}) (domain.SkillSet, error) {
	matched := make(domain.SkillSet)
	var semantic []string

	for cand := range candidates {
		key := normKey(cand)
		if key == "" {
			continue
		}
		// exact
		if canonical, ok := m.normToCat[key]; ok {
			matched.Add(canonical)
			continue
		}
		// fuzzy: accept every top-3 entry at or above the cutoff. One
		// candidate may map onto several catalog skills here; the
		// multi-accept is a deliberate recall policy, not dedup slack.
		if hits := m.fuzzyHits(key); len(hits) > 0 {
			for _, h := range hits {
				matched.Add(h)
			}
			continue
		}
		semantic = append(semantic, key)
	}

	if len(semantic) == 0 {
		return matched, nil
	}
	if err := m.ensureCatalogVectors(ctx); err != nil {
		return nil, err
	}
	// One batch call for all candidates that fell through to this tier.
	cvecs, err := m.embedder.Embed(ctx, semantic)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(cvecs) != len(semantic) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts", domain.ErrInternal, len(cvecs), len(semantic))
	}
	for i := range semantic {
		if canonical, ok := m.bestSemantic(vecx.Normalize(cvecs[i])); ok {
			matched.Add(canonical)
		}
	}
	return matched, nil
}

// fuzzyHits returns the canonical entries among the top-3 fuzzy scores that
// clear the cutoff.
func (m *Matcher) fuzzyHits(key string) []string {
	type scored struct {
		norm  string
		score int
	}
	ranked := make([]scored, 0, len(m.norms))
	for _, n := range m.norms {
		ranked = append(ranked, scored{norm: n, score: fuzzy.WRatio(key, n)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > fuzzyTopN {
		ranked = ranked[:fuzzyTopN]
	}
	var hits []string
	for _, r := range ranked {
		if r.score >= m.fuzzyCutoff {
			hits = append(hits, m.normToCat[r.norm])
		}
	}
	return hits
}

// bestSemantic returns the single highest-similarity catalog entry if it
// clears the threshold.
func (m *Matcher) bestSemantic(vec []float32) (string, bool) {
	bestIdx, bestSim := -1, -1.0
	for i, cv := range m.vecs {
		if sim := vecx.Dot(vec, cv); sim > bestSim {
			bestIdx, bestSim = i, sim
		}
	}
	if bestIdx < 0 || bestSim < m.semanticThreshold {
		return "", false
	}
	return m.normToCat[m.norms[bestIdx]], true
}

// ensureCatalogVectors embeds the catalog once per Matcher lifetime.
// Re-embedding per candidate would be correct but unacceptably slow.
func (m *Matcher) ensureCatalogVectors(ctx domain.Context) error {
	m.embedOnce.Do(func() {
		vecs, err := m.embedder.Embed(ctx, m.norms)
		if err != nil {
			m.embedErr = fmt.Errorf("embed catalog: %w", err)
			return
		}
		if len(vecs) != len(m.norms) {
			m.embedErr = fmt.Errorf("%w: embedder returned %d vectors for %d catalog entries", domain.ErrInternal, len(vecs), len(m.norms))
			return
		}
		for i := range vecs {
			vecs[i] = vecx.Normalize(vecs[i])
		}
		m.vecs = vecs
	})
	return m.embedErr
}

func normKey(s string) string {
	return strings.ToLower(textx.Normalize(s))
}
