package knowledge

import (
	"fmt"
	"sort"

	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/pkg/vecx"
)

// Retrieve embeds the query and returns the top-k documents whose cosine
// similarity clears the threshold, best first. Ties keep document order, so
// results are deterministic for a fixed base.
func (b *Base) Retrieve(ctx domain.Context, emb domain.Embedder, query string, topK int, threshold float64) ([]domain.RetrievalHit, error) {
	if topK <= 0 {
		return nil, nil
	}
	vecs, err := emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for one query", domain.ErrInternal, len(vecs))
	}
	q := vecs[0]
	vecx.Normalize(q)

	hits := make([]domain.RetrievalHit, 0, len(b.docs))
	for i, dv := range b.vectors {
		score := vecx.Dot(q, dv)
		if score < threshold {
			continue
		}
		hits = append(hits, domain.RetrievalHit{Document: b.docs[i], Score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits, nil
}
