package knowledge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fairyhunter13/interview-coach/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/interview-coach/internal/domain"
)

// CollectionName derives the Qdrant collection for a skill, e.g.
// "knowledge_power_bi".
func CollectionName(skill string) string {
	return "knowledge_" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(skill)), " ", "_")
}

// Seed persists a built base into Qdrant. Point IDs are derived from
// collection and document text, so re-seeding overwrites instead of
// duplicating.
func Seed(ctx domain.Context, q *qdrant.Client, b *Base) error {
	collection := CollectionName(b.Skill)
	if len(b.vectors) == 0 {
		return fmt.Errorf("base for %q has no vectors", b.Skill)
	}
	if err := q.EnsureCollection(ctx, collection, len(b.vectors[0])); err != nil {
		return fmt.Errorf("ensure collection %s: %w", collection, err)
	}

	const batch = 16
	for i := 0; i < len(b.docs); i += batch {
		end := i + batch
		if end > len(b.docs) {
			end = len(b.docs)
		}
		pts := make([]qdrant.Point, 0, end-i)
		for j := i; j < end; j++ {
			d := b.docs[j]
			pts = append(pts, qdrant.Point{
				ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(collection+":"+d.Text)).String(),
				Vector: b.vectors[j],
				Payload: map[string]any{
					"text":  d.Text,
					"kind":  string(d.Kind),
					"name":  d.Name,
					"skill": b.Skill,
				},
			})
		}
		if err := q.Upsert(ctx, collection, pts); err != nil {
			return fmt.Errorf("upsert into %s: %w", collection, err)
		}
	}
	return nil
}
