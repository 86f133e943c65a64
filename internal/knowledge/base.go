package knowledge

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/pkg/vecx"
)

// Base is an embedded knowledge base for one skill. Documents and their
// vectors are immutable after Build; vectors are unit length so similarity is
// a dot product.
type Base struct {
	Skill   string
	docs    []domain.KnowledgeDocument
	vectors [][]float32
}

// Flatten turns a reference into retrievable documents: one per topic, one
// per function, one per sub-function. Blank entries are skipped.
func Flatten(ref *SkillReference) []domain.KnowledgeDocument {
	var docs []domain.KnowledgeDocument
	for _, t := range ref.Topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		docs = append(docs, domain.KnowledgeDocument{
			Text: "Topic: " + t,
			Kind: domain.DocTopic,
			Name: t,
		})
	}
	for _, fn := range ref.Functions {
		if strings.TrimSpace(fn.Name) == "" {
			continue
		}
		docs = append(docs, domain.KnowledgeDocument{
			Text: fmt.Sprintf("Function: %s\nDescription: %s", fn.Name, fn.Description),
			Kind: domain.DocFunction,
			Name: fn.Name,
		})
		for _, sf := range fn.SubFunctions {
			if strings.TrimSpace(sf.Name) == "" {
				continue
			}
			text := fmt.Sprintf("Sub-function: %s\nDescription: %s", sf.Name, sf.Description)
			if len(sf.Examples) > 0 {
				text += "\nExamples:\n" + strings.Join(sf.Examples, "\n")
			}
			docs = append(docs, domain.KnowledgeDocument{
				Text: text,
				Kind: domain.DocSubFunction,
				Name: sf.Name,
			})
		}
	}
	return docs
}

// Build embeds all documents of a reference in one batch and returns the
// ready base.
func Build(ctx domain.Context, emb domain.Embedder, ref *SkillReference) (*Base, error) {
	docs := Flatten(ref)
	if len(docs) == 0 {
		return nil, fmt.Errorf("reference for %q has no documents", ref.Skill)
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vecs, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed knowledge base for %q: %w", ref.Skill, err)
	}
	if len(vecs) != len(docs) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d documents", domain.ErrInternal, len(vecs), len(docs))
	}
	for _, v := range vecs {
		vecx.Normalize(v)
	}
	return &Base{Skill: ref.Skill, docs: docs, vectors: vecs}, nil
}

// Len returns the number of documents in the base.
func (b *Base) Len() int { return len(b.docs) }

// Documents returns a copy of the document list.
func (b *Base) Documents() []domain.KnowledgeDocument {
	out := make([]domain.KnowledgeDocument, len(b.docs))
	copy(out, b.docs)
	return out
}
