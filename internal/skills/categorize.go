package skills

import (
	"fmt"

	"github.com/fairyhunter13/interview-coach/internal/domain"
)

// Categorization labels.
const (
	LabelHR        = "HR"
	LabelTechnical = "Technical"
)

var categoryLabels = []string{LabelHR, LabelTechnical}

// Categorizer splits skill sets into HR and technical buckets using a
// zero-shot classifier. The classifier's top label wins outright; there is no
// abstention bucket, so genuinely ambiguous skills land wherever the
// classifier is most confident.
type Categorizer struct {
	clf domain.Classifier
}

// NewCategorizer constructs a Categorizer.
func NewCategorizer(clf domain.Classifier) *Categorizer { return &Categorizer{clf: clf} }

// Categorize partitions the set. Empty input short-circuits without invoking
// the classifier.
func (c *Categorizer) Categorize(ctx domain.Context, set domain.SkillSet) (domain.CategorizedSkills, error) {
	out := domain.CategorizedSkills{HR: make(domain.SkillSet), Technical: make(domain.SkillSet)}
	if set.Len() == 0 {
		return out, nil
	}
	texts := set.Sorted()
	results, err := c.clf.Classify(ctx, texts, categoryLabels)
	if err != nil {
		return domain.CategorizedSkills{}, fmt.Errorf("classify skills: %w", err)
	}
	if len(results) != len(texts) {
		return domain.CategorizedSkills{}, fmt.Errorf("%w: classifier returned %d results for %d skills", domain.ErrInternal, len(results), len(texts))
	}
	for i, res := range results {
		if res.Label == LabelHR {
			out.HR.Add(texts[i])
		} else {
			out.Technical.Add(texts[i])
		}
	}
	return out, nil
}
