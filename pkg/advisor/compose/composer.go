package compose

import (
	"product-advisor-be/internal/entity"
	"product-advisor-be/pkg/advisor"
	"product-advisor-be/pkg/advisor/constraint"
	"product-advisor-be/pkg/advisor/ranking"
	"product-advisor-be/pkg/catalog"
)

// Composer turns a ranked candidate list into the final Recommendation.
// It has no side effects; the caller persists and logs the result.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose picks candidates[0] as primary and candidates[1] as alternative
// when present. The rationale lists, in dialogue order, the constraint
// pairs the primary actually satisfies, plus the intent label and the
// exclusions that shaped the shortlist.
func (c *Composer) Compose(
	snapshot *catalog.Snapshot,
	candidates []ranking.Candidate,
	acc *constraint.Accumulator,
) (*entity.Recommendation, error) {
	if len(candidates) == 0 {
		return nil, advisor.ErrNoCandidates
	}

	primary := candidates[0]
	rec := &entity.Recommendation{
		PrimaryID: primary.ProductID,
		Rationale: entity.Rationale{
			IntentLabel:        acc.Intent().Label,
			MatchedConstraints: matchedBy(snapshot, primary.ProductID, acc.Pairs()),
			Exclusions:         acc.Exclusions(),
			Similarity:         primary.Similarity,
			Composite:          primary.Composite,
		},
	}

	if len(candidates) > 1 {
		alt := candidates[1].ProductID
		rec.AlternativeID = &alt
	}
	return rec, nil
}

func matchedBy(snapshot *catalog.Snapshot, productID string, pairs []constraint.Pair) []constraint.Pair {
	product, ok := snapshot.Get(productID)
	if !ok {
		return nil
	}
	var matched []constraint.Pair
	for _, p := range pairs {
		if product.HasAttribute(p.Key, p.Value) {
			matched = append(matched, p)
		}
	}
	return matched
}
