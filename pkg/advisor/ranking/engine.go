package ranking

import (
	"math"
	"sort"
	"strconv"

	"product-advisor-be/pkg/advisor"
	"product-advisor-be/pkg/advisor/constraint"
	"product-advisor-be/pkg/catalog"
)

// Candidate is one ranked retrieval result. Candidates are transient:
// recomputed on every call, never persisted.
type Candidate struct {
	ProductID  string  `json:"product_id"`
	Similarity float64 `json:"similarity"`
	AttrMatch  float64 `json:"attr_match"`
	Composite  float64 `json:"composite"`
	Excluded   bool    `json:"-"`
}

// Weights configures the composite rank split. Similarity is expected to
// outweigh attributes; defaults are 0.7/0.3.
type Weights struct {
	Similarity float64
	Attribute  float64
}

func DefaultWeights() Weights {
	return Weights{Similarity: 0.7, Attribute: 0.3}
}

// Engine ranks catalog products against a query vector and the accumulated
// constraints. Search is a pure function over the snapshot it is handed:
// identical inputs always produce the identical ordered result.
type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	if weights.Similarity <= 0 && weights.Attribute <= 0 {
		weights = DefaultWeights()
	}
	return &Engine{weights: weights}
}

// Search returns up to k candidates ordered by composite rank, highest
// first. Products whose attribute values intersect the exclusion set are
// hard-filtered regardless of score. A nil queryVector is allowed (degraded
// mode: the similarity term is zero and ranking falls back to attributes);
// a non-nil vector must match the snapshot dimension.
func (e *Engine) Search(
	snapshot *catalog.Snapshot,
	queryVector []float32,
	constraints []constraint.Pair,
	exclusions map[string]struct{},
	k int,
) ([]Candidate, error) {
	if k < 1 {
		k = 1
	}
	if queryVector != nil && len(queryVector) != snapshot.Dimension() {
		return nil, advisor.ErrDimensionMismatch
	}

	candidates := make([]Candidate, 0, snapshot.Len())
	for _, p := range snapshot.Products() {
		if intersects(p, exclusions) {
			continue
		}

		sim := 0.0
		if queryVector != nil {
			sim = normalizedCosine(queryVector, p.Embedding)
		}
		attr := attributeMatch(p, constraints)

		candidates = append(candidates, Candidate{
			ProductID:  p.ID,
			Similarity: sim,
			AttrMatch:  attr,
			Composite:  e.weights.Similarity*sim + e.weights.Attribute*attr,
		})
	}

	// Equal composite ranks break on the lower product id so the result is
	// reproducible across runs.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Composite != candidates[j].Composite {
			return candidates[i].Composite > candidates[j].Composite
		}
		return lessID(candidates[i].ProductID, candidates[j].ProductID)
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// Dominant reports whether the top candidate's similarity margin over the
// runner-up clears the threshold. A lone candidate's margin is its own
// similarity.
func Dominant(candidates []Candidate, threshold float64) bool {
	if len(candidates) == 0 {
		return false
	}
	margin := candidates[0].Similarity
	if len(candidates) > 1 {
		margin -= candidates[1].Similarity
	}
	return margin >= threshold
}

func intersects(p catalog.Product, exclusions map[string]struct{}) bool {
	if len(exclusions) == 0 {
		return false
	}
	for _, v := range p.AttributeValues() {
		if _, ok := exclusions[v]; ok {
			return true
		}
	}
	return false
}

// attributeMatch is the fraction of accumulated constraint pairs the
// product satisfies. No constraints means no attribute signal.
func attributeMatch(p catalog.Product, constraints []constraint.Pair) float64 {
	if len(constraints) == 0 {
		return 0
	}
	matched := 0
	for _, c := range constraints {
		if p.HasAttribute(c.Key, c.Value) {
			matched++
		}
	}
	return float64(matched) / float64(len(constraints))
}

// normalizedCosine maps cosine similarity from [-1,1] into [0,1]. Vectors
// of mismatched or zero length score 0.
func normalizedCosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}

// lessID compares product ids numerically when both parse as integers, so
// id "5" orders before id "10". Non-numeric ids fall back to lexical order.
func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
