package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-advisor-be/pkg/advisor"
	"product-advisor-be/pkg/advisor/constraint"
	"product-advisor-be/pkg/advisor/ranking"
	"product-advisor-be/pkg/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.Product{
		{ID: "a", Name: "Alpha", Attributes: map[string][]string{"terrain": {"road"}, "priority": {"comfort"}}},
		{ID: "b", Name: "Beta", Attributes: map[string][]string{"terrain": {"gravel"}}},
	}, 0)
}

func TestComposePrimaryAndAlternative(t *testing.T) {
	acc := constraint.NewAccumulator()
	acc.SetIntent("exploration", 0.9)
	acc.Answer("terrain", "road")
	acc.Answer("priority", "comfort")
	acc.Exclude("mirrored_lens")

	candidates := []ranking.Candidate{
		{ProductID: "a", Similarity: 0.8, Composite: 0.86},
		{ProductID: "b", Similarity: 0.5, Composite: 0.35},
	}

	rec, err := NewComposer().Compose(testSnapshot(), candidates, acc)
	require.NoError(t, err)

	assert.Equal(t, "a", rec.PrimaryID)
	require.NotNil(t, rec.AlternativeID)
	assert.Equal(t, "b", *rec.AlternativeID)

	assert.Equal(t, "exploration", rec.Rationale.IntentLabel)
	assert.Equal(t, []string{"mirrored_lens"}, rec.Rationale.Exclusions)
	assert.Equal(t, 0.8, rec.Rationale.Similarity)
	assert.Equal(t, 0.86, rec.Rationale.Composite)

	// Only constraints the primary actually satisfies end up in the
	// rationale, in dialogue order.
	require.Len(t, rec.Rationale.MatchedConstraints, 2)
	assert.Equal(t, "terrain", rec.Rationale.MatchedConstraints[0].Key)
	assert.Equal(t, "priority", rec.Rationale.MatchedConstraints[1].Key)
}

func TestComposeNoAlternativeForLoneCandidate(t *testing.T) {
	acc := constraint.NewAccumulator()

	rec, err := NewComposer().Compose(testSnapshot(), []ranking.Candidate{{ProductID: "b"}}, acc)
	require.NoError(t, err)

	assert.Equal(t, "b", rec.PrimaryID)
	assert.Nil(t, rec.AlternativeID)
}

func TestComposeRationaleDropsUnmatchedConstraints(t *testing.T) {
	acc := constraint.NewAccumulator()
	acc.Answer("terrain", "road")
	acc.Answer("priority", "ventilation") // Alpha has comfort, not ventilation

	rec, err := NewComposer().Compose(testSnapshot(), []ranking.Candidate{{ProductID: "a"}}, acc)
	require.NoError(t, err)

	require.Len(t, rec.Rationale.MatchedConstraints, 1)
	assert.Equal(t, "terrain", rec.Rationale.MatchedConstraints[0].Key)
}

func TestComposeEmptyCandidates(t *testing.T) {
	_, err := NewComposer().Compose(testSnapshot(), nil, constraint.NewAccumulator())
	assert.ErrorIs(t, err, advisor.ErrNoCandidates)
}
