package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorAnswerKeepsDialogueOrder(t *testing.T) {
	acc := NewAccumulator()

	_, corrected := acc.Answer("terrain", "road")
	assert.False(t, corrected)
	_, corrected = acc.Answer("light_variation", "variable")
	assert.False(t, corrected)

	pairs := acc.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{Key: "terrain", Value: "road"}, pairs[0])
	assert.Equal(t, Pair{Key: "light_variation", Value: "variable"}, pairs[1])
}

func TestAccumulatorCorrectionPreservesPosition(t *testing.T) {
	acc := NewAccumulator()
	acc.Answer("terrain", "road")
	acc.Answer("light_variation", "variable")

	previous, corrected := acc.Answer("terrain", "gravel")
	assert.True(t, corrected)
	assert.Equal(t, "road", previous)

	pairs := acc.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{Key: "terrain", Value: "gravel"}, pairs[0], "corrected answer keeps its slot")

	value, ok := acc.Value("terrain")
	require.True(t, ok)
	assert.Equal(t, "gravel", value)
}

func TestAccumulatorPairsIsACopy(t *testing.T) {
	acc := NewAccumulator()
	acc.Answer("terrain", "road")

	pairs := acc.Pairs()
	pairs[0].Value = "mutated"

	value, _ := acc.Value("terrain")
	assert.Equal(t, "road", value)
}

func TestAccumulatorExclusions(t *testing.T) {
	acc := NewAccumulator()

	assert.True(t, acc.Exclude("mirrored_lens"))
	assert.False(t, acc.Exclude("mirrored_lens"), "duplicate exclusion is a no-op")
	assert.True(t, acc.Exclude("premium"))

	assert.True(t, acc.Excluded("mirrored_lens"))
	assert.False(t, acc.Excluded("clear_lens"))
	assert.Equal(t, []string{"mirrored_lens", "premium"}, acc.Exclusions())

	set := acc.ExclusionSet()
	_, ok := set["premium"]
	assert.True(t, ok)
}

func TestAccumulatorRestoreRoundTrip(t *testing.T) {
	acc := NewAccumulator()
	acc.SetIntent("comparison", 0.8)
	acc.Answer("terrain", "gravel")
	acc.Answer("priority", "ventilation")
	acc.Exclude("mirrored_lens")

	restored := Restore(acc.Intent(), acc.Pairs(), acc.Exclusions())

	assert.Equal(t, acc.Intent(), restored.Intent())
	assert.Equal(t, acc.Pairs(), restored.Pairs())
	assert.Equal(t, acc.Exclusions(), restored.Exclusions())
	assert.True(t, restored.Answered("priority"))
}
