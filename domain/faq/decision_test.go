package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(scores ...float64) []MatchCandidate {
	out := make([]MatchCandidate, len(scores))
	for i, s := range scores {
		out[i] = MatchCandidate{
			ID:       string(rune('a' + i)),
			Question: "soru",
			Answer:   "cevap",
			Score:    s,
		}
	}
	return out
}

func TestDecide_ThresholdPartition(t *testing.T) {
	const primary, fuzzy = 0.7, 0.6

	d, err := Decide(candidates(0.82, 0.5, 0.4), primary, fuzzy)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDirect, d.Outcome)
	assert.Equal(t, 0.82, d.Best.Score)
	assert.Len(t, d.Alternates, 2)

	d, err = Decide(candidates(0.65, 0.5, 0.4, 0.3), primary, fuzzy)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFuzzy, d.Outcome)
	assert.Equal(t, 0.65, d.Best.Score)
	assert.Len(t, d.Alternates, 2, "fuzzy offers the next two results")

	d, err = Decide(candidates(0.3, 0.2, 0.1, 0.05), primary, fuzzy)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoMatch, d.Outcome)
	assert.Nil(t, d.Best)
	assert.Len(t, d.Alternates, 3, "no-match suggests up to three results")
}

func TestDecide_ThresholdsAreInclusive(t *testing.T) {
	d, err := Decide(candidates(0.7), 0.7, 0.6)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDirect, d.Outcome)

	d, err = Decide(candidates(0.6), 0.7, 0.6)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFuzzy, d.Outcome)
}

func TestDecide_NoCandidates(t *testing.T) {
	d, err := Decide(nil, 0.7, 0.6)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoMatch, d.Outcome)
	assert.Empty(t, d.Alternates)
}

func TestDecide_RejectsInvertedThresholds(t *testing.T) {
	_, err := Decide(candidates(0.9), 0.6, 0.7)
	assert.Error(t, err)
}

func TestDecide_RaisingFuzzyThresholdFlipsToNoMatch(t *testing.T) {
	d, err := Decide(candidates(0.65), 0.7, 0.6)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFuzzy, d.Outcome)

	d, err = Decide(candidates(0.65), 0.7, 0.66)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoMatch, d.Outcome)
}

func TestDecide_ReordersMisorderedCandidates(t *testing.T) {
	d, err := Decide(candidates(0.5, 0.82, 0.4), 0.7, 0.6)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDirect, d.Outcome)
	assert.Equal(t, 0.82, d.Best.Score)
}
