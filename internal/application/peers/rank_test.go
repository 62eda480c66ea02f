package peers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCandidates_SortsAscendingByCO2(t *testing.T) {
	candidates := []Candidate{
		{Ticker: "NEE", CO2Emission: 30},
		{Ticker: "FSLR", CO2Emission: 5},
		{Ticker: "DUK", CO2Emission: 50},
	}

	ranked := RankCandidates(candidates)
	require.Len(t, ranked, 3)
	assert.Equal(t, "FSLR", ranked[0].Ticker)
	assert.Equal(t, "NEE", ranked[1].Ticker)
	assert.Equal(t, "DUK", ranked[2].Ticker)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].CO2Emission, ranked[i].CO2Emission)
	}
}

func TestRankCandidates_StableForEqualEmissions(t *testing.T) {
	candidates := []Candidate{
		{Ticker: "A", CO2Emission: 10},
		{Ticker: "B", CO2Emission: 10},
		{Ticker: "C", CO2Emission: 10},
	}

	ranked := RankCandidates(candidates)
	require.Len(t, ranked, 3)
	assert.Equal(t, "A", ranked[0].Ticker)
	assert.Equal(t, "B", ranked[1].Ticker)
	assert.Equal(t, "C", ranked[2].Ticker)
}

func TestRankCandidates_TruncatesToTen(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 25; i++ {
		candidates = append(candidates, Candidate{
			Ticker:      fmt.Sprintf("T%02d", i),
			CO2Emission: float64(25 - i),
		})
	}

	ranked := RankCandidates(candidates)
	require.Len(t, ranked, 10)
	// lowest emission first: the last input candidate had CO2 = 1
	assert.Equal(t, "T24", ranked[0].Ticker)
}

func TestRankCandidates_DoesNotMutateInput(t *testing.T) {
	candidates := []Candidate{
		{Ticker: "B", CO2Emission: 20},
		{Ticker: "A", CO2Emission: 10},
	}

	_ = RankCandidates(candidates)
	assert.Equal(t, "B", candidates[0].Ticker)
}

func TestRankCandidates_EmptyInput(t *testing.T) {
	assert.Empty(t, RankCandidates(nil))
}
