package peers

import "sort"

// shortlistSize bounds the stored recommendation set per holding.
const shortlistSize = 10

// RankCandidates orders qualifying candidates by CO2 emission ascending
// (lowest first) and truncates to the shortlist bound. The sort is stable so
// candidates with identical emissions keep their relative order between runs
// on the same input.
func RankCandidates(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CO2Emission < ranked[j].CO2Emission
	})
	if len(ranked) > shortlistSize {
		ranked = ranked[:shortlistSize]
	}
	return ranked
}
