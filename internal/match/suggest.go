package match

import (
	"sort"
)

// DefaultSuggestThreshold is the minimum similarity for a name to be suggested.
const DefaultSuggestThreshold = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit names from candidates that look like name,
// best first. Candidates scoring below threshold are dropped.
func Suggest(name string, candidates []string, limit int, threshold float64) []string {
	var ranked []scored

	for _, c := range candidates {
		s := Similarity(name, c)
		if s < threshold {
			continue
		}

		ranked = append(ranked, scored{name: c, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}
