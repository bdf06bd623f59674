package search

import (
	"sort"

	"github.com/aristath/formulary/internal/domain"
)

// SelectTopN de-duplicates matches by unordered-membership key (first
// occurrence wins), drops the empty combination (never a valid final
// result), and keeps the top n by descending match percentage, stable on
// ties so equal-score matches retain their original order.
func SelectTopN(matches []domain.Match, n int) []domain.Match {
	seen := make(map[string]bool, len(matches))
	unique := make([]domain.Match, 0, len(matches))

	for _, m := range matches {
		if len(m.Combination) == 0 {
			continue
		}
		key := domain.MembershipKey(m.Combination)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, m)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].MatchPercentage > unique[j].MatchPercentage
	})

	if n < len(unique) {
		unique = unique[:n]
	}
	return unique
}
