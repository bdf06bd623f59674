package domain

// Dosages is a dosage vector aligned index-wise with a Combination.
type Dosages []float64

// Match is one result row: a combination, its optimized dosages, and the
// match percentage they achieve against the query's target composition.
type Match struct {
	MatchPercentage float64
	Combination     Combination
	Dosages         Dosages
}

// MembershipKey returns the order-independent de-duplication key for a
// combination: its members sorted and joined, so two tuples with the same
// ids in different orders collide in a set/map.
func MembershipKey(combo Combination) string {
	if len(combo) == 0 {
		return ""
	}
	sorted := make([]string, len(combo))
	copy(sorted, combo)
	insertionSort(sorted)
	key := sorted[0]
	for _, id := range sorted[1:] {
		key += "\x00" + id
	}
	return key
}

// insertionSort sorts small string slices in place. Combinations are bounded
// by max_cformulas+max_sformulas, always small enough that insertion sort's
// simplicity outweighs sort.Strings's overhead, and it keeps this package
// free of the sort import for such a narrow use.
func insertionSort(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
