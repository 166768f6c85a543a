package search

// LevenshteinScore computes a normalized edit-distance similarity between two
// strings after normalization. 1.0 means equal, 0.0 means nothing in common
// (or one side empty). The distance uses unit-cost insertions, deletions and
// substitutions with a single-row DP table, so the score is symmetric:
// LevenshteinScore(a, b) == LevenshteinScore(b, a).
func LevenshteinScore(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ar := []rune(a)
	br := []rune(b)

	row := make([]int, len(br)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(br); j++ {
			tmp := row[j]
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, prev+cost)
			prev = tmp
		}
	}

	dist := row[len(br)]
	maxLen := max(len(ar), len(br))
	return 1 - float64(dist)/float64(maxLen)
}
