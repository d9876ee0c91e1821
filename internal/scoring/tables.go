package scoring

import (
	"sort"

	"github.com/lottoscope/lottoscope/internal/models"
)

// Table sizes for recurring number groups.
const (
	topPairCount   = 20
	topTripleCount = 10
)

// PairStat records how often an unordered pair of numbers co-occurred within
// historical primary sets.
type PairStat struct {
	Numbers [2]int `json:"numbers"` // ascending
	Count   int    `json:"count"`
}

// TripleStat records how often an unordered triple of numbers co-occurred
// within historical primary sets.
type TripleStat struct {
	Numbers [3]int `json:"numbers"` // ascending
	Count   int    `json:"count"`
}

// BuildPairTable returns the top-k most frequent pairs across all draws by raw
// count, ties broken by discovery order (the draw in which the pair was first
// seen).
func BuildPairTable(draws []models.Draw, k int) []PairStat {
	counts := make(map[[2]int]int)
	firstSeen := make(map[[2]int]int)
	order := 0

	for i := range draws {
		nums := draws[i].SortedNumbers()
		for a := 0; a < len(nums); a++ {
			for b := a + 1; b < len(nums); b++ {
				key := [2]int{nums[a], nums[b]}
				if _, seen := counts[key]; !seen {
					firstSeen[key] = order
					order++
				}
				counts[key]++
			}
		}
	}

	pairs := make([]PairStat, 0, len(counts))
	for key, count := range counts {
		pairs = append(pairs, PairStat{Numbers: key, Count: count})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return firstSeen[pairs[i].Numbers] < firstSeen[pairs[j].Numbers]
	})

	if k > len(pairs) {
		k = len(pairs)
	}
	return pairs[:k]
}

// BuildTripleTable returns the top-k most frequent triples across all draws,
// with the same ordering rules as BuildPairTable.
func BuildTripleTable(draws []models.Draw, k int) []TripleStat {
	counts := make(map[[3]int]int)
	firstSeen := make(map[[3]int]int)
	order := 0

	for i := range draws {
		nums := draws[i].SortedNumbers()
		for a := 0; a < len(nums); a++ {
			for b := a + 1; b < len(nums); b++ {
				for c := b + 1; c < len(nums); c++ {
					key := [3]int{nums[a], nums[b], nums[c]}
					if _, seen := counts[key]; !seen {
						firstSeen[key] = order
						order++
					}
					counts[key]++
				}
			}
		}
	}

	triples := make([]TripleStat, 0, len(counts))
	for key, count := range counts {
		triples = append(triples, TripleStat{Numbers: key, Count: count})
	}
	sort.SliceStable(triples, func(i, j int) bool {
		if triples[i].Count != triples[j].Count {
			return triples[i].Count > triples[j].Count
		}
		return firstSeen[triples[i].Numbers] < firstSeen[triples[j].Numbers]
	})

	if k > len(triples) {
		k = len(triples)
	}
	return triples[:k]
}
