package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Factor names used as keys in ScoringWeights and FactorScores.
// A factor whose name is absent from the active weight map contributes zero
// to the composite score, so weights can be tuned without code changes.
const (
	FactorRecurrence  = "recurrence"
	FactorSkip        = "skip"
	FactorPair        = "pair"
	FactorTriple      = "triple"
	FactorSum         = "sum"
	FactorHotCold     = "hotCold"
	FactorLocationFit = "location"
)

// FactorNames lists every factor in the fixed order used for confidence and
// reasoning evaluation.
var FactorNames = []string{
	FactorRecurrence,
	FactorSkip,
	FactorPair,
	FactorTriple,
	FactorSum,
	FactorHotCold,
	FactorLocationFit,
}

// FactorScores holds the seven per-factor scores of a combination, each on a
// 0-100 scale.
type FactorScores map[string]float64

// Values returns the factor scores in FactorNames order.
func (f FactorScores) Values() []float64 {
	vals := make([]float64, 0, len(FactorNames))
	for _, name := range FactorNames {
		vals = append(vals, f[name])
	}
	return vals
}

// Combination represents one candidate set of primary numbers together with
// its derived features and, once scored, its factor scores, composite score,
// confidence, and reasoning. A scored combination is never mutated.
type Combination struct {
	Numbers      []int        `json:"numbers"` // ascending, PickCount entries
	Sum          int          `json:"sum"`
	OddCount     int          `json:"odd_count"`
	EvenCount    int          `json:"even_count"`
	HighCount    int          `json:"high_count"` // numbers above PrimaryMax/2
	LowCount     int          `json:"low_count"`
	LeadingClass string       `json:"leading_class"` // sorted leading digits, e.g. "0-1-2-3-6"
	Factors      FactorScores `json:"factors,omitempty"`
	Score        float64      `json:"score"`
	Confidence   float64      `json:"confidence"`
	Reasoning    []string     `json:"reasoning,omitempty"`
}

// NewCombination builds an unscored combination from the given numbers,
// deriving sum, parity, high/low, and leading-digit features. The input slice
// is copied and sorted; it is not validated here (see Validate).
func NewCombination(numbers []int, g Game) Combination {
	nums := make([]int, len(numbers))
	copy(nums, numbers)
	sort.Ints(nums)

	c := Combination{Numbers: nums}
	leading := make([]string, 0, len(nums))
	for _, n := range nums {
		c.Sum += n
		if n%2 == 0 {
			c.EvenCount++
		} else {
			c.OddCount++
		}
		if n > g.PrimaryMax/2 {
			c.HighCount++
		} else {
			c.LowCount++
		}
		leading = append(leading, strconv.Itoa(n/10))
	}
	c.LeadingClass = strings.Join(leading, "-")
	return c
}

// Validate checks that the combination has exactly PickCount distinct numbers
// within the game's primary range. A violation here indicates a malformed
// candidate, not a scoring failure.
func (c *Combination) Validate(g Game) error {
	if len(c.Numbers) != PickCount {
		return fmt.Errorf("combination must have %d numbers, got %d", PickCount, len(c.Numbers))
	}
	seen := make(map[int]bool, PickCount)
	for _, n := range c.Numbers {
		if n < 1 || n > g.PrimaryMax {
			return fmt.Errorf("number %d out of range [1, %d]", n, g.PrimaryMax)
		}
		if seen[n] {
			return fmt.Errorf("duplicate number %d", n)
		}
		seen[n] = true
	}
	return nil
}

// Key returns the canonical identity of the combination: its sorted numbers
// joined by dashes. Two combinations with the same numbers share a key.
func (c *Combination) Key() string {
	parts := make([]string, len(c.Numbers))
	for i, n := range c.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// MatchCount returns how many of the combination's numbers appear among the
// draw's primary numbers.
func (c *Combination) MatchCount(d Draw) int {
	count := 0
	for _, n := range c.Numbers {
		if d.ContainsPrimary(n) {
			count++
		}
	}
	return count
}
