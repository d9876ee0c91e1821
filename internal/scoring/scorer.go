// Package scoring turns candidate combinations into fully scored ones using a
// seven-factor composite algorithm:
//
//	composite = Σ factorScore × weight[factorName]
//
// Recurrence and skip alignment reward numbers that appear often and recently.
// Pair and triple scores reward combinations containing historically recurring
// groups. The sum and location-fit scores reward combinations whose sum falls
// inside the range the LocationAnalyzer considers plausible. The hot/cold
// score rewards numbers the Profiler currently classifies as active.
//
// Scoring is a pure, deterministic function of (combination, precomputed
// tables, weights) — no randomness is involved.
package scoring

import (
	"fmt"

	"github.com/lottoscope/lottoscope/internal/analysis"
	"github.com/lottoscope/lottoscope/internal/models"
	"github.com/lottoscope/lottoscope/internal/stats"
)

// unseenSkip is the skip assigned to numbers that have never appeared, large
// enough to land in the worst step of every skip-based factor.
const unseenSkip = 999

// Confidence bounds.
const (
	minConfidence = 0.1
	maxConfidence = 0.9
)

// Scorer computes composite scores for candidate combinations. Construction
// and UpdateDraws precompute per-number skips, frequencies, and the top
// pair/triple tables; Score itself is pure.
type Scorer struct {
	game     models.Game
	profiler *analysis.Profiler
	location *analysis.LocationAnalyzer
	weights  models.ScoringWeights

	skips     map[int]int
	freqs     map[int]float64
	pairs     []PairStat
	triples   []TripleStat
	pairSet   map[[2]int]bool
	tripleSet map[[3]int]bool
}

// NewScorer creates a Scorer bound to the given analyzers. The analyzers are
// shared with the rest of the engine; the scorer never mutates them.
func NewScorer(game models.Game, profiler *analysis.Profiler, location *analysis.LocationAnalyzer, weights models.ScoringWeights) *Scorer {
	return &Scorer{
		game:      game,
		profiler:  profiler,
		location:  location,
		weights:   weights.Clone(),
		skips:     make(map[int]int),
		freqs:     make(map[int]float64),
		pairSet:   make(map[[2]int]bool),
		tripleSet: make(map[[3]int]bool),
	}
}

// UpdateDraws recomputes the scorer's precomputed tables from the history.
// Skips and frequencies are tracked over primary appearances only, separately
// from the Profiler's conflated universe.
func (s *Scorer) UpdateDraws(draws []models.Draw) {
	s.skips = make(map[int]int, s.game.PrimaryMax)
	s.freqs = make(map[int]float64, s.game.PrimaryMax)

	total := len(draws)
	lastSeen := make(map[int]int)
	counts := make(map[int]int)
	for i := range draws {
		for _, n := range draws[i].Numbers {
			lastSeen[n] = i
			counts[n]++
		}
	}
	for n := 1; n <= s.game.PrimaryMax; n++ {
		if idx, seen := lastSeen[n]; seen {
			s.skips[n] = (total - 1) - idx
		} else {
			s.skips[n] = unseenSkip
		}
		if total > 0 {
			s.freqs[n] = float64(counts[n]) / float64(total)
		}
	}

	s.pairs = BuildPairTable(draws, topPairCount)
	s.triples = BuildTripleTable(draws, topTripleCount)
	s.pairSet = make(map[[2]int]bool, len(s.pairs))
	for _, p := range s.pairs {
		s.pairSet[p.Numbers] = true
	}
	s.tripleSet = make(map[[3]int]bool, len(s.triples))
	for _, tr := range s.triples {
		s.tripleSet[tr.Numbers] = true
	}
}

// SetWeights replaces the active weight map (shallow merge onto the current
// weights, so partial updates keep unmentioned factors intact).
func (s *Scorer) SetWeights(updates models.ScoringWeights) {
	s.weights = s.weights.Merge(updates)
}

// Weights returns a copy of the active weight map.
func (s *Scorer) Weights() models.ScoringWeights {
	return s.weights.Clone()
}

// Pairs returns the current top-pair table.
func (s *Scorer) Pairs() []PairStat { return s.pairs }

// Triples returns the current top-triple table.
func (s *Scorer) Triples() []TripleStat { return s.triples }

// Score builds a fully scored Combination from the given numbers. Malformed
// candidates (wrong arity, out-of-range, duplicates) are precondition
// violations and return an error rather than a degraded score.
func (s *Scorer) Score(numbers []int) (models.Combination, error) {
	c := models.NewCombination(numbers, s.game)
	if err := c.Validate(s.game); err != nil {
		return models.Combination{}, fmt.Errorf("invalid candidate: %w", err)
	}

	skips := make([]int, len(c.Numbers))
	freqs := make([]float64, len(c.Numbers))
	statuses := make([]models.NumberStatus, len(c.Numbers))
	for i, n := range c.Numbers {
		skips[i] = s.skipFor(n)
		freqs[i] = s.freqs[n]
		statuses[i] = s.statusFor(n)
	}

	snap, _ := s.location.Snapshot()

	factors := models.FactorScores{
		models.FactorRecurrence:  RecurrenceScore(freqs, skips),
		models.FactorSkip:        SkipAlignmentScore(skips),
		models.FactorPair:        PairScore(c.Numbers, s.pairSet),
		models.FactorTriple:      TripleScore(c.Numbers, s.tripleSet),
		models.FactorSum:         SumScore(c.Sum, snap),
		models.FactorHotCold:     HotColdScore(statuses),
		models.FactorLocationFit: LocationFitScore(snap),
	}

	c.Factors = factors
	c.Score = CompositeScore(factors, s.weights)
	c.Confidence = ConfidenceScore(factors)
	c.Reasoning = BuildReasoning(factors)
	return c, nil
}

func (s *Scorer) skipFor(n int) int {
	if skip, ok := s.skips[n]; ok {
		return skip
	}
	return unseenSkip
}

func (s *Scorer) statusFor(n int) models.NumberStatus {
	if profile, ok := s.profiler.Profile(n); ok {
		return profile.Status
	}
	return models.StatusCold
}

// RecurrenceScore is the mean over the combination's numbers of
// frequency×100, plus a 20-point recency bonus for numbers seen within the
// last 5 draws.
func RecurrenceScore(freqs []float64, skips []int) float64 {
	if len(freqs) == 0 {
		return 0
	}
	var total float64
	for i, freq := range freqs {
		score := freq * 100
		if skips[i] <= 5 {
			score += 20
		}
		total += score
	}
	return total / float64(len(freqs))
}

// SkipAlignmentScore is the mean over the numbers of a step function on the
// current skip: recently seen numbers score high, long-absent ones low.
func SkipAlignmentScore(skips []int) float64 {
	if len(skips) == 0 {
		return 0
	}
	var total float64
	for _, skip := range skips {
		switch {
		case skip <= 10:
			total += 80
		case skip <= 20:
			total += 60
		case skip <= 30:
			total += 40
		default:
			total += 20
		}
	}
	return total / float64(len(skips))
}

// PairScore is the fraction of the combination's C(5,2)=10 pairs found in the
// top-pair table, scaled to 0-100.
func PairScore(numbers []int, pairSet map[[2]int]bool) float64 {
	found := 0
	for a := 0; a < len(numbers); a++ {
		for b := a + 1; b < len(numbers); b++ {
			if pairSet[[2]int{numbers[a], numbers[b]}] {
				found++
			}
		}
	}
	return float64(found) / 10 * 100
}

// TripleScore is the fraction of the combination's C(5,3)=10 triples found in
// the top-triple table, scaled to 0-100.
func TripleScore(numbers []int, tripleSet map[[3]int]bool) float64 {
	found := 0
	for a := 0; a < len(numbers); a++ {
		for b := a + 1; b < len(numbers); b++ {
			for c := b + 1; c < len(numbers); c++ {
				if tripleSet[[3]int{numbers[a], numbers[b], numbers[c]}] {
					found++
				}
			}
		}
	}
	return float64(found) / 10 * 100
}

// SumScore rates how well the combination's sum fits the observed sum range.
// Inside the range the score falls linearly from 100 at the midpoint to 0 at
// the edges; outside it decays from 50 with distance. Defaults to 50 when no
// snapshot exists yet.
func SumScore(sum int, snap *models.LocationSnapshot) float64 {
	if snap == nil {
		return 50
	}
	mid := snap.Midpoint()
	half := snap.HalfRange()
	dist := float64(sum) - mid
	if dist < 0 {
		dist = -dist
	}

	if sum >= snap.SumMin && sum <= snap.SumMax {
		if half == 0 {
			return 100
		}
		return 100 * (1 - dist/half)
	}
	score := 50 - dist
	if score < 0 {
		score = 0
	}
	return score
}

// HotColdScore maps each number's status to points and averages them.
func HotColdScore(statuses []models.NumberStatus) float64 {
	if len(statuses) == 0 {
		return 0
	}
	points := map[models.NumberStatus]float64{
		models.StatusHot:    80,
		models.StatusWarm:   60,
		models.StatusCold:   40,
		models.StatusFrozen: 20,
	}
	var total float64
	for _, status := range statuses {
		total += points[status]
	}
	return total / float64(len(statuses))
}

// LocationFitScore is (patternStrength + confidence) × 50, or 50 when no
// snapshot is available.
func LocationFitScore(snap *models.LocationSnapshot) float64 {
	if snap == nil {
		return 50
	}
	return (snap.PatternStrength + snap.Confidence) * 50
}

// CompositeScore sums factorScore × weight over the weight map. Factors whose
// name is absent from the map contribute zero.
func CompositeScore(factors models.FactorScores, weights models.ScoringWeights) float64 {
	var total float64
	for _, name := range models.FactorNames {
		total += factors[name] * weights[name]
	}
	return total
}

// ConfidenceScore derives a 0.1-0.9 confidence from the spread of the factor
// scores: tightly agreeing factors yield high confidence, divergent ones low.
// A zero mean (undefined ratio) yields the floor.
func ConfidenceScore(factors models.FactorScores) float64 {
	values := factors.Values()
	mean := stats.Mean(values)
	if mean == 0 {
		return minConfidence
	}
	conf := 1 - stats.StdDev(values)/mean
	return stats.Round2(stats.Clamp(conf, minConfidence, maxConfidence))
}

// reasoningRule pairs a factor threshold with its human-readable clause.
// Rules are evaluated in fixed order.
type reasoningRule struct {
	factor    string
	threshold float64
	clause    string
}

var reasoningRules = []reasoningRule{
	{models.FactorRecurrence, 70, "numbers recur frequently in recent draws"},
	{models.FactorSkip, 60, "skip counts align with active appearance cycles"},
	{models.FactorPair, 30, "contains historically common pairs"},
	{models.FactorTriple, 20, "contains historically common triples"},
	{models.FactorSum, 70, "sum sits near the center of the expected range"},
	{models.FactorHotCold, 60, "built mostly from hot and warm numbers"},
	{models.FactorLocationFit, 60, "sum pattern matches the observed trend"},
}

// BuildReasoning evaluates the fixed threshold rules in order and returns a
// clause for each one met, or a single fallback clause when none are.
func BuildReasoning(factors models.FactorScores) []string {
	var reasons []string
	for _, rule := range reasoningRules {
		if factors[rule.factor] > rule.threshold {
			reasons = append(reasons, rule.clause)
		}
	}
	if len(reasons) == 0 {
		reasons = []string{"balanced combination with no standout factors"}
	}
	return reasons
}
