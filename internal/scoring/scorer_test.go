package scoring

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/lottoscope/lottoscope/internal/analysis"
	"github.com/lottoscope/lottoscope/internal/models"
)

func makeDraws(t *testing.T, sets [][6]int) []models.Draw {
	t.Helper()
	g := models.DefaultGame()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	draws := make([]models.Draw, 0, len(sets))
	for i, set := range sets {
		d := models.Draw{
			Ordinal: i,
			Date:    start.AddDate(0, 0, i*3),
			Numbers: [models.PickCount]int{set[0], set[1], set[2], set[3], set[4]},
			Bonus:   set[5],
		}
		if err := d.Validate(g); err != nil {
			t.Fatalf("test draw %d invalid: %v", i, err)
		}
		draws = append(draws, d)
	}
	return draws
}

// newScorer builds a scorer plus analyzers over the given history.
func newScorer(t *testing.T, draws []models.Draw, weights models.ScoringWeights) *Scorer {
	t.Helper()
	g := models.DefaultGame()
	profiler := analysis.NewProfiler(g)
	profiler.UpdateDraws(draws)
	location := analysis.NewLocationAnalyzer()
	location.UpdateDraws(draws)
	s := NewScorer(g, profiler, location, weights)
	s.UpdateDraws(draws)
	return s
}

func sampleHistory(t *testing.T) []models.Draw {
	sets := [][6]int{
		{1, 2, 3, 4, 5, 9},
		{1, 2, 3, 14, 15, 9},
		{1, 2, 23, 24, 25, 9},
		{1, 2, 3, 34, 35, 9},
		{41, 42, 43, 44, 45, 9},
		{1, 2, 3, 4, 55, 9},
		{11, 12, 13, 14, 15, 9},
		{1, 2, 3, 4, 5, 9},
	}
	return makeDraws(t, sets)
}

func TestBuildPairTable(t *testing.T) {
	draws := sampleHistory(t)
	pairs := BuildPairTable(draws, 20)

	if len(pairs) == 0 {
		t.Fatal("empty pair table")
	}
	// {1,2} co-occurs in 6 draws, more than any other pair.
	if pairs[0].Numbers != [2]int{1, 2} {
		t.Errorf("top pair = %v, want [1 2]", pairs[0].Numbers)
	}
	if pairs[0].Count != 6 {
		t.Errorf("top pair count = %d, want 6", pairs[0].Count)
	}
	// Counts must be non-increasing.
	for i := 1; i < len(pairs); i++ {
		if pairs[i].Count > pairs[i-1].Count {
			t.Fatalf("pair table not sorted by count at %d", i)
		}
	}
}

func TestBuildPairTableDiscoveryOrderTieBreak(t *testing.T) {
	// Single draw: every pair has count 1, so ordering must follow the order
	// pairs are enumerated within the sorted draw.
	draws := makeDraws(t, [][6]int{{5, 10, 15, 20, 25, 9}})
	pairs := BuildPairTable(draws, 3)

	want := [][2]int{{5, 10}, {5, 15}, {5, 20}}
	for i, w := range want {
		if pairs[i].Numbers != w {
			t.Errorf("pairs[%d] = %v, want %v", i, pairs[i].Numbers, w)
		}
	}
}

func TestBuildTripleTable(t *testing.T) {
	draws := sampleHistory(t)
	triples := BuildTripleTable(draws, 10)

	if len(triples) != 10 {
		t.Fatalf("triple table len = %d, want 10", len(triples))
	}
	if triples[0].Numbers != [3]int{1, 2, 3} {
		t.Errorf("top triple = %v, want [1 2 3]", triples[0].Numbers)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := newScorer(t, sampleHistory(t), models.DefaultWeights())

	first, err := s.Score([]int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := s.Score([]int{1, 2, 3, 4, 5})
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if again.Score != first.Score || again.Confidence != first.Confidence {
			t.Fatalf("scoring not deterministic: %v/%v vs %v/%v",
				again.Score, again.Confidence, first.Score, first.Confidence)
		}
		if !reflect.DeepEqual(again.Reasoning, first.Reasoning) {
			t.Fatalf("reasoning not deterministic")
		}
	}
}

func TestScoreRejectsMalformedCandidates(t *testing.T) {
	s := newScorer(t, sampleHistory(t), models.DefaultWeights())

	tests := []struct {
		name    string
		numbers []int
	}{
		{"wrong arity", []int{1, 2, 3}},
		{"duplicate", []int{1, 1, 2, 3, 4}},
		{"out of range", []int{1, 2, 3, 4, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Score(tt.numbers); err == nil {
				t.Error("Score() = nil error, want precondition violation")
			}
		})
	}
}

func TestCompositeScoreWeightLinearity(t *testing.T) {
	s := newScorer(t, sampleHistory(t), models.DefaultWeights())
	scored, err := s.Score([]int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	base := models.DefaultWeights()
	baseline := CompositeScore(scored.Factors, base)

	// Scaling one weight by k must change only that factor's contribution by k.
	k := 3.0
	scaled := base.Clone()
	scaled[models.FactorSum] = base[models.FactorSum] * k
	got := CompositeScore(scored.Factors, scaled)
	want := baseline + scored.Factors[models.FactorSum]*base[models.FactorSum]*(k-1)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("scaled composite = %v, want %v", got, want)
	}

	// A factor absent from the weight map contributes zero.
	partial := models.ScoringWeights{models.FactorSum: 1.0}
	if got := CompositeScore(scored.Factors, partial); got != scored.Factors[models.FactorSum] {
		t.Errorf("partial composite = %v, want %v", got, scored.Factors[models.FactorSum])
	}
}

func TestSumScore(t *testing.T) {
	snap := &models.LocationSnapshot{SumMin: 100, SumMax: 200}

	tests := []struct {
		name string
		sum  int
		snap *models.LocationSnapshot
		want float64
	}{
		{"no snapshot", 150, nil, 50},
		{"at midpoint", 150, snap, 100},
		{"at range edge", 200, snap, 0},
		{"halfway out from midpoint", 125, snap, 50},
		{"outside near", 210, snap, 0}, // dist 60 from midpoint -> 50-60 floored at 0
		{"outside far", 400, snap, 0},  // deep outside
		{"just outside", 201, snap, 0}, // dist 51 -> max(0, 50-51)
		{"below range", 90, snap, 0},   // dist 60
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SumScore(tt.sum, tt.snap); got != tt.want {
				t.Errorf("SumScore(%d) = %v, want %v", tt.sum, got, tt.want)
			}
		})
	}

	degenerate := &models.LocationSnapshot{SumMin: 150, SumMax: 150}
	if got := SumScore(150, degenerate); got != 100 {
		t.Errorf("SumScore on degenerate range = %v, want 100", got)
	}
	// Just outside a degenerate range decays from 50.
	if got := SumScore(155, degenerate); got != 45 {
		t.Errorf("SumScore(155) on degenerate range = %v, want 45", got)
	}
}

func TestHotColdScore(t *testing.T) {
	statuses := []models.NumberStatus{
		models.StatusHot, models.StatusHot, models.StatusWarm,
		models.StatusCold, models.StatusFrozen,
	}
	want := (80.0 + 80 + 60 + 40 + 20) / 5
	if got := HotColdScore(statuses); got != want {
		t.Errorf("HotColdScore = %v, want %v", got, want)
	}
}

func TestSkipAlignmentScore(t *testing.T) {
	tests := []struct {
		name  string
		skips []int
		want  float64
	}{
		{"all recent", []int{0, 1, 2, 3, 10}, 80},
		{"all stale", []int{31, 40, 999, 50, 100}, 20},
		{"steps", []int{5, 15, 25, 35, 10}, (80.0 + 60 + 40 + 20 + 80) / 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkipAlignmentScore(tt.skips); got != tt.want {
				t.Errorf("SkipAlignmentScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecurrenceScore(t *testing.T) {
	freqs := []float64{0.5, 0.0}
	skips := []int{3, 100}
	// 0.5*100+20 = 70 for the first, 0 for the second -> mean 35.
	if got := RecurrenceScore(freqs, skips); got != 35 {
		t.Errorf("RecurrenceScore = %v, want 35", got)
	}
}

func TestPairAndTripleScore(t *testing.T) {
	pairSet := map[[2]int]bool{{1, 2}: true, {2, 3}: true}
	// Combination 1-2-3-4-5 has pairs (1,2) and (2,3) in the set: 2/10.
	if got := PairScore([]int{1, 2, 3, 4, 5}, pairSet); got != 20 {
		t.Errorf("PairScore = %v, want 20", got)
	}

	tripleSet := map[[3]int]bool{{1, 2, 3}: true}
	if got := TripleScore([]int{1, 2, 3, 4, 5}, tripleSet); got != 10 {
		t.Errorf("TripleScore = %v, want 10", got)
	}
}

func TestConfidenceScore(t *testing.T) {
	uniform := models.FactorScores{}
	for _, name := range models.FactorNames {
		uniform[name] = 60
	}
	if got := ConfidenceScore(uniform); got != 0.9 {
		t.Errorf("uniform confidence = %v, want 0.9 (ceiling)", got)
	}

	zero := models.FactorScores{}
	if got := ConfidenceScore(zero); got != 0.1 {
		t.Errorf("zero-mean confidence = %v, want 0.1 (floor)", got)
	}

	spread := models.FactorScores{}
	for i, name := range models.FactorNames {
		if i%2 == 0 {
			spread[name] = 100
		}
	}
	got := ConfidenceScore(spread)
	if got < 0.1 || got > 0.9 {
		t.Errorf("confidence %v outside [0.1, 0.9]", got)
	}
}

func TestBuildReasoning(t *testing.T) {
	all := models.FactorScores{}
	for _, name := range models.FactorNames {
		all[name] = 100
	}
	reasons := BuildReasoning(all)
	if len(reasons) != len(reasoningRules) {
		t.Errorf("reasons = %d, want %d", len(reasons), len(reasoningRules))
	}
	// Fixed evaluation order: recurrence clause first.
	if reasons[0] != reasoningRules[0].clause {
		t.Errorf("first reason = %q, want %q", reasons[0], reasoningRules[0].clause)
	}

	none := models.FactorScores{}
	fallback := BuildReasoning(none)
	if len(fallback) != 1 {
		t.Fatalf("fallback reasons = %d, want 1", len(fallback))
	}
}

func TestScorerUnseenNumbersUseDefaultSkip(t *testing.T) {
	s := newScorer(t, sampleHistory(t), models.DefaultWeights())

	// 60s never appear in sampleHistory.
	scored, err := s.Score([]int{60, 61, 62, 63, 64})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got := scored.Factors[models.FactorSkip]; got != 20 {
		t.Errorf("skip factor for unseen numbers = %v, want 20", got)
	}
	if got := scored.Factors[models.FactorRecurrence]; got != 0 {
		t.Errorf("recurrence factor for unseen numbers = %v, want 0", got)
	}
}

func TestSetWeightsMergesPartially(t *testing.T) {
	s := newScorer(t, sampleHistory(t), models.DefaultWeights())
	s.SetWeights(models.ScoringWeights{models.FactorSum: 0.9})

	w := s.Weights()
	if w[models.FactorSum] != 0.9 {
		t.Errorf("sum weight = %v, want 0.9", w[models.FactorSum])
	}
	if w[models.FactorRecurrence] != models.DefaultWeights()[models.FactorRecurrence] {
		t.Errorf("recurrence weight changed by partial update")
	}
}
