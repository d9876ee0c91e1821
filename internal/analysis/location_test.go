package analysis

import (
	"testing"

	"github.com/lottoscope/lottoscope/internal/models"
)

func TestLocationAnalyzerEmptyHistory(t *testing.T) {
	a := NewLocationAnalyzer()
	a.UpdateDraws(nil)

	if _, ok := a.Snapshot(); ok {
		t.Error("Snapshot() ok = true for empty history")
	}
	if got := a.OverUnder(); got != "even" {
		t.Errorf("OverUnder() = %q, want even", got)
	}
	if _, _, ok := a.PredictedRange(); ok {
		t.Error("PredictedRange() ok = true for empty history")
	}
}

func TestLocationAnalyzerConstantSums(t *testing.T) {
	a := NewLocationAnalyzer()
	a.UpdateDraws(repeatingDrawsConstant(t, 15))

	snap, ok := a.Snapshot()
	if !ok {
		t.Fatal("Snapshot() not available")
	}
	if snap.SumMin != snap.SumMax {
		t.Errorf("constant sums: range [%d, %d], want degenerate", snap.SumMin, snap.SumMax)
	}
	if snap.Volatility != 0 {
		t.Errorf("Volatility = %v, want 0", snap.Volatility)
	}
	if snap.AvgJump != 0 {
		t.Errorf("AvgJump = %v, want 0", snap.AvgJump)
	}
	if snap.SumTrend != models.TrendStable {
		t.Errorf("SumTrend = %q, want stable", snap.SumTrend)
	}
	if got := a.OverUnder(); got != "even" {
		t.Errorf("OverUnder() = %q, want even", got)
	}
}

// repeatingDrawsConstant builds n draws with identical numbers (constant sum).
func repeatingDrawsConstant(t *testing.T, n int) []models.Draw {
	t.Helper()
	sets := make([][6]int, 0, n)
	for i := 0; i < n; i++ {
		sets = append(sets, [6]int{3, 11, 22, 33, 44, 9})
	}
	return makeDraws(t, sets)
}

func TestLocationAnalyzerRisingSums(t *testing.T) {
	// Sums strictly increasing: 3+11+22+33+44=113, then shift the last
	// number up by 2 each draw.
	sets := make([][6]int, 0, 10)
	for i := 0; i < 10; i++ {
		sets = append(sets, [6]int{3, 11, 22, 33, 44 + 2*i, 9})
	}
	a := NewLocationAnalyzer()
	a.UpdateDraws(makeDraws(t, sets))

	snap, ok := a.Snapshot()
	if !ok {
		t.Fatal("Snapshot() not available")
	}
	if snap.SumTrend != models.TrendRising {
		t.Errorf("SumTrend = %q, want rising", snap.SumTrend)
	}
	if snap.SumMin != 113 || snap.SumMax != 131 {
		t.Errorf("range = [%d, %d], want [113, 131]", snap.SumMin, snap.SumMax)
	}
	if snap.AvgJump != 2 {
		t.Errorf("AvgJump = %v, want 2", snap.AvgJump)
	}
	if got := a.OverUnder(); got != "over" {
		t.Errorf("OverUnder() = %q, want over", got)
	}

	low, high, ok := a.PredictedRange()
	if !ok {
		t.Fatal("PredictedRange() not available")
	}
	if low > snap.LastSum || high < snap.LastSum {
		t.Errorf("predicted range [%d, %d] does not bracket last sum %d", low, high, snap.LastSum)
	}
}

func TestLocationAnalyzerTrailingWindow(t *testing.T) {
	// 30 draws: first 10 with a low sum, remaining 20 with a high constant sum.
	// The 20-draw window must exclude the early low sums from the range.
	sets := make([][6]int, 0, 30)
	for i := 0; i < 10; i++ {
		sets = append(sets, [6]int{1, 2, 3, 4, 5, 9})
	}
	for i := 0; i < 20; i++ {
		sets = append(sets, [6]int{3, 11, 22, 33, 44, 9})
	}
	a := NewLocationAnalyzer()
	a.UpdateDraws(makeDraws(t, sets))

	snap, _ := a.Snapshot()
	if snap.SumMin != 113 {
		t.Errorf("SumMin = %d, want 113 (early draws outside window)", snap.SumMin)
	}
}

func TestLocationAnalyzerRecomputeOnUpdate(t *testing.T) {
	a := NewLocationAnalyzer()
	a.UpdateDraws(repeatingDrawsConstant(t, 10))
	if _, ok := a.Snapshot(); !ok {
		t.Fatal("snapshot missing after first update")
	}

	a.UpdateDraws(nil)
	if _, ok := a.Snapshot(); ok {
		t.Error("snapshot still present after empty update")
	}
}
