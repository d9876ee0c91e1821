package backtest

import (
	"testing"
	"time"

	"github.com/lottoscope/lottoscope/internal/models"
)

func accuracyResult(ordinal int, accuracy float64) models.BacktestResult {
	return models.BacktestResult{
		DrawOrdinal:    ordinal,
		DrawDate:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, ordinal),
		ActualNumbers:  [models.PickCount]int{1, 2, 3, 4, 5},
		Accuracy:       accuracy,
		Hits:           map[int]int{},
		ProcessingTime: time.Duration(ordinal%7+1) * time.Millisecond,
	}
}

func TestWindowCapacityAndEviction(t *testing.T) {
	w := &window{capacity: 10}
	for i := 1; i <= 15; i++ {
		w.push(accuracyResult(i, 0.1))
		if len(w.entries) > 10 {
			t.Fatalf("window exceeded capacity after %d pushes: %d entries", i, len(w.entries))
		}
	}
	if len(w.entries) != 10 {
		t.Fatalf("expected full window, got %d entries", len(w.entries))
	}
	// Oldest five evicted; entries are ordinals 6..15 in order.
	for i, e := range w.entries {
		if e.DrawOrdinal != i+6 {
			t.Errorf("entry %d: ordinal %d, want %d", i, e.DrawOrdinal, i+6)
		}
	}
}

func TestWindowTrendClassification(t *testing.T) {
	tests := []struct {
		name       string
		accuracies []float64
		want       AccuracyTrend
	}{
		{"too few entries", []float64{0.0, 0.5, 0.9, 1.0}, TrendStable},
		{"improving", []float64{0.10, 0.10, 0.10, 0.20, 0.20, 0.20}, TrendImproving},
		{"declining", []float64{0.30, 0.30, 0.30, 0.10, 0.10, 0.10}, TrendDeclining},
		{"flat", []float64{0.20, 0.20, 0.20, 0.21, 0.20, 0.20}, TrendStable},
		{"just inside delta", []float64{0.20, 0.20, 0.20, 0.22, 0.22, 0.22}, TrendStable},
		{"odd length improving", []float64{0.10, 0.10, 0.30, 0.30, 0.30}, TrendImproving},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &window{capacity: 100}
			for i, a := range tt.accuracies {
				w.push(accuracyResult(i+1, a))
			}
			if got := w.trend(); got != tt.want {
				t.Errorf("trend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrackerIngestUpdatesAllWindows(t *testing.T) {
	tracker := NewAccuracyTracker()
	for i := 1; i <= 30; i++ {
		tracker.Ingest(accuracyResult(i, float64(i)/100))
	}
	if tracker.Count() != 30 {
		t.Fatalf("expected 30 ingested, got %d", tracker.Count())
	}

	for _, w := range tracker.windows {
		want := w.capacity
		if want > 30 {
			want = 30
		}
		if len(w.entries) != want {
			t.Errorf("window %d: %d entries, want %d", w.capacity, len(w.entries), want)
		}
	}

	// Accuracy rises steadily, so every window with enough entries reports
	// an improving trend.
	trends := tracker.WindowTrends()
	for _, size := range []int{10, 25, 50} {
		if trends[size] != TrendImproving {
			t.Errorf("window %d trend = %q, want improving", size, trends[size])
		}
	}
}

func TestTrackerReport(t *testing.T) {
	tracker := NewAccuracyTracker()

	r1 := syntheticResult(1, 0.10, map[int]int{1: 2}, 5)
	r2 := syntheticResult(2, 0.30, map[int]int{2: 1}, 5)
	tracker.Ingest(r1)
	tracker.Ingest(r2)

	report := tracker.Report()
	if report.Ingested != 2 {
		t.Fatalf("expected 2 ingested, got %d", report.Ingested)
	}
	if got := report.MeanAccuracy; got < 0.199 || got > 0.201 {
		t.Errorf("mean accuracy = %v, want 0.2", got)
	}
	if report.BestAccuracy != 0.30 || report.WorstAccuracy != 0.10 {
		t.Errorf("best/worst = %v/%v, want 0.30/0.10", report.BestAccuracy, report.WorstAccuracy)
	}
	if report.StdDevAccuracy <= 0 {
		t.Errorf("expected positive accuracy stddev, got %v", report.StdDevAccuracy)
	}
	if report.HitRates[1] != 0.2 || report.HitRates[2] != 0.1 {
		t.Errorf("unexpected hit rates: %v", report.HitRates)
	}
	if report.MedianProcessing <= 0 || report.P95Processing < report.MedianProcessing {
		t.Errorf("unexpected processing stats: median=%v p95=%v",
			report.MedianProcessing, report.P95Processing)
	}
	if len(report.WindowTrends) != len(windowSizes) {
		t.Errorf("expected %d window trends, got %d", len(windowSizes), len(report.WindowTrends))
	}
}

func TestTrackerReportEmpty(t *testing.T) {
	report := NewAccuracyTracker().Report()
	if report.Ingested != 0 || report.MeanAccuracy != 0 || len(report.HitRates) != 0 {
		t.Errorf("expected zeroed report, got %+v", report)
	}
	for size, trend := range report.WindowTrends {
		if trend != TrendStable {
			t.Errorf("window %d: trend %q, want stable", size, trend)
		}
	}
}
