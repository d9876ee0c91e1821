package backtest

import (
	"time"

	"github.com/lottoscope/lottoscope/internal/models"
	"github.com/lottoscope/lottoscope/internal/stats"
)

// windowSizes are the capacities of the tracker's rolling windows.
var windowSizes = []int{10, 25, 50, 100}

const (
	// trendMinEntries is the smallest window content that supports a
	// trend call; below it the trend is always stable.
	trendMinEntries = 5
	// trendDelta is the half-to-half mean accuracy difference required to
	// call a trend rising or falling.
	trendDelta = 0.02
)

// AccuracyTrend classifies the direction of accuracy over one window.
type AccuracyTrend string

const (
	TrendImproving AccuracyTrend = "improving"
	TrendDeclining AccuracyTrend = "declining"
	TrendStable    AccuracyTrend = "stable"
)

// window is a fixed-capacity FIFO of backtest results, oldest evicted first.
type window struct {
	capacity int
	entries  []models.BacktestResult
}

func (w *window) push(r models.BacktestResult) {
	if len(w.entries) == w.capacity {
		copy(w.entries, w.entries[1:])
		w.entries[len(w.entries)-1] = r
		return
	}
	w.entries = append(w.entries, r)
}

// trend splits the window in half and compares mean accuracy of the halves.
func (w *window) trend() AccuracyTrend {
	n := len(w.entries)
	if n < trendMinEntries {
		return TrendStable
	}
	mid := n / 2
	var older, recent []float64
	for i, e := range w.entries {
		if i < mid {
			older = append(older, e.Accuracy)
		} else {
			recent = append(recent, e.Accuracy)
		}
	}
	diff := stats.Mean(recent) - stats.Mean(older)
	switch {
	case diff > trendDelta:
		return TrendImproving
	case diff < -trendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// AccuracyTracker maintains independent rolling windows of backtest results
// for longitudinal monitoring. Every ingestion updates all windows.
type AccuracyTracker struct {
	windows []*window
	// all retains every ingested result for the global statistics; the
	// windows only answer the trend question.
	all []models.BacktestResult
}

// NewAccuracyTracker constructs a tracker with the standard window sizes.
func NewAccuracyTracker() *AccuracyTracker {
	t := &AccuracyTracker{}
	for _, size := range windowSizes {
		t.windows = append(t.windows, &window{capacity: size})
	}
	return t
}

// Ingest adds one backtest result to every window.
func (t *AccuracyTracker) Ingest(r models.BacktestResult) {
	for _, w := range t.windows {
		w.push(r)
	}
	t.all = append(t.all, r)
}

// Count returns the number of results ingested so far.
func (t *AccuracyTracker) Count() int {
	return len(t.all)
}

// WindowTrends reports the accuracy trend of each window keyed by capacity.
func (t *AccuracyTracker) WindowTrends() map[int]AccuracyTrend {
	trends := make(map[int]AccuracyTrend, len(t.windows))
	for _, w := range t.windows {
		trends[w.capacity] = w.trend()
	}
	return trends
}

// TrackerReport is the serializable longitudinal summary: per-window trends
// plus global descriptive statistics over everything ingested.
type TrackerReport struct {
	Ingested              int                   `json:"ingested"`
	WindowTrends          map[int]AccuracyTrend `json:"window_trends"`
	MeanAccuracy          float64               `json:"mean_accuracy"`
	BestAccuracy          float64               `json:"best_accuracy"`
	WorstAccuracy         float64               `json:"worst_accuracy"`
	StdDevAccuracy        float64               `json:"stddev_accuracy"`
	MedianProcessing      time.Duration         `json:"median_processing"`
	P95Processing         time.Duration         `json:"p95_processing"`
	HitRates              map[int]float64       `json:"hit_rates"`
	ScoreMatchCorrelation float64               `json:"score_match_correlation"`
}

// Report computes the global summary. It recomputes the score-to-match
// correlation itself rather than reusing ComputeStatistics, so the two
// diagnostics stay independently checkable against each other.
func (t *AccuracyTracker) Report() *TrackerReport {
	report := &TrackerReport{
		Ingested:     len(t.all),
		WindowTrends: t.WindowTrends(),
		HitRates:     make(map[int]float64),
	}
	if len(t.all) == 0 {
		return report
	}

	accuracies := make([]float64, 0, len(t.all))
	processing := make([]float64, 0, len(t.all))
	hitTotals := make(map[int]int)
	totalPredictions := 0
	var flatScores, flatMatches []float64

	report.BestAccuracy = t.all[0].Accuracy
	report.WorstAccuracy = t.all[0].Accuracy
	for i := range t.all {
		r := &t.all[i]
		accuracies = append(accuracies, r.Accuracy)
		processing = append(processing, float64(r.ProcessingTime))
		if r.Accuracy > report.BestAccuracy {
			report.BestAccuracy = r.Accuracy
		}
		if r.Accuracy < report.WorstAccuracy {
			report.WorstAccuracy = r.Accuracy
		}
		totalPredictions += len(r.Combinations)
		for match, count := range r.Hits {
			hitTotals[match] += count
		}
		actual := models.Draw{Numbers: r.ActualNumbers}
		for j := range r.Combinations {
			c := &r.Combinations[j]
			flatScores = append(flatScores, c.Score)
			flatMatches = append(flatMatches, float64(c.MatchCount(actual)))
		}
	}

	report.MeanAccuracy = stats.Mean(accuracies)
	report.StdDevAccuracy = stats.StdDev(accuracies)
	report.MedianProcessing = time.Duration(stats.Median(processing))
	report.P95Processing = time.Duration(stats.Percentile(processing, 0.95))
	if totalPredictions > 0 {
		for match, count := range hitTotals {
			report.HitRates[match] = float64(count) / float64(totalPredictions)
		}
	}
	report.ScoreMatchCorrelation = stats.Correlation(flatScores, flatMatches)
	return report
}
