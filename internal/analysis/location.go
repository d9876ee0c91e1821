package analysis

import (
	"math"

	"github.com/lottoscope/lottoscope/internal/models"
	"github.com/lottoscope/lottoscope/internal/stats"
)

const (
	// defaultSumWindow is the trailing window of draw sums the analyzer
	// observes for range, volatility, and pattern detection.
	defaultSumWindow = 20

	// trendHorizon is the number of most recent sums differenced for the
	// trend classification.
	trendHorizon = 5

	// trendDelta is the mean per-draw sum change beyond which the trend is
	// classified rising or falling.
	trendDelta = 1.0

	// maxAutocorrLag bounds the lags inspected for pattern strength.
	maxAutocorrLag = 3
)

// LocationAnalyzer tracks the series of draw sums and derives a
// LocationSnapshot bounding plausible future sums. Like the Profiler, it is
// rebuilt in full on every UpdateDraws call.
type LocationAnalyzer struct {
	window   int
	sums     []float64
	snapshot *models.LocationSnapshot
}

// NewLocationAnalyzer creates an analyzer with the default trailing window.
func NewLocationAnalyzer() *LocationAnalyzer {
	return &LocationAnalyzer{window: defaultSumWindow}
}

// UpdateDraws replaces the analyzer's view of history and recomputes the
// snapshot. With no draws the snapshot becomes unavailable.
func (a *LocationAnalyzer) UpdateDraws(draws []models.Draw) {
	a.sums = make([]float64, len(draws))
	for i := range draws {
		a.sums[i] = float64(draws[i].Sum())
	}
	if len(a.sums) == 0 {
		a.snapshot = nil
		return
	}
	a.snapshot = a.compute()
}

func (a *LocationAnalyzer) compute() *models.LocationSnapshot {
	windowed := a.sums
	if len(windowed) > a.window {
		windowed = windowed[len(windowed)-a.window:]
	}

	snap := &models.LocationSnapshot{
		LastSum: int(a.sums[len(a.sums)-1]),
		AvgSum:  stats.Mean(windowed),
	}

	snap.SumMin = int(windowed[0])
	snap.SumMax = int(windowed[0])
	for _, s := range windowed {
		if int(s) < snap.SumMin {
			snap.SumMin = int(s)
		}
		if int(s) > snap.SumMax {
			snap.SumMax = int(s)
		}
	}

	snap.Volatility = stats.StdDev(windowed)
	snap.SumTrend = classifySumTrend(windowed)
	snap.PatternStrength, snap.Confidence = patternStrength(windowed)

	jumps := make([]float64, 0, len(windowed))
	for i := 1; i < len(windowed); i++ {
		jumps = append(jumps, math.Abs(windowed[i]-windowed[i-1]))
	}
	snap.AvgJump = stats.Mean(jumps)
	snap.JumpVolatility = stats.StdDev(jumps)

	return snap
}

// classifySumTrend differences the most recent sums over a short horizon and
// classifies the mean change.
func classifySumTrend(sums []float64) models.Trend {
	if len(sums) < 2 {
		return models.TrendStable
	}
	horizon := sums
	if len(horizon) > trendHorizon {
		horizon = horizon[len(horizon)-trendHorizon:]
	}
	diffs := make([]float64, 0, len(horizon)-1)
	for i := 1; i < len(horizon); i++ {
		diffs = append(diffs, horizon[i]-horizon[i-1])
	}
	mean := stats.Mean(diffs)
	switch {
	case mean > trendDelta:
		return models.TrendRising
	case mean < -trendDelta:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

// patternStrength derives a strength/confidence pair from the autocorrelation
// of the sum series at lags 1..maxAutocorrLag. Strength is the largest
// absolute autocorrelation seen; confidence is the mean across lags.
func patternStrength(sums []float64) (strength, confidence float64) {
	if len(sums) < maxAutocorrLag+2 {
		return 0, 0
	}
	var total float64
	var count int
	for lag := 1; lag <= maxAutocorrLag; lag++ {
		r := math.Abs(autocorrelation(sums, lag))
		if r > strength {
			strength = r
		}
		total += r
		count++
	}
	if count > 0 {
		confidence = total / float64(count)
	}
	return strength, confidence
}

// autocorrelation computes the lag-k autocorrelation of the series.
func autocorrelation(series []float64, lag int) float64 {
	if lag <= 0 || len(series) <= lag+1 {
		return 0
	}
	return stats.Correlation(series[:len(series)-lag], series[lag:])
}

// Snapshot returns the current snapshot, or false when no history is loaded.
func (a *LocationAnalyzer) Snapshot() (*models.LocationSnapshot, bool) {
	if a.snapshot == nil {
		return nil, false
	}
	return a.snapshot, true
}

// OverUnder compares the most recent sum against the trailing average:
// "over" when above it, "under" when below, "even" when equal or when no
// history is loaded.
func (a *LocationAnalyzer) OverUnder() string {
	if a.snapshot == nil {
		return "even"
	}
	last := float64(a.snapshot.LastSum)
	switch {
	case last > a.snapshot.AvgSum:
		return "over"
	case last < a.snapshot.AvgSum:
		return "under"
	default:
		return "even"
	}
}

// PredictedRange returns a plausible sum range for the next draw: the last
// sum plus or minus the average jump widened by one jump-volatility. Returns
// false when no history is loaded.
func (a *LocationAnalyzer) PredictedRange() (low, high int, ok bool) {
	if a.snapshot == nil {
		return 0, 0, false
	}
	spread := a.snapshot.AvgJump + a.snapshot.JumpVolatility
	low = int(math.Floor(float64(a.snapshot.LastSum) - spread))
	high = int(math.Ceil(float64(a.snapshot.LastSum) + spread))
	minSum := models.PickCount * (models.PickCount + 1) / 2
	if low < minSum {
		low = minSum
	}
	return low, high, true
}
