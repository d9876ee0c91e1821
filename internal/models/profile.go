package models

// NumberStatus classifies how active a number currently is, derived from its
// heat score and current skip.
type NumberStatus string

const (
	StatusHot    NumberStatus = "hot"
	StatusWarm   NumberStatus = "warm"
	StatusCold   NumberStatus = "cold"
	StatusFrozen NumberStatus = "frozen"
)

// Trend classifies a short-horizon direction of change.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// NumberProfile holds the full frequency/recency statistics for one number in
// [1, PrimaryMax]. Profiles are recomputed wholesale whenever the draw history
// changes; they are never partially patched.
type NumberProfile struct {
	Number            int          `json:"number"`
	Appearances       int          `json:"appearances"`
	AppearanceIndexes []int        `json:"appearance_indexes"` // draw ordinals where seen, ascending
	SkipSequence      []int        `json:"skip_sequence"`      // gaps between consecutive appearances
	CurrentSkip       int          `json:"current_skip"`       // draws since last seen; total draws if never seen
	Frequency         float64      `json:"frequency"`          // appearances / total draws
	HeatScore         float64      `json:"heat_score"`         // 0-100
	Status            NumberStatus `json:"status"`
	Trend             Trend        `json:"trend"`
	PredictedGap      float64      `json:"predicted_gap"` // expected draws until next appearance, >= 1
}

// AvgSkip returns the mean of the skip sequence, or 0 when the number has
// appeared at most once.
func (p *NumberProfile) AvgSkip() float64 {
	if len(p.SkipSequence) == 0 {
		return 0
	}
	total := 0
	for _, s := range p.SkipSequence {
		total += s
	}
	return float64(total) / float64(len(p.SkipSequence))
}

// Overdue reports whether the number's current skip exceeds its average skip.
func (p *NumberProfile) Overdue() bool {
	avg := p.AvgSkip()
	return avg > 0 && float64(p.CurrentSkip) > avg
}

// LocationSnapshot captures rolling statistics over the series of draw sums.
// It is recomputed wholesale on every history update with the same lifecycle
// as NumberProfile.
type LocationSnapshot struct {
	SumMin          int     `json:"sum_min"`  // min sum over the trailing window
	SumMax          int     `json:"sum_max"`  // max sum over the trailing window
	LastSum         int     `json:"last_sum"` // sum of the most recent draw
	AvgSum          float64 `json:"avg_sum"`  // mean sum over the trailing window
	SumTrend        Trend   `json:"sum_trend"`
	Volatility      float64 `json:"volatility"`       // std dev of windowed sums
	PatternStrength float64 `json:"pattern_strength"` // 0-1, from autocorrelation
	Confidence      float64 `json:"confidence"`       // 0-1
	AvgJump         float64 `json:"avg_jump"`         // mean |sum[i]-sum[i-1]|
	JumpVolatility  float64 `json:"jump_volatility"`  // std dev of jumps
}

// Midpoint returns the center of the snapshot's sum range.
func (s *LocationSnapshot) Midpoint() float64 {
	return float64(s.SumMin+s.SumMax) / 2
}

// HalfRange returns half the width of the snapshot's sum range.
func (s *LocationSnapshot) HalfRange() float64 {
	return float64(s.SumMax-s.SumMin) / 2
}
