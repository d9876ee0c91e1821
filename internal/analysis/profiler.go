// Package analysis computes per-number and draw-sum statistics from the
// ordered draw history. Both analyzers follow the same lifecycle: UpdateDraws
// discards all derived state and recomputes it in full. Nothing is patched
// incrementally, so a profile always reflects exactly one history.
package analysis

import (
	"sort"

	"github.com/lottoscope/lottoscope/internal/models"
)

// Heat score classification thresholds.
const (
	hotThreshold    = 70.0
	warmThreshold   = 40.0
	frozenSkipLimit = 20

	trendWindow      = 10
	trendChangeRatio = 0.20
)

// Profiler computes a NumberProfile for every number in [1, PrimaryMax].
// A number counts as appearing in a draw when it is among the primary numbers
// or equals the bonus ball and falls inside the primary range; bonus values
// beyond PrimaryMax are ignored (they belong to a disjoint universe).
type Profiler struct {
	game     models.Game
	draws    []models.Draw
	profiles map[int]*models.NumberProfile
}

// NewProfiler creates a Profiler with an empty history.
func NewProfiler(game models.Game) *Profiler {
	return &Profiler{
		game:     game,
		profiles: make(map[int]*models.NumberProfile),
	}
}

// UpdateDraws replaces the profiler's view of history and recomputes every
// profile from scratch.
func (p *Profiler) UpdateDraws(draws []models.Draw) {
	p.draws = draws
	p.profiles = make(map[int]*models.NumberProfile, p.game.PrimaryMax)
	for n := 1; n <= p.game.PrimaryMax; n++ {
		p.profiles[n] = p.buildProfile(n)
	}
}

// appearsIn reports whether number n appears in draw d, counting the bonus
// ball when it shares the primary range.
func (p *Profiler) appearsIn(n int, d *models.Draw) bool {
	if d.ContainsPrimary(n) {
		return true
	}
	return d.Bonus == n && d.Bonus <= p.game.PrimaryMax
}

func (p *Profiler) buildProfile(n int) *models.NumberProfile {
	profile := &models.NumberProfile{
		Number: n,
		Status: models.StatusCold,
		Trend:  models.TrendStable,
	}

	total := len(p.draws)
	for i := range p.draws {
		if p.appearsIn(n, &p.draws[i]) {
			profile.AppearanceIndexes = append(profile.AppearanceIndexes, i)
		}
	}
	profile.Appearances = len(profile.AppearanceIndexes)

	// Skip sequence: gaps between consecutive appearances.
	for i := 1; i < len(profile.AppearanceIndexes); i++ {
		gap := profile.AppearanceIndexes[i] - profile.AppearanceIndexes[i-1] - 1
		profile.SkipSequence = append(profile.SkipSequence, gap)
	}

	if profile.Appearances > 0 {
		last := profile.AppearanceIndexes[len(profile.AppearanceIndexes)-1]
		profile.CurrentSkip = (total - 1) - last
		profile.Frequency = float64(profile.Appearances) / float64(total)
	} else {
		profile.CurrentSkip = total
	}

	profile.HeatScore = heatScore(profile)
	profile.Status = classifyStatus(profile)
	profile.Trend = p.classifyTrend(n)
	profile.PredictedGap = predictGap(profile)

	return profile
}

// heatScore combines a frequency component (capped at 50) with a recency
// component (0-50). A number that has never appeared scores 0.
func heatScore(profile *models.NumberProfile) float64 {
	if profile.Appearances == 0 {
		return 0
	}

	freqComponent := profile.Frequency * 100
	if freqComponent > 50 {
		freqComponent = 50
	}

	recencyComponent := 50.0
	if avg := profile.AvgSkip(); avg > 0 {
		ratio := float64(profile.CurrentSkip) / avg
		if ratio > 2 {
			ratio = 2
		}
		recencyComponent = 50 * (1 - ratio/2)
	}

	return freqComponent + recencyComponent
}

func classifyStatus(profile *models.NumberProfile) models.NumberStatus {
	switch {
	case profile.HeatScore >= hotThreshold:
		return models.StatusHot
	case profile.HeatScore >= warmThreshold:
		return models.StatusWarm
	case profile.CurrentSkip > frozenSkipLimit:
		return models.StatusFrozen
	default:
		return models.StatusCold
	}
}

// classifyTrend compares appearance counts in the last trendWindow draws
// against the preceding trendWindow draws. Requires at least trendWindow draws
// of history; otherwise the trend is stable by default.
func (p *Profiler) classifyTrend(n int) models.Trend {
	total := len(p.draws)
	if total < trendWindow {
		return models.TrendStable
	}

	recentStart := total - trendWindow
	prevStart := recentStart - trendWindow
	if prevStart < 0 {
		prevStart = 0
	}

	recent, previous := 0, 0
	for i := prevStart; i < recentStart; i++ {
		if p.appearsIn(n, &p.draws[i]) {
			previous++
		}
	}
	for i := recentStart; i < total; i++ {
		if p.appearsIn(n, &p.draws[i]) {
			recent++
		}
	}

	if previous == 0 {
		if recent > 0 {
			return models.TrendRising
		}
		return models.TrendStable
	}

	change := float64(recent-previous) / float64(previous)
	switch {
	case change > trendChangeRatio:
		return models.TrendRising
	case change < -trendChangeRatio:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

// predictGap estimates the draws until the number's next appearance: overdue
// numbers are expected sooner (0.7× their average skip), others later (1.3×).
// Always at least 1.
func predictGap(profile *models.NumberProfile) float64 {
	avg := profile.AvgSkip()
	var gap float64
	if profile.Overdue() {
		gap = 0.7 * avg
	} else {
		gap = 1.3 * avg
	}
	if gap < 1 {
		gap = 1
	}
	return gap
}

// Profile returns the profile for number n, or false when n is outside the
// primary range or no history has been loaded.
func (p *Profiler) Profile(n int) (*models.NumberProfile, bool) {
	profile, ok := p.profiles[n]
	return profile, ok
}

// ByStatus returns the profiles currently in the given status, sorted by heat
// score descending (ties by number ascending).
func (p *Profiler) ByStatus(status models.NumberStatus) []*models.NumberProfile {
	var out []*models.NumberProfile
	for n := 1; n <= p.game.PrimaryMax; n++ {
		if profile, ok := p.profiles[n]; ok && profile.Status == status {
			out = append(out, profile)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HeatScore != out[j].HeatScore {
			return out[i].HeatScore > out[j].HeatScore
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// HotNumbers returns up to k numbers currently classified hot, hottest first.
func (p *Profiler) HotNumbers(k int) []int {
	return topNumbers(p.ByStatus(models.StatusHot), k)
}

// WarmNumbers returns up to k numbers currently classified warm, hottest first.
func (p *Profiler) WarmNumbers(k int) []int {
	return topNumbers(p.ByStatus(models.StatusWarm), k)
}

// ColdNumbers returns up to k numbers currently classified cold or frozen,
// coldest (lowest heat) first.
func (p *Profiler) ColdNumbers(k int) []int {
	cold := p.ByStatus(models.StatusCold)
	cold = append(cold, p.ByStatus(models.StatusFrozen)...)
	sort.SliceStable(cold, func(i, j int) bool {
		if cold[i].HeatScore != cold[j].HeatScore {
			return cold[i].HeatScore < cold[j].HeatScore
		}
		return cold[i].Number < cold[j].Number
	})
	return topNumbers(cold, k)
}

func topNumbers(profiles []*models.NumberProfile, k int) []int {
	if k > len(profiles) {
		k = len(profiles)
	}
	nums := make([]int, 0, k)
	for _, profile := range profiles[:k] {
		nums = append(nums, profile.Number)
	}
	return nums
}

// ProfilerStats aggregates the profiler's current state.
type ProfilerStats struct {
	StatusCounts map[models.NumberStatus]int `json:"status_counts"`
	MeanHeat     float64                     `json:"mean_heat"`
	MeanSkip     float64                     `json:"mean_skip"`
}

// Stats returns aggregate statistics over all profiles.
func (p *Profiler) Stats() ProfilerStats {
	stats := ProfilerStats{StatusCounts: make(map[models.NumberStatus]int)}
	if len(p.profiles) == 0 {
		return stats
	}

	var heatTotal, skipTotal float64
	for _, profile := range p.profiles {
		stats.StatusCounts[profile.Status]++
		heatTotal += profile.HeatScore
		skipTotal += float64(profile.CurrentSkip)
	}
	n := float64(len(p.profiles))
	stats.MeanHeat = heatTotal / n
	stats.MeanSkip = skipTotal / n
	return stats
}
