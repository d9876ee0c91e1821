// Package backtest replays the prediction pipeline against historical draws
// to measure whether its ranking is predictive.
package backtest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lottoscope/lottoscope/internal/logger"
	"github.com/lottoscope/lottoscope/internal/models"
	"github.com/lottoscope/lottoscope/internal/pipeline"
	"github.com/lottoscope/lottoscope/internal/stats"
)

// defaultRangeSize is the number of most recent draws replayed when the
// caller does not narrow the range.
const defaultRangeSize = 100

// StepError records one failed backtest step inside a batch. Batches are
// never aborted by a single bad step; failures are collected and skipped.
type StepError struct {
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("backtest step %d: %v", e.Index, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ProgressFunc is called after each completed step of a batch backtest with
// the number of steps processed so far (including skipped ones) and the
// total step count.
type ProgressFunc func(done, total int)

// RangeOptions controls a batch backtest.
type RangeOptions struct {
	// Start and End bound the replayed draw indexes as [Start, End). When
	// both are zero the most recent defaultRangeSize draws are replayed,
	// oldest first.
	Start int
	End   int

	Prediction pipeline.Options
	Progress   ProgressFunc
}

// RangeResult is the outcome of a batch backtest: the per-draw results that
// succeeded plus the steps that failed and were skipped. A partial result
// set is a valid, non-fatal outcome.
type RangeResult struct {
	Results []models.BacktestResult
	Skipped []StepError
}

// Harness replays the pipeline under a strict no-lookahead rule: a backtest
// for draw index i builds a fresh scoring context over draws[0..i-1] only,
// so appending later draws can never change the result for i.
type Harness struct {
	game     models.Game
	draws    []models.Draw
	weights  models.ScoringWeights
	baseSeed int64
}

// NewHarness constructs a harness over the given full draw history. The
// base seed makes every step reproducible: step i always derives the same
// generator seed regardless of which other steps run.
func NewHarness(game models.Game, draws []models.Draw, weights models.ScoringWeights, baseSeed int64) *Harness {
	copied := make([]models.Draw, len(draws))
	copy(copied, draws)
	return &Harness{
		game:     game,
		draws:    copied,
		weights:  weights,
		baseSeed: baseSeed,
	}
}

// BacktestDraw replays the pipeline against draw index i using only the
// draws before it, then buckets every surviving candidate by its exact
// match count against the actual draw.
func (h *Harness) BacktestDraw(i int, opts pipeline.Options) (*models.BacktestResult, error) {
	if i < 0 || i >= len(h.draws) {
		return nil, fmt.Errorf("backtest index %d out of range [0, %d)", i, len(h.draws))
	}

	start := time.Now()
	eng := pipeline.NewEngine(pipeline.EngineConfig{
		Game:    h.game,
		Weights: h.weights,
		Rng:     rand.New(rand.NewSource(h.baseSeed + int64(i))),
	})
	eng.UpdateDraws(h.draws[:i])

	prediction, err := eng.GeneratePredictions(opts)
	if err != nil {
		return nil, fmt.Errorf("predictions for draw %d: %w", i, err)
	}

	actual := h.draws[i]
	result := &models.BacktestResult{
		DrawOrdinal:   actual.Ordinal,
		DrawDate:      actual.Date,
		ActualNumbers: actual.Numbers,
		Combinations:  prediction.Combinations,
		Hits:          make(map[int]int),
	}

	var scoreTotal, hitWeight float64
	for idx := range prediction.Combinations {
		c := &prediction.Combinations[idx]
		scoreTotal += c.Score
		if c.Score > result.TopScore {
			result.TopScore = c.Score
		}
		if match := c.MatchCount(actual); match > 0 {
			result.Hits[match]++
			hitWeight += float64(match)
		}
	}
	if n := len(prediction.Combinations); n > 0 {
		result.AvgScore = scoreTotal / float64(n)
		result.Accuracy = hitWeight / (float64(n) * models.PickCount)
	}
	result.ProcessingTime = time.Since(start)
	return result, nil
}

// BacktestRange replays a range of draws oldest-first. Failed steps are
// logged and skipped; only a structurally invalid range is a hard error.
func (h *Harness) BacktestRange(opts RangeOptions) (*RangeResult, error) {
	start, end := opts.Start, opts.End
	if start == 0 && end == 0 {
		end = len(h.draws)
		start = end - defaultRangeSize
		if start < 0 {
			start = 0
		}
	}
	if start < 0 || end > len(h.draws) || start >= end {
		return nil, fmt.Errorf("backtest range [%d, %d) invalid for %d draws", start, end, len(h.draws))
	}

	total := end - start
	out := &RangeResult{Results: make([]models.BacktestResult, 0, total)}
	for i := start; i < end; i++ {
		result, err := h.BacktestDraw(i, opts.Prediction)
		if err != nil {
			step := StepError{Index: i, Err: err}
			logger.Warn("skipping backtest step: %v", &step)
			out.Skipped = append(out.Skipped, step)
		} else {
			out.Results = append(out.Results, *result)
		}
		if opts.Progress != nil {
			opts.Progress(i-start+1, total)
		}
	}
	return out, nil
}

// Statistics aggregates a batch of backtest results. The score-to-match
// Pearson correlation over every candidate in the batch is the core
// diagnostic of whether composite scores predict outcomes at all.
type Statistics struct {
	Draws                 int                    `json:"draws"`
	TotalPredictions      int                    `json:"total_predictions"`
	MeanAccuracy          float64                `json:"mean_accuracy"`
	MeanScore             float64                `json:"mean_score"`
	HitTotals             map[int]int            `json:"hit_totals"` // match count -> combinations across the batch
	HitRates              map[int]float64        `json:"hit_rates"`  // bucket total / total predictions
	Best                  *models.BacktestResult `json:"best,omitempty"`
	Worst                 *models.BacktestResult `json:"worst,omitempty"`
	ScoreMatchCorrelation float64                `json:"score_match_correlation"`
}

// ComputeStatistics builds aggregate statistics over a result batch. An
// empty batch yields a zeroed block.
func ComputeStatistics(results []models.BacktestResult) *Statistics {
	s := &Statistics{
		Draws:     len(results),
		HitTotals: make(map[int]int),
		HitRates:  make(map[int]float64),
	}
	if len(results) == 0 {
		return s
	}

	accuracies := make([]float64, 0, len(results))
	scores := make([]float64, 0, len(results))
	var flatScores, flatMatches []float64
	for i := range results {
		r := &results[i]
		accuracies = append(accuracies, r.Accuracy)
		scores = append(scores, r.AvgScore)
		s.TotalPredictions += len(r.Combinations)
		for match, count := range r.Hits {
			s.HitTotals[match] += count
		}

		actual := models.Draw{Numbers: r.ActualNumbers}
		for j := range r.Combinations {
			c := &r.Combinations[j]
			flatScores = append(flatScores, c.Score)
			flatMatches = append(flatMatches, float64(c.MatchCount(actual)))
		}

		if s.Best == nil || r.Accuracy > s.Best.Accuracy {
			s.Best = r
		}
		if s.Worst == nil || r.Accuracy < s.Worst.Accuracy {
			s.Worst = r
		}
	}

	s.MeanAccuracy = stats.Mean(accuracies)
	s.MeanScore = stats.Mean(scores)
	if s.TotalPredictions > 0 {
		for match, count := range s.HitTotals {
			s.HitRates[match] = float64(count) / float64(s.TotalPredictions)
		}
	}
	s.ScoreMatchCorrelation = stats.Correlation(flatScores, flatMatches)
	return s
}
