package models

import (
	"errors"
	"time"
)

// PredictionMeta aggregates descriptive statistics over the surviving
// combinations of one prediction run. An empty run produces a fully zeroed
// meta block, never a nil one, so downstream aggregation needs no nil checks.
type PredictionMeta struct {
	AvgSum        float64 `json:"avg_sum"`
	AvgOddCount   float64 `json:"avg_odd_count"`
	HotNumbers    []int   `json:"hot_numbers"`
	ColdNumbers   []int   `json:"cold_numbers"`
	SumMin        int     `json:"sum_min"`
	SumMax        int     `json:"sum_max"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// PredictionResult is the immutable output of one prediction run: the ranked
// surviving combinations plus aggregate metadata and phase timings.
type PredictionResult struct {
	ID             string         `json:"id"`
	GeneratedAt    time.Time      `json:"generated_at"`
	Combinations   []Combination  `json:"combinations"` // sorted by Score descending
	Meta           PredictionMeta `json:"meta"`
	GeneratedCount int            `json:"generated_count"` // pool size before filtering
	FilteredCount  int            `json:"filtered_count"`  // pool size after filtering
	GenerationTime time.Duration  `json:"generation_time"`
	ScoringTime    time.Duration  `json:"scoring_time"`
}

// BacktestResult records the outcome of replaying the prediction pipeline
// against one historical draw using only the draws before it.
type BacktestResult struct {
	DrawOrdinal    int            `json:"draw_ordinal"`
	DrawDate       time.Time      `json:"draw_date"`
	ActualNumbers  [PickCount]int `json:"actual_numbers"`
	Combinations   []Combination  `json:"combinations"` // ranked predictions for this draw
	Hits           map[int]int    `json:"hits"`         // match count (1..PickCount) -> combinations
	Accuracy       float64        `json:"accuracy"`     // weighted hit density in [0, 1]
	TopScore       float64        `json:"top_score"`    // best composite score in the set
	AvgScore       float64        `json:"avg_score"`    // mean composite score
	ProcessingTime time.Duration  `json:"processing_time"`
}

// Validate checks the structural invariants of a backtest result.
func (r *BacktestResult) Validate() error {
	if r.DrawOrdinal < 0 {
		return errors.New("draw ordinal must not be negative")
	}
	if r.DrawDate.IsZero() {
		return errors.New("draw date must not be zero")
	}
	if r.Accuracy < 0.0 || r.Accuracy > 1.0 {
		return errors.New("accuracy must be between 0.0 and 1.0")
	}
	for match, count := range r.Hits {
		if match < 1 || match > PickCount {
			return errors.New("hit bucket key must be between 1 and PickCount")
		}
		if count < 0 {
			return errors.New("hit bucket count must not be negative")
		}
	}
	return nil
}

// TotalHits returns the number of predicted combinations that matched the
// actual draw at least once.
func (r *BacktestResult) TotalHits() int {
	total := 0
	for _, count := range r.Hits {
		total += count
	}
	return total
}
