// Package models defines the core domain entities for the lottoscope application.
// These models represent historical draws, per-number statistical profiles, candidate
// combinations, and prediction/backtest results. All models include built-in
// validation to ensure data integrity throughout the application.
//
// Terminology:
//   - Draw: one historical lottery result — PickCount primary numbers plus one bonus.
//   - Combination: one candidate set of primary numbers under evaluation.
//   - Skip: the number of draws since a given number last appeared.
package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// PickCount is the number of primary numbers in every draw and every candidate
// combination. The factor-score normalizations (10 pairs, 10 triples per
// combination) assume this value.
const PickCount = 5

// Game describes the number ranges of the lottery being analyzed.
// Primary numbers are drawn from [1, PrimaryMax]; the bonus ball from [1, BonusMax].
type Game struct {
	PrimaryMax int `json:"primary_max"`
	BonusMax   int `json:"bonus_max"`
}

// DefaultGame returns the Powerball-style geometry used when no game is configured.
func DefaultGame() Game {
	return Game{PrimaryMax: 69, BonusMax: 26}
}

// Validate checks that the game geometry is usable.
func (g Game) Validate() error {
	if g.PrimaryMax < PickCount {
		return fmt.Errorf("primary max %d must be at least %d", g.PrimaryMax, PickCount)
	}
	if g.BonusMax < 1 {
		return errors.New("bonus max must be at least 1")
	}
	return nil
}

// Draw represents a single historical lottery result.
// Draws are stored in strictly increasing chronological order; Ordinal is the
// zero-based position of the draw within that order.
type Draw struct {
	Ordinal int            `json:"ordinal"`
	Date    time.Time      `json:"date"`
	Numbers [PickCount]int `json:"numbers"`
	Bonus   int            `json:"bonus"`
}

// Validate checks that all draw fields are valid for the given game.
func (d *Draw) Validate(g Game) error {
	if d.Date.IsZero() {
		return errors.New("draw date must not be zero")
	}
	if d.Ordinal < 0 {
		return errors.New("draw ordinal must not be negative")
	}
	seen := make(map[int]bool, PickCount)
	for _, n := range d.Numbers {
		if n < 1 || n > g.PrimaryMax {
			return fmt.Errorf("primary number %d out of range [1, %d]", n, g.PrimaryMax)
		}
		if seen[n] {
			return fmt.Errorf("duplicate primary number %d", n)
		}
		seen[n] = true
	}
	if d.Bonus < 1 || d.Bonus > g.BonusMax {
		return fmt.Errorf("bonus number %d out of range [1, %d]", d.Bonus, g.BonusMax)
	}
	return nil
}

// Sum returns the sum of the draw's primary numbers.
func (d *Draw) Sum() int {
	total := 0
	for _, n := range d.Numbers {
		total += n
	}
	return total
}

// ContainsPrimary reports whether n is among the draw's primary numbers.
func (d *Draw) ContainsPrimary(n int) bool {
	for _, v := range d.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// SortedNumbers returns the draw's primary numbers in ascending order.
func (d *Draw) SortedNumbers() []int {
	nums := make([]int, PickCount)
	copy(nums[:], d.Numbers[:])
	sort.Ints(nums)
	return nums
}
