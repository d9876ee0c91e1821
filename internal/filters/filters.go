// Package filters provides named boolean predicates over candidate
// combinations and the draw history. Filters compose by conjunction: a
// candidate survives only when every enabled filter accepts it.
package filters

import (
	"fmt"

	"github.com/lottoscope/lottoscope/internal/models"
)

// Built-in filter IDs.
const (
	IDSumRange         = "sum-range"
	IDOddEvenBalance   = "odd-even-balance"
	IDConsecutiveLimit = "consecutive-limit"
	IDRepeatLimit      = "repeat-limit"
	IDDecadeSpread     = "decade-spread"
)

// Predicate decides whether a candidate is acceptable given the history.
// Predicates must be pure: no mutation of the candidate or the draws.
type Predicate func(c *models.Combination, draws []models.Draw) bool

// Filter is one named predicate.
type Filter struct {
	ID          string
	Name        string
	Description string
	Predicate   Predicate
}

// Info is the serializable metadata of a filter.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Chain is a registry of filters applied by ID.
type Chain struct {
	game    models.Game
	order   []string
	filters map[string]Filter
}

// NewChain creates a chain with the built-in filters registered.
func NewChain(game models.Game) *Chain {
	c := &Chain{
		game:    game,
		filters: make(map[string]Filter),
	}
	c.register(Filter{
		ID:          IDSumRange,
		Name:        "Sum range",
		Description: "sum within the middle band of the theoretical range",
		Predicate:   c.sumRange,
	})
	c.register(Filter{
		ID:          IDOddEvenBalance,
		Name:        "Odd/even balance",
		Description: "at least one odd and one even number",
		Predicate:   oddEvenBalance,
	})
	c.register(Filter{
		ID:          IDConsecutiveLimit,
		Name:        "Consecutive limit",
		Description: "no run of three or more consecutive numbers",
		Predicate:   consecutiveLimit,
	})
	c.register(Filter{
		ID:          IDRepeatLimit,
		Name:        "Repeat limit",
		Description: "at most two numbers repeated from the most recent draw",
		Predicate:   repeatLimit,
	})
	c.register(Filter{
		ID:          IDDecadeSpread,
		Name:        "Decade spread",
		Description: "numbers spread across at least three decades",
		Predicate:   decadeSpread,
	})
	return c
}

func (c *Chain) register(f Filter) {
	c.order = append(c.order, f.ID)
	c.filters[f.ID] = f
}

// List returns metadata for every registered filter in registration order.
func (c *Chain) List() []Info {
	infos := make([]Info, 0, len(c.order))
	for _, id := range c.order {
		f := c.filters[id]
		infos = append(infos, Info{ID: f.ID, Name: f.Name, Description: f.Description})
	}
	return infos
}

// Apply passes the candidates through the filters named by enabledIDs,
// keeping only candidates every enabled filter accepts. Input order is
// preserved. An unknown ID is an error.
func (c *Chain) Apply(candidates []models.Combination, draws []models.Draw, enabledIDs []string) ([]models.Combination, error) {
	enabled := make([]Filter, 0, len(enabledIDs))
	for _, id := range enabledIDs {
		f, ok := c.filters[id]
		if !ok {
			return nil, fmt.Errorf("unknown filter: %s", id)
		}
		enabled = append(enabled, f)
	}

	if len(enabled) == 0 {
		out := make([]models.Combination, len(candidates))
		copy(out, candidates)
		return out, nil
	}

	out := make([]models.Combination, 0, len(candidates))
	for i := range candidates {
		accepted := true
		for _, f := range enabled {
			if !f.Predicate(&candidates[i], draws) {
				accepted = false
				break
			}
		}
		if accepted {
			out = append(out, candidates[i])
		}
	}
	return out, nil
}

// sumRange accepts sums within the middle 20%-80% band of the theoretical
// sum range for the game.
func (c *Chain) sumRange(combo *models.Combination, _ []models.Draw) bool {
	minSum := 1 + 2 + 3 + 4 + 5
	maxSum := 0
	for i := 0; i < models.PickCount; i++ {
		maxSum += c.game.PrimaryMax - i
	}
	span := float64(maxSum - minSum)
	low := float64(minSum) + 0.2*span
	high := float64(minSum) + 0.8*span
	return float64(combo.Sum) >= low && float64(combo.Sum) <= high
}

func oddEvenBalance(combo *models.Combination, _ []models.Draw) bool {
	return combo.OddCount >= 1 && combo.EvenCount >= 1
}

// consecutiveLimit rejects runs of three or more consecutive numbers.
func consecutiveLimit(combo *models.Combination, _ []models.Draw) bool {
	run := 1
	for i := 1; i < len(combo.Numbers); i++ {
		if combo.Numbers[i] == combo.Numbers[i-1]+1 {
			run++
			if run >= 3 {
				return false
			}
		} else {
			run = 1
		}
	}
	return true
}

// repeatLimit rejects candidates sharing more than two numbers with the most
// recent draw. With no history every candidate passes.
func repeatLimit(combo *models.Combination, draws []models.Draw) bool {
	if len(draws) == 0 {
		return true
	}
	last := draws[len(draws)-1]
	return combo.MatchCount(last) <= 2
}

// decadeSpread requires numbers from at least three distinct decades.
func decadeSpread(combo *models.Combination, _ []models.Draw) bool {
	decades := make(map[int]bool, models.PickCount)
	for _, n := range combo.Numbers {
		decades[n/10] = true
	}
	return len(decades) >= 3
}
