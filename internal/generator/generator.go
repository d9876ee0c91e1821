// Package generator produces pools of distinct candidate combinations biased
// toward numbers the profiler currently classifies hot or warm.
package generator

import (
	"math/rand"

	"github.com/lottoscope/lottoscope/internal/analysis"
	"github.com/lottoscope/lottoscope/internal/models"
)

const (
	// defaultPriorityChance is the percent probability of including each
	// shuffled priority (hot/warm) number while slots remain.
	defaultPriorityChance = 70

	// defaultAttemptFactor bounds total attempts at attemptFactor × target,
	// guaranteeing termination when the universe is too small to fill the
	// requested pool.
	defaultAttemptFactor = 5
)

// Generator builds candidate pools. The random source is injected so
// generation is reproducible under test; the generator itself keeps no other
// state between calls.
type Generator struct {
	game           models.Game
	profiler       *analysis.Profiler
	rng            *rand.Rand
	priorityChance int
	attemptFactor  int
}

// Option configures a Generator.
type Option func(*Generator)

// WithPriorityChance overrides the percent probability of picking each
// priority number.
func WithPriorityChance(percent int) Option {
	return func(g *Generator) {
		if percent >= 0 && percent <= 100 {
			g.priorityChance = percent
		}
	}
}

// WithAttemptFactor overrides the attempts-per-target budget multiplier.
func WithAttemptFactor(factor int) Option {
	return func(g *Generator) {
		if factor >= 1 {
			g.attemptFactor = factor
		}
	}
}

// New creates a Generator drawing candidates from [1, game.PrimaryMax] with
// bias toward the profiler's hot and warm numbers.
func New(game models.Game, profiler *analysis.Profiler, rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		game:           game,
		profiler:       profiler,
		rng:            rng,
		priorityChance: defaultPriorityChance,
		attemptFactor:  defaultAttemptFactor,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces up to target distinct, valid candidates. A pool smaller
// than requested is a valid outcome once the attempt budget is spent; it is
// never an error.
func (g *Generator) Generate(target int) []models.Combination {
	if target <= 0 {
		return []models.Combination{}
	}

	priority := g.priorityList()
	pool := make([]models.Combination, 0, target)
	seen := make(map[string]bool, target)

	maxAttempts := target * g.attemptFactor
	for attempts := 0; attempts < maxAttempts && len(pool) < target; attempts++ {
		numbers := g.buildCandidate(priority)
		c := models.NewCombination(numbers, g.game)
		if c.Validate(g.game) != nil {
			continue
		}
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		pool = append(pool, c)
	}
	return pool
}

// priorityList returns the union of the profiler's hot and warm numbers.
func (g *Generator) priorityList() []int {
	hot := g.profiler.ByStatus(models.StatusHot)
	warm := g.profiler.ByStatus(models.StatusWarm)
	priority := make([]int, 0, len(hot)+len(warm))
	for _, p := range hot {
		priority = append(priority, p.Number)
	}
	for _, p := range warm {
		priority = append(priority, p.Number)
	}
	return priority
}

// buildCandidate assembles one candidate: shuffled priority numbers are each
// included with priorityChance% probability until the arity is reached, then
// remaining slots are filled uniformly from the unused universe.
func (g *Generator) buildCandidate(priority []int) []int {
	shuffled := make([]int, len(priority))
	copy(shuffled, priority)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	numbers := make([]int, 0, models.PickCount)
	used := make(map[int]bool, models.PickCount)
	for _, n := range shuffled {
		if len(numbers) == models.PickCount {
			break
		}
		if used[n] {
			continue
		}
		if g.rng.Intn(100) < g.priorityChance {
			numbers = append(numbers, n)
			used[n] = true
		}
	}

	for len(numbers) < models.PickCount {
		n := g.rng.Intn(g.game.PrimaryMax) + 1
		if used[n] {
			continue
		}
		numbers = append(numbers, n)
		used[n] = true
	}
	return numbers
}
