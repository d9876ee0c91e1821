// Package pipeline orchestrates the prediction flow: candidate generation,
// filtering, scoring, ranking, and result assembly.
//
// An Engine is the explicit context object holding the analyzers, scorer,
// generator, and filter chain for one caller. All shared state is reached
// through the engine, never through package globals, and a single engine
// must only ever be driven by one caller at a time (single-writer
// discipline). Backtesting constructs a fresh engine per replayed draw
// instead of mutating a long-lived one.
package pipeline

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lottoscope/lottoscope/internal/analysis"
	"github.com/lottoscope/lottoscope/internal/filters"
	"github.com/lottoscope/lottoscope/internal/generator"
	"github.com/lottoscope/lottoscope/internal/logger"
	"github.com/lottoscope/lottoscope/internal/models"
	"github.com/lottoscope/lottoscope/internal/scoring"
)

// hotColdListSize bounds the hot/cold numbers cited in result metadata.
const hotColdListSize = 10

// Options controls one prediction request.
type Options struct {
	EnabledFilters  []string
	MaxCombinations int
	MinScore        float64
	PoolSize        int
	// Weights, when non-nil, is shallow-merged onto the scorer's active
	// weights before scoring.
	Weights models.ScoringWeights
}

// Engine wires the analyzers, scorer, generator, and filter chain over one
// draw history.
type Engine struct {
	game      models.Game
	profiler  *analysis.Profiler
	location  *analysis.LocationAnalyzer
	scorer    *scoring.Scorer
	generator *generator.Generator
	chain     *filters.Chain
	cache     *resultCache

	draws     []models.Draw
	pool      []models.Combination
	poolSize  int
	poolDirty bool
}

// EngineConfig holds construction parameters for an Engine.
type EngineConfig struct {
	Game             models.Game
	Weights          models.ScoringWeights
	Rng              *rand.Rand // inject a seeded source for reproducibility
	CacheTTL         time.Duration
	GeneratorOptions []generator.Option
}

// NewEngine constructs an engine with empty history.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	weights := cfg.Weights
	if weights == nil {
		weights = models.DefaultWeights()
	}

	profiler := analysis.NewProfiler(cfg.Game)
	location := analysis.NewLocationAnalyzer()
	return &Engine{
		game:      cfg.Game,
		profiler:  profiler,
		location:  location,
		scorer:    scoring.NewScorer(cfg.Game, profiler, location, weights),
		generator: generator.New(cfg.Game, profiler, cfg.Rng, cfg.GeneratorOptions...),
		chain:     filters.NewChain(cfg.Game),
		cache:     newResultCache(cfg.CacheTTL),
	}
}

// UpdateDraws replaces the engine's view of history. Every analyzer is
// recomputed, the candidate pool is marked stale, and the result cache is
// purged — one invalidation contract for all derived state.
func (e *Engine) UpdateDraws(draws []models.Draw) {
	e.draws = make([]models.Draw, len(draws))
	copy(e.draws, draws)

	e.profiler.UpdateDraws(e.draws)
	e.location.UpdateDraws(e.draws)
	e.scorer.UpdateDraws(e.draws)
	e.poolDirty = true
	e.cache.purge()
}

// Draws returns the engine's current history.
func (e *Engine) Draws() []models.Draw {
	return e.draws
}

// Profiler exposes the engine's number profiler.
func (e *Engine) Profiler() *analysis.Profiler { return e.profiler }

// Location exposes the engine's sum analyzer.
func (e *Engine) Location() *analysis.LocationAnalyzer { return e.location }

// Filters exposes the engine's filter chain metadata.
func (e *Engine) Filters() []filters.Info { return e.chain.List() }

// ScoreCombination scores one candidate against the current history.
func (e *Engine) ScoreCombination(numbers []int) (models.Combination, error) {
	return e.scorer.Score(numbers)
}

// GeneratePredictions runs the full pipeline: (re)generate the candidate
// pool, filter, score, rank, truncate, and assemble an immutable result.
// Empty pools produce a fully zeroed metadata block, never an error.
func (e *Engine) GeneratePredictions(opts Options) (*models.PredictionResult, error) {
	if opts.MaxCombinations <= 0 {
		return nil, fmt.Errorf("max combinations must be positive, got %d", opts.MaxCombinations)
	}
	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = 100
	}
	opts.PoolSize = poolSize

	key := cacheKey(opts, len(e.draws))
	if cached, ok := e.cache.get(key); ok {
		logger.Debug("prediction cache hit: %s", key)
		return cached, nil
	}

	if opts.Weights != nil {
		e.scorer.SetWeights(opts.Weights)
	}

	genStart := time.Now()
	if e.poolDirty || len(e.pool) == 0 || e.poolSize != poolSize {
		e.pool = e.generator.Generate(poolSize)
		e.poolSize = poolSize
		e.poolDirty = false
	}
	generationTime := time.Since(genStart)

	filtered, err := e.chain.Apply(e.pool, e.draws, opts.EnabledFilters)
	if err != nil {
		return nil, fmt.Errorf("filter chain: %w", err)
	}

	scoreStart := time.Now()
	scored := make([]models.Combination, 0, len(filtered))
	for i := range filtered {
		c, err := e.scorer.Score(filtered[i].Numbers)
		if err != nil {
			// Generator and filters only emit valid candidates; a failure
			// here is a precondition violation worth surfacing.
			return nil, fmt.Errorf("scoring candidate %s: %w", filtered[i].Key(), err)
		}
		scored = append(scored, c)
	}
	scoringTime := time.Since(scoreStart)

	// Stable sort keeps input order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	kept := scored[:0:0]
	for _, c := range scored {
		if c.Score < opts.MinScore {
			continue
		}
		kept = append(kept, c)
		if len(kept) == opts.MaxCombinations {
			break
		}
	}

	result := &models.PredictionResult{
		ID:             uuid.New().String(),
		GeneratedAt:    time.Now(),
		Combinations:   kept,
		Meta:           e.buildMeta(kept),
		GeneratedCount: len(e.pool),
		FilteredCount:  len(filtered),
		GenerationTime: generationTime,
		ScoringTime:    scoringTime,
	}

	e.cache.put(key, result)
	logger.Debug("prediction run: pool=%d filtered=%d kept=%d", len(e.pool), len(filtered), len(kept))
	return result, nil
}

// buildMeta aggregates metadata over the surviving combinations. An empty
// set yields all-zero metadata.
func (e *Engine) buildMeta(combos []models.Combination) models.PredictionMeta {
	if len(combos) == 0 {
		return models.PredictionMeta{}
	}
	meta := models.PredictionMeta{
		HotNumbers:  e.profiler.HotNumbers(hotColdListSize),
		ColdNumbers: e.profiler.ColdNumbers(hotColdListSize),
	}

	var sumTotal, oddTotal, confTotal float64
	meta.SumMin = combos[0].Sum
	meta.SumMax = combos[0].Sum
	for _, c := range combos {
		sumTotal += float64(c.Sum)
		oddTotal += float64(c.OddCount)
		confTotal += c.Confidence
		if c.Sum < meta.SumMin {
			meta.SumMin = c.Sum
		}
		if c.Sum > meta.SumMax {
			meta.SumMax = c.Sum
		}
	}
	n := float64(len(combos))
	meta.AvgSum = sumTotal / n
	meta.AvgOddCount = oddTotal / n
	meta.AvgConfidence = confTotal / n
	return meta
}
