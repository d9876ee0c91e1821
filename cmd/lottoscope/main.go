package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/lottoscope/lottoscope/internal/config"
	"github.com/lottoscope/lottoscope/internal/drawfeed"
	"github.com/lottoscope/lottoscope/internal/generator"
	"github.com/lottoscope/lottoscope/internal/history"
	"github.com/lottoscope/lottoscope/internal/logger"
	"github.com/lottoscope/lottoscope/internal/models"
	"github.com/lottoscope/lottoscope/internal/pipeline"
	"github.com/lottoscope/lottoscope/internal/telegram"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	importPath = flag.String("import", "", "CSV file of draws to import before predicting")
	topCount   = flag.Int("top", 0, "How many combinations to print (0 = all surviving)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Open draw history
	store, err := history.Open(cfg.Storage.DBPath, cfg.GameModel())
	if err != nil {
		logger.Fatal("Failed to open draw history: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close draw history: %v", err)
		}
	}()

	if *importPath != "" {
		added, err := store.ImportCSV(*importPath)
		if err != nil {
			logger.Fatal("CSV import failed: %v", err)
		}
		logger.Info("Imported %d draws from %s", added, *importPath)
	}

	if cfg.Feed.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Feed.Timeout)
		feed := drawfeed.NewClient(cfg.Feed.APIBaseURL, cfg.Feed.Timeout)
		added, err := feed.Sync(ctx, store)
		cancel()
		if err != nil {
			logger.Warn("Draw feed sync failed, continuing with stored history: %v", err)
		} else if added > 0 {
			logger.Info("Fetched %d new draws from feed", added)
		}
	}

	if store.Len() == 0 {
		logger.Fatal("No draw history available; import draws with -import or enable the feed")
	}

	seed := cfg.Generator.Seed
	if cfg.Generator.SeedFromClock {
		seed = time.Now().UnixNano()
	}

	engine := pipeline.NewEngine(pipeline.EngineConfig{
		Game:     cfg.GameModel(),
		Weights:  cfg.ScoringWeights(),
		Rng:      rand.New(rand.NewSource(seed)),
		CacheTTL: cfg.Prediction.CacheTTL,
		GeneratorOptions: []generator.Option{
			generator.WithPriorityChance(cfg.Generator.PriorityChance),
			generator.WithAttemptFactor(cfg.Generator.AttemptFactor),
		},
	})
	engine.UpdateDraws(store.Draws())
	logger.Info("Engine ready: %d draws analyzed", store.Len())

	result, err := engine.GeneratePredictions(pipeline.Options{
		EnabledFilters:  cfg.Prediction.EnabledFilters,
		MaxCombinations: cfg.Prediction.MaxCombinations,
		MinScore:        cfg.Prediction.MinScore,
		PoolSize:        cfg.Generator.PoolSize,
	})
	if err != nil {
		logger.Fatal("Prediction failed: %v", err)
	}

	printResult(result, *topCount)

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		if err := client.SendPredictions(result, *topCount); err != nil {
			logger.Error("Failed to send Telegram notification: %v", err)
		} else {
			logger.Info("Sent predictions to Telegram")
		}
	}
}

func printResult(result *models.PredictionResult, top int) {
	fmt.Printf("\nPredictions %s\n", result.ID)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Pool: %d generated, %d after filters, %d kept\n",
		result.GeneratedCount, result.FilteredCount, len(result.Combinations))
	fmt.Printf("Timing: generation %v, scoring %v\n\n", result.GenerationTime, result.ScoringTime)

	if len(result.Combinations) == 0 {
		fmt.Println("No combinations survived filtering.")
		return
	}

	if top <= 0 || top > len(result.Combinations) {
		top = len(result.Combinations)
	}
	for i := 0; i < top; i++ {
		c := &result.Combinations[i]
		numbers := make([]string, len(c.Numbers))
		for j, n := range c.Numbers {
			numbers[j] = strconv.Itoa(n)
		}
		fmt.Printf("%2d. %-16s score %6.2f  confidence %.2f\n",
			i+1, strings.Join(numbers, " "), c.Score, c.Confidence)
		for _, reason := range c.Reasoning {
			fmt.Printf("      - %s\n", reason)
		}
	}

	fmt.Printf("\nSum range: %d-%d (avg %.1f)  Avg odd count: %.1f  Avg confidence: %.2f\n",
		result.Meta.SumMin, result.Meta.SumMax, result.Meta.AvgSum,
		result.Meta.AvgOddCount, result.Meta.AvgConfidence)
	if len(result.Meta.HotNumbers) > 0 {
		fmt.Printf("Hot numbers: %v\n", result.Meta.HotNumbers)
	}
	if len(result.Meta.ColdNumbers) > 0 {
		fmt.Printf("Cold numbers: %v\n", result.Meta.ColdNumbers)
	}
}
