package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/lottoscope/lottoscope/internal/backtest"
	"github.com/lottoscope/lottoscope/internal/config"
	"github.com/lottoscope/lottoscope/internal/history"
	"github.com/lottoscope/lottoscope/internal/logger"
	"github.com/lottoscope/lottoscope/internal/models"
	"github.com/lottoscope/lottoscope/internal/pipeline"
	"github.com/lottoscope/lottoscope/internal/report"
	"github.com/lottoscope/lottoscope/internal/telegram"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	drawCount  = flag.Int("draws", 0, "How many recent draws to replay (0 = config value)")
	seed       = flag.Int64("seed", 1, "Base seed for reproducible candidate generation")
	export     = flag.Bool("export", true, "Write JSON and CSV reports to the configured export directory")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	store, err := history.Open(cfg.Storage.DBPath, cfg.GameModel())
	if err != nil {
		logger.Fatal("Failed to open draw history: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close draw history: %v", err)
		}
	}()

	draws := store.Draws()
	replay := *drawCount
	if replay <= 0 {
		replay = cfg.Backtest.Draws
	}
	if replay > len(draws) {
		replay = len(draws)
	}
	if replay == 0 {
		logger.Fatal("No draw history available to backtest")
	}

	harness := backtest.NewHarness(cfg.GameModel(), draws, cfg.ScoringWeights(), *seed)
	tracker := backtest.NewAccuracyTracker()

	start := len(draws) - replay
	logger.Info("Replaying %d draws (indexes %d..%d)", replay, start, len(draws)-1)

	startTime := time.Now()
	out, err := harness.BacktestRange(backtest.RangeOptions{
		Start: start,
		End:   len(draws),
		Prediction: pipeline.Options{
			EnabledFilters:  cfg.Prediction.EnabledFilters,
			MaxCombinations: cfg.Backtest.MaxCombinations,
			MinScore:        cfg.Backtest.MinScore,
			PoolSize:        cfg.Backtest.PoolSize,
		},
		Progress: func(done, total int) {
			if done%10 == 0 || done == total {
				fmt.Printf("\rBacktesting... %d/%d", done, total)
			}
		},
	})
	if err != nil {
		logger.Fatal("Backtest failed: %v", err)
	}
	fmt.Println()

	for _, r := range out.Results {
		tracker.Ingest(r)
	}
	stats := backtest.ComputeStatistics(out.Results)
	trackerReport := tracker.Report()

	printStatistics(stats, trackerReport, len(out.Skipped), time.Since(startTime))

	if *export {
		jsonPath := filepath.Join(cfg.Storage.ExportDir, "backtest.json")
		csvPath := filepath.Join(cfg.Storage.ExportDir, "backtest.csv")
		if err := report.WriteJSON(jsonPath, out.Results, stats, trackerReport); err != nil {
			logger.Error("Failed to export JSON report: %v", err)
		} else {
			logger.Info("JSON report written to %s", jsonPath)
		}
		if err := report.WriteCSV(csvPath, out.Results); err != nil {
			logger.Error("Failed to export CSV report: %v", err)
		} else {
			logger.Info("CSV report written to %s", csvPath)
		}
	}

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		if err := client.SendBacktestSummary(stats); err != nil {
			logger.Error("Failed to send Telegram notification: %v", err)
		} else {
			logger.Info("Sent backtest summary to Telegram")
		}
	}
}

func printStatistics(stats *backtest.Statistics, tracker *backtest.TrackerReport, skipped int, elapsed time.Duration) {
	fmt.Println("\nBACKTEST RESULTS")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Draws replayed:      %d (%d skipped)\n", stats.Draws, skipped)
	fmt.Printf("Predictions scored:  %d\n", stats.TotalPredictions)
	fmt.Printf("Mean accuracy:       %.4f\n", stats.MeanAccuracy)
	fmt.Printf("Mean score:          %.2f\n", stats.MeanScore)
	fmt.Printf("Score-hit correlation: %.4f\n", stats.ScoreMatchCorrelation)
	fmt.Printf("Wall time:           %v\n", elapsed.Round(time.Millisecond))

	fmt.Println("\nHit breakdown:")
	for match := 1; match <= models.PickCount; match++ {
		total := stats.HitTotals[match]
		if total == 0 {
			continue
		}
		fmt.Printf("  %d-match: %5d combinations (%.2f%% of predictions)\n",
			match, total, stats.HitRates[match]*100)
	}

	if stats.Best != nil {
		fmt.Printf("\nBest draw:  #%d (%s) accuracy %.4f\n",
			stats.Best.DrawOrdinal, stats.Best.DrawDate.Format("2006-01-02"), stats.Best.Accuracy)
	}
	if stats.Worst != nil {
		fmt.Printf("Worst draw: #%d (%s) accuracy %.4f\n",
			stats.Worst.DrawOrdinal, stats.Worst.DrawDate.Format("2006-01-02"), stats.Worst.Accuracy)
	}

	fmt.Println("\nAccuracy trends:")
	for _, size := range []int{10, 25, 50, 100} {
		if trend, ok := tracker.WindowTrends[size]; ok {
			fmt.Printf("  last %3d draws: %s\n", size, trend)
		}
	}
	fmt.Printf("\nProcessing: median %v, p95 %v per draw\n",
		tracker.MedianProcessing.Round(time.Microsecond), tracker.P95Processing.Round(time.Microsecond))
}
