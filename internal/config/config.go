// Package config loads and validates application configuration from a YAML
// file with environment variable overrides (prefix LOTTOSCOPE).
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/lottoscope/lottoscope/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Game       GameConfig       `mapstructure:"game"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Backtest   BacktestConfig   `mapstructure:"backtest"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// GameConfig describes the lottery geometry being analyzed
type GameConfig struct {
	PrimaryMax int `mapstructure:"primary_max"`
	BonusMax   int `mapstructure:"bonus_max"`
}

// GeneratorConfig holds candidate generation configuration
type GeneratorConfig struct {
	PoolSize       int   `mapstructure:"pool_size"`
	AttemptFactor  int   `mapstructure:"attempt_factor"` // max attempts = factor × pool size
	HotListSize    int   `mapstructure:"hot_list_size"`
	ColdListSize   int   `mapstructure:"cold_list_size"`
	Seed           int64 `mapstructure:"seed"` // used when seed_from_clock is false
	SeedFromClock  bool  `mapstructure:"seed_from_clock"`
	PriorityChance int   `mapstructure:"priority_chance"` // percent, default 70
}

// ScoringConfig holds composite scoring configuration
type ScoringConfig struct {
	Weights map[string]float64 `mapstructure:"weights"`
}

// PredictionConfig holds prediction pipeline configuration
type PredictionConfig struct {
	EnabledFilters  []string      `mapstructure:"enabled_filters"`
	MaxCombinations int           `mapstructure:"max_combinations"`
	MinScore        float64       `mapstructure:"min_score"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// BacktestConfig holds backtest harness configuration
type BacktestConfig struct {
	Draws           int     `mapstructure:"draws"` // how many recent draws to replay
	PoolSize        int     `mapstructure:"pool_size"`
	MaxCombinations int     `mapstructure:"max_combinations"`
	MinScore        float64 `mapstructure:"min_score"`
}

// FeedConfig holds remote draw feed configuration
type FeedConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	Enabled    bool          `mapstructure:"enabled"`
}

// StorageConfig holds draw history storage configuration
type StorageConfig struct {
	DBPath    string `mapstructure:"db_path"`
	ExportDir string `mapstructure:"export_dir"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
	Enabled        bool          `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("LOTTOSCOPE")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Game defaults (Powerball geometry)
	v.SetDefault("game.primary_max", 69)
	v.SetDefault("game.bonus_max", 26)

	// Generator defaults
	v.SetDefault("generator.pool_size", 200)
	v.SetDefault("generator.attempt_factor", 5)
	v.SetDefault("generator.hot_list_size", 10)
	v.SetDefault("generator.cold_list_size", 10)
	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.seed_from_clock", true)
	v.SetDefault("generator.priority_chance", 70)

	// Scoring defaults mirror models.DefaultWeights
	v.SetDefault("scoring.weights", map[string]float64{
		"recurrence": 0.25,
		"skip":       0.15,
		"pair":       0.15,
		"triple":     0.10,
		"sum":        0.15,
		"hotCold":    0.10,
		"location":   0.10,
	})

	// Prediction defaults
	v.SetDefault("prediction.enabled_filters", []string{})
	v.SetDefault("prediction.max_combinations", 20)
	v.SetDefault("prediction.min_score", 0.0)
	v.SetDefault("prediction.cache_ttl", "5m")

	// Backtest defaults
	v.SetDefault("backtest.draws", 100)
	v.SetDefault("backtest.pool_size", 100)
	v.SetDefault("backtest.max_combinations", 20)
	v.SetDefault("backtest.min_score", 0.0)

	// Feed defaults
	v.SetDefault("feed.api_base_url", "https://data.ny.gov/resource/d6yy-54nr.json")
	v.SetDefault("feed.timeout", "30s")
	v.SetDefault("feed.max_retries", 3)
	v.SetDefault("feed.enabled", false)

	// Storage defaults
	v.SetDefault("storage.db_path", "./data/draws.db")
	v.SetDefault("storage.export_dir", "./data/reports")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Game config
	if c.Game.PrimaryMax < models.PickCount {
		return fmt.Errorf("game.primary_max must be at least %d", models.PickCount)
	}
	if c.Game.BonusMax < 1 {
		return fmt.Errorf("game.bonus_max must be at least 1")
	}

	// Validate Generator config
	if c.Generator.PoolSize < 1 {
		return fmt.Errorf("generator.pool_size must be at least 1")
	}
	if c.Generator.AttemptFactor < 1 {
		return fmt.Errorf("generator.attempt_factor must be at least 1")
	}
	if c.Generator.HotListSize < 1 || c.Generator.ColdListSize < 1 {
		return fmt.Errorf("generator hot/cold list sizes must be at least 1")
	}
	if c.Generator.PriorityChance < 0 || c.Generator.PriorityChance > 100 {
		return fmt.Errorf("generator.priority_chance must be between 0 and 100")
	}

	// Validate Scoring config
	for name, weight := range c.Scoring.Weights {
		if weight < 0 {
			return fmt.Errorf("scoring.weights.%s must not be negative", name)
		}
	}

	// Validate Prediction config
	if c.Prediction.MaxCombinations < 1 {
		return fmt.Errorf("prediction.max_combinations must be at least 1")
	}
	if c.Prediction.MinScore < 0 {
		return fmt.Errorf("prediction.min_score must not be negative")
	}
	if c.Prediction.CacheTTL < 0 {
		return fmt.Errorf("prediction.cache_ttl must not be negative")
	}

	// Validate Backtest config
	if c.Backtest.Draws < 1 {
		return fmt.Errorf("backtest.draws must be at least 1")
	}
	if c.Backtest.PoolSize < 1 {
		return fmt.Errorf("backtest.pool_size must be at least 1")
	}
	if c.Backtest.MaxCombinations < 1 {
		return fmt.Errorf("backtest.max_combinations must be at least 1")
	}

	// Validate Feed config
	if c.Feed.Enabled {
		if c.Feed.APIBaseURL == "" {
			return fmt.Errorf("feed.api_base_url is required when feed is enabled")
		}
		if c.Feed.Timeout < 1*time.Second {
			return fmt.Errorf("feed.timeout must be at least 1 second")
		}
	}

	// Validate Storage config
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// GameModel returns the configured lottery geometry as a models.Game.
func (c *Config) GameModel() models.Game {
	return models.Game{PrimaryMax: c.Game.PrimaryMax, BonusMax: c.Game.BonusMax}
}

// ScoringWeights returns the configured weights as a models.ScoringWeights,
// falling back to the defaults when the section is empty.
func (c *Config) ScoringWeights() models.ScoringWeights {
	if len(c.Scoring.Weights) == 0 {
		return models.DefaultWeights()
	}
	return models.ScoringWeights(c.Scoring.Weights).Clone()
}
