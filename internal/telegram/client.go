// Package telegram delivers prediction and backtest summaries via the
// Telegram Bot API. It formats results into MarkdownV2 messages and retries
// delivery with linear backoff for transient API failures.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lottoscope/lottoscope/internal/backtest"
	"github.com/lottoscope/lottoscope/internal/models"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendPredictions delivers the top combinations of a prediction run.
func (c *Client) SendPredictions(result *models.PredictionResult, top int) error {
	return c.send(FormatPredictions(result, top))
}

// SendBacktestSummary delivers aggregate backtest statistics.
func (c *Client) SendBacktestSummary(stats *backtest.Statistics) error {
	return c.send(FormatBacktestSummary(stats))
}

func (c *Client) send(message string) error {
	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// FormatPredictions renders a prediction result as a MarkdownV2 message
// listing at most top combinations.
func FormatPredictions(result *models.PredictionResult, top int) string {
	var b strings.Builder
	b.WriteString("🎲 *Lottoscope Predictions*\n\n")
	b.WriteString(fmt.Sprintf("📅 Generated: %s\n",
		escapeMarkdownV2(result.GeneratedAt.Format("2006-01-02 15:04:05"))))
	b.WriteString(fmt.Sprintf("🧮 Pool: %d generated, %d after filters\n\n",
		result.GeneratedCount, result.FilteredCount))

	if len(result.Combinations) == 0 {
		b.WriteString("No combinations survived filtering\\.\n")
		return b.String()
	}

	if top <= 0 || top > len(result.Combinations) {
		top = len(result.Combinations)
	}
	for i := 0; i < top; i++ {
		combo := &result.Combinations[i]
		numbers := make([]string, len(combo.Numbers))
		for j, n := range combo.Numbers {
			numbers[j] = strconv.Itoa(n)
		}
		scoreStr := escapeMarkdownV2(fmt.Sprintf("%.1f", combo.Score))
		confStr := escapeMarkdownV2(fmt.Sprintf("%.2f", combo.Confidence))
		b.WriteString(fmt.Sprintf("%d\\. *%s*\n", i+1,
			escapeMarkdownV2(strings.Join(numbers, " "))))
		b.WriteString(fmt.Sprintf("   📊 Score: %s  🎯 Confidence: %s\n", scoreStr, confStr))
		if len(combo.Reasoning) > 0 {
			b.WriteString(fmt.Sprintf("   💡 %s\n", escapeMarkdownV2(combo.Reasoning[0])))
		}
		b.WriteString("\n")
	}

	if len(result.Meta.HotNumbers) > 0 {
		hot := make([]string, len(result.Meta.HotNumbers))
		for i, n := range result.Meta.HotNumbers {
			hot[i] = strconv.Itoa(n)
		}
		b.WriteString(fmt.Sprintf("🔥 Hot: %s\n", escapeMarkdownV2(strings.Join(hot, " "))))
	}
	b.WriteString(fmt.Sprintf("⏱ Took: %s\n",
		escapeMarkdownV2(formatDuration(result.GenerationTime+result.ScoringTime))))
	return b.String()
}

// FormatBacktestSummary renders aggregate backtest statistics as a
// MarkdownV2 message.
func FormatBacktestSummary(stats *backtest.Statistics) string {
	var b strings.Builder
	b.WriteString("📋 *Backtest Summary*\n\n")
	b.WriteString(fmt.Sprintf("🎰 Draws replayed: %d\n", stats.Draws))
	b.WriteString(fmt.Sprintf("🧮 Predictions scored: %d\n", stats.TotalPredictions))
	b.WriteString(fmt.Sprintf("🎯 Mean accuracy: %s\n",
		escapeMarkdownV2(fmt.Sprintf("%.4f", stats.MeanAccuracy))))
	b.WriteString(fmt.Sprintf("📈 Score↔hit correlation: %s\n\n",
		escapeMarkdownV2(fmt.Sprintf("%.4f", stats.ScoreMatchCorrelation))))

	for match := 1; match <= models.PickCount; match++ {
		if total, ok := stats.HitTotals[match]; ok && total > 0 {
			rateStr := escapeMarkdownV2(fmt.Sprintf("%.2f%%", stats.HitRates[match]*100))
			b.WriteString(fmt.Sprintf("   %d\\-match: %d \\(%s\\)\n", match, total, rateStr))
		}
	}
	if stats.Best != nil {
		b.WriteString(fmt.Sprintf("\n🏆 Best draw: \\#%d accuracy %s\n",
			stats.Best.DrawOrdinal,
			escapeMarkdownV2(fmt.Sprintf("%.4f", stats.Best.Accuracy))))
	}
	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	// Note: We escape all of them with \ prefix

	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d >= time.Second {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
