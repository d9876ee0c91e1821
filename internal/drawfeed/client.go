// Package drawfeed fetches official draw results from a JSON results API
// and appends the ones not yet stored to the local history.
package drawfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lottoscope/lottoscope/internal/history"
	"github.com/lottoscope/lottoscope/internal/logger"
	"github.com/lottoscope/lottoscope/internal/models"
)

// Client provides access to a draw results API
type Client struct {
	apiBaseURL string
	httpClient *http.Client
}

// feedRecord is one draw as published by the results API. Winning numbers
// arrive as a space-separated string with the bonus ball last, e.g.
// "03 14 27 39 55 10".
type feedRecord struct {
	DrawDate       string `json:"draw_date"`
	WinningNumbers string `json:"winning_numbers"`
}

// Result is one parsed draw from the feed.
type Result struct {
	Date    time.Time
	Numbers [models.PickCount]int
	Bonus   int
}

// NewClient creates a new results API client
func NewClient(apiBaseURL string, timeout time.Duration) *Client {
	return &Client{
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSince retrieves all draws dated strictly after the given time,
// oldest first. A zero time fetches everything the API serves.
func (c *Client) FetchSince(ctx context.Context, since time.Time) ([]Result, error) {
	resp, err := c.doRequest(ctx, c.apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draws: %w", err)
	}
	defer resp.Body.Close()

	var records []feedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode draws: %w", err)
	}

	var results []Result
	for _, rec := range records {
		result, err := parseRecord(rec)
		if err != nil {
			logger.Warn("skipping malformed feed record dated %q: %v", rec.DrawDate, err)
			continue
		}
		if !result.Date.After(since) {
			continue
		}
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date.Before(results[j].Date) })
	return results, nil
}

// Sync fetches draws newer than the store's latest and appends them.
// Returns the number of draws added.
func (c *Client) Sync(ctx context.Context, store *history.Store) (int, error) {
	var since time.Time
	if draws := store.Draws(); len(draws) > 0 {
		since = draws[len(draws)-1].Date
	}

	results, err := c.FetchSince(ctx, since)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, r := range results {
		if _, err := store.AddDraw(r.Date, r.Numbers, r.Bonus); err != nil {
			return added, fmt.Errorf("storing fetched draw dated %s: %w",
				r.Date.Format("2006-01-02"), err)
		}
		added++
	}
	logger.Info("draw feed sync: %d new draws", added)
	return added, nil
}

// parseRecord converts one feed record into a Result.
func parseRecord(rec feedRecord) (Result, error) {
	var result Result

	// Some feeds append a time component to the date.
	dateStr := rec.DrawDate
	if idx := strings.IndexByte(dateStr, 'T'); idx > 0 {
		dateStr = dateStr[:idx]
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return result, fmt.Errorf("bad draw date: %w", err)
	}
	result.Date = date

	fields := strings.Fields(rec.WinningNumbers)
	if len(fields) != models.PickCount+1 {
		return result, fmt.Errorf("expected %d winning numbers, got %d", models.PickCount+1, len(fields))
	}
	for i := 0; i < models.PickCount; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return result, fmt.Errorf("bad winning number %q: %w", fields[i], err)
		}
		result.Numbers[i] = n
	}
	if result.Bonus, err = strconv.Atoi(fields[models.PickCount]); err != nil {
		return result, fmt.Errorf("bad bonus number %q: %w", fields[models.PickCount], err)
	}
	return result, nil
}

// doRequest performs HTTP request with retry logic
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	maxRetries := 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
