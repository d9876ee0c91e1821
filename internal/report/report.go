// Package report exports backtest results and aggregate statistics to JSON
// and CSV files. Writes are atomic: data goes to a temporary file first and
// is renamed into place, so a crash mid-write never corrupts an existing
// report.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lottoscope/lottoscope/internal/backtest"
	"github.com/lottoscope/lottoscope/internal/models"
)

const (
	fileVersion     = "1.0"
	filePermissions = 0o644
	dirPermissions  = 0o755
)

// File is the JSON report structure.
type File struct {
	Version    string                  `json:"version"`
	SavedAt    time.Time               `json:"saved_at"`
	Results    []models.BacktestResult `json:"results"`
	Statistics *backtest.Statistics    `json:"statistics,omitempty"`
	Tracker    *backtest.TrackerReport `json:"tracker,omitempty"`
}

// WriteJSON exports a result batch with its aggregate statistics. Either
// summary block may be nil.
func WriteJSON(path string, results []models.BacktestResult, stats *backtest.Statistics, tracker *backtest.TrackerReport) error {
	file := File{
		Version:    fileVersion,
		SavedAt:    time.Now(),
		Results:    results,
		Statistics: stats,
		Tracker:    tracker,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return writeAtomic(path, data)
}

// ReadJSON loads a previously exported report.
func ReadJSON(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshaling report: %w", err)
	}
	return &file, nil
}

// Summary computes aggregate statistics over a result batch, whether it came
// from memory or from a loaded report file. Statistics derived from an
// exported report equal those derived from the original in-memory batch.
func Summary(results []models.BacktestResult) *backtest.Statistics {
	return backtest.ComputeStatistics(results)
}

// csvHeader lists the per-draw CSV columns. Hit buckets get one column per
// possible match count.
var csvHeader = []string{
	"draw_ordinal", "draw_date", "predictions",
	"hits_1", "hits_2", "hits_3", "hits_4", "hits_5",
	"accuracy", "top_score", "avg_score", "processing_ms",
}

// WriteCSV exports one row per backtested draw.
func WriteCSV(path string, results []models.BacktestResult) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i := range results {
		r := &results[i]
		row := []string{
			strconv.Itoa(r.DrawOrdinal),
			r.DrawDate.Format("2006-01-02"),
			strconv.Itoa(len(r.Combinations)),
		}
		for match := 1; match <= models.PickCount; match++ {
			row = append(row, strconv.Itoa(r.Hits[match]))
		}
		row = append(row,
			strconv.FormatFloat(r.Accuracy, 'f', 4, 64),
			strconv.FormatFloat(r.TopScore, 'f', 2, 64),
			strconv.FormatFloat(r.AvgScore, 'f', 2, 64),
			strconv.FormatInt(r.ProcessingTime.Milliseconds(), 10),
		)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

// writeAtomic writes data to a temporary sibling file and renames it over
// the destination.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, filePermissions); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming report file: %w", err)
	}
	return nil
}
