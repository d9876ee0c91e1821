// Package history persists and serves the ordered draw history. The store
// is backed by sqlite so history survives restarts; use the ":memory:" DSN
// for ephemeral runs and tests.
package history

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lottoscope/lottoscope/internal/logger"
	"github.com/lottoscope/lottoscope/internal/models"
)

// dateLayout is the on-disk and CSV date format.
const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS draws (
	ordinal INTEGER PRIMARY KEY,
	date    TEXT NOT NULL UNIQUE,
	n1      INTEGER NOT NULL,
	n2      INTEGER NOT NULL,
	n3      INTEGER NOT NULL,
	n4      INTEGER NOT NULL,
	n5      INTEGER NOT NULL,
	bonus   INTEGER NOT NULL
);
`

// Provider is the read side of the draw history consumed by the analyzers.
type Provider interface {
	Draws() []models.Draw
}

// Store is a sqlite-backed draw history. Draws are kept in strictly
// increasing date order; ordinals are assigned from the chronological
// position and never reused.
type Store struct {
	db    *sql.DB
	game  models.Game
	draws []models.Draw // ordered cache, rebuilt on open and kept in sync
}

// Open opens (creating if needed) a store at the given DSN.
func Open(dsn string, game models.Game) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	s := &Store{db: db, game: game}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("history store opened: %d draws", len(s.draws))
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT ordinal, date, n1, n2, n3, n4, n5, bonus FROM draws ORDER BY date ASC`)
	if err != nil {
		return fmt.Errorf("loading draws: %w", err)
	}
	defer rows.Close()

	var draws []models.Draw
	for rows.Next() {
		var d models.Draw
		var date string
		if err := rows.Scan(&d.Ordinal, &date,
			&d.Numbers[0], &d.Numbers[1], &d.Numbers[2], &d.Numbers[3], &d.Numbers[4],
			&d.Bonus); err != nil {
			return fmt.Errorf("scanning draw row: %w", err)
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return fmt.Errorf("parsing stored draw date %q: %w", date, err)
		}
		d.Date = parsed
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating draw rows: %w", err)
	}
	s.draws = draws
	return nil
}

// Draws returns the full ordered history. The returned slice is shared;
// callers must not mutate it.
func (s *Store) Draws() []models.Draw {
	return s.draws
}

// Len returns the number of stored draws.
func (s *Store) Len() int {
	return len(s.draws)
}

// AddDraw appends one draw. The date must be strictly later than the latest
// stored draw; the draw's ordinal is assigned by the store.
func (s *Store) AddDraw(date time.Time, numbers [models.PickCount]int, bonus int) (models.Draw, error) {
	d := models.Draw{
		Ordinal: len(s.draws),
		Date:    date.Truncate(24 * time.Hour),
		Numbers: numbers,
		Bonus:   bonus,
	}
	if err := d.Validate(s.game); err != nil {
		return models.Draw{}, fmt.Errorf("invalid draw: %w", err)
	}
	if n := len(s.draws); n > 0 && !d.Date.After(s.draws[n-1].Date) {
		return models.Draw{}, fmt.Errorf("draw date %s not after latest stored date %s",
			d.Date.Format(dateLayout), s.draws[n-1].Date.Format(dateLayout))
	}

	_, err := s.db.Exec(
		`INSERT INTO draws (ordinal, date, n1, n2, n3, n4, n5, bonus) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Ordinal, d.Date.Format(dateLayout),
		d.Numbers[0], d.Numbers[1], d.Numbers[2], d.Numbers[3], d.Numbers[4],
		d.Bonus,
	)
	if err != nil {
		return models.Draw{}, fmt.Errorf("inserting draw: %w", err)
	}
	s.draws = append(s.draws, d)
	return d, nil
}

// ImportCSV loads draws from a CSV file with rows of the form
// date,n1,n2,n3,n4,n5,bonus (an optional header row is skipped). Rows with
// dates at or before the latest stored draw are skipped, so repeated imports
// of an updated export are idempotent. Returns the number of draws added.
func (s *Store) ImportCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()
	return s.importCSV(csv.NewReader(f))
}

func (s *Store) importCSV(r *csv.Reader) (int, error) {
	r.FieldsPerRecord = 7

	type row struct {
		date    time.Time
		numbers [models.PickCount]int
		bonus   int
	}
	var rows []row
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading csv line %d: %w", line+1, err)
		}
		line++

		date, err := time.Parse(dateLayout, record[0])
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			return 0, fmt.Errorf("csv line %d: bad date %q: %w", line, record[0], err)
		}

		var rw row
		rw.date = date
		for i := 0; i < models.PickCount; i++ {
			n, err := strconv.Atoi(record[i+1])
			if err != nil {
				return 0, fmt.Errorf("csv line %d: bad number %q: %w", line, record[i+1], err)
			}
			rw.numbers[i] = n
		}
		if rw.bonus, err = strconv.Atoi(record[6]); err != nil {
			return 0, fmt.Errorf("csv line %d: bad bonus %q: %w", line, record[6], err)
		}
		rows = append(rows, rw)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	added := 0
	for _, rw := range rows {
		if n := len(s.draws); n > 0 && !rw.date.After(s.draws[n-1].Date) {
			continue
		}
		if _, err := s.AddDraw(rw.date, rw.numbers, rw.bonus); err != nil {
			return added, fmt.Errorf("importing draw dated %s: %w", rw.date.Format(dateLayout), err)
		}
		added++
	}
	logger.Info("csv import: %d draws added, %d rows seen", added, len(rows))
	return added, nil
}
