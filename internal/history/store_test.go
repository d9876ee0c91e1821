package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lottoscope/lottoscope/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", models.DefaultGame())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestAddDrawAssignsOrdinals(t *testing.T) {
	s := openTestStore(t)

	first, err := s.AddDraw(date(2024, 1, 1), [models.PickCount]int{3, 14, 27, 39, 55}, 10)
	if err != nil {
		t.Fatalf("AddDraw: %v", err)
	}
	second, err := s.AddDraw(date(2024, 1, 4), [models.PickCount]int{7, 14, 22, 39, 61}, 4)
	if err != nil {
		t.Fatalf("AddDraw: %v", err)
	}
	if first.Ordinal != 0 || second.Ordinal != 1 {
		t.Errorf("ordinals = %d, %d; want 0, 1", first.Ordinal, second.Ordinal)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestAddDrawRejectsNonIncreasingDate(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.AddDraw(date(2024, 1, 4), [models.PickCount]int{3, 14, 27, 39, 55}, 10); err != nil {
		t.Fatalf("AddDraw: %v", err)
	}
	// Same date and earlier date both fail.
	if _, err := s.AddDraw(date(2024, 1, 4), [models.PickCount]int{7, 14, 22, 39, 61}, 4); err == nil {
		t.Error("expected error for duplicate date")
	}
	if _, err := s.AddDraw(date(2024, 1, 1), [models.PickCount]int{7, 14, 22, 39, 61}, 4); err == nil {
		t.Error("expected error for earlier date")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after rejected adds, want 1", s.Len())
	}
}

func TestAddDrawRejectsInvalidDraw(t *testing.T) {
	s := openTestStore(t)
	cases := []struct {
		name    string
		numbers [models.PickCount]int
		bonus   int
	}{
		{"out of range", [models.PickCount]int{3, 14, 27, 39, 70}, 10},
		{"duplicate", [models.PickCount]int{3, 3, 27, 39, 55}, 10},
		{"bad bonus", [models.PickCount]int{3, 14, 27, 39, 55}, 27},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AddDraw(date(2024, 1, 1), tt.numbers, tt.bonus); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPersistenceAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draws.db")

	s, err := Open(path, models.DefaultGame())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.AddDraw(date(2024, 1, 1), [models.PickCount]int{3, 14, 27, 39, 55}, 10); err != nil {
		t.Fatalf("AddDraw: %v", err)
	}
	if _, err := s.AddDraw(date(2024, 1, 4), [models.PickCount]int{7, 14, 22, 39, 61}, 4); err != nil {
		t.Fatalf("AddDraw: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path, models.DefaultGame())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	draws := reopened.Draws()
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws after reopen, got %d", len(draws))
	}
	if !draws[0].Date.Equal(date(2024, 1, 1)) || draws[0].Numbers[0] != 3 {
		t.Errorf("unexpected first draw: %+v", draws[0])
	}
	if draws[1].Ordinal != 1 || draws[1].Bonus != 4 {
		t.Errorf("unexpected second draw: %+v", draws[1])
	}
}

func TestImportCSV(t *testing.T) {
	s := openTestStore(t)

	csvPath := filepath.Join(t.TempDir(), "draws.csv")
	content := "date,n1,n2,n3,n4,n5,bonus\n" +
		"2024-01-04,7,14,22,39,61,4\n" +
		"2024-01-01,3,14,27,39,55,10\n" +
		"2024-01-08,3,9,27,44,55,18\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	added, err := s.ImportCSV(csvPath)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if added != 3 {
		t.Errorf("added = %d, want 3", added)
	}

	// Rows are sorted by date before insertion.
	draws := s.Draws()
	if !draws[0].Date.Equal(date(2024, 1, 1)) || !draws[2].Date.Equal(date(2024, 1, 8)) {
		t.Errorf("draws not in date order: %+v", draws)
	}

	// Re-import is idempotent.
	added, err = s.ImportCSV(csvPath)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if added != 0 {
		t.Errorf("re-import added %d draws, want 0", added)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d after re-import, want 3", s.Len())
	}
}

func TestImportCSVBadRow(t *testing.T) {
	s := openTestStore(t)

	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	content := "2024-01-01,3,14,27,39,fifty,10\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}
	if _, err := s.ImportCSV(csvPath); err == nil {
		t.Error("expected error for malformed row")
	}
}
