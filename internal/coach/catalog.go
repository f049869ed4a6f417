// Package coach loads the bundled coach catalog, a read-only CSV resource
// listing certified coaches.
package coach

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"swimcraft/app/internal/domain"
)

// ErrMalformedCatalog is returned when the catalog file is empty or its
// header does not match the expected six columns. Callers substitute the
// default coach rather than propagate a crash.
var ErrMalformedCatalog = errors.New("malformed coach catalog")

var expectedHeader = []string{"Coach", "Level", "Date Completed", "Club Abbr", "Club Name", "LMSC"}

// Date layouts accepted in the Date Completed column. Plain dates are the
// common case; full timestamps appear in older catalog exports.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// DefaultCoach is the safe fallback used when the catalog cannot be loaded.
func DefaultCoach() domain.Coach {
	return domain.Coach{
		Name:  "Self Coached",
		Level: "Level 1",
	}
}

// Load parses the catalog at path. A missing file, empty file or header
// mismatch is fatal to the load; individual malformed rows are skipped with
// a warning.
func Load(path string, logger *zap.Logger) ([]domain.Coach, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coach catalog: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // row length is validated per row so bad rows can be skipped
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrMalformedCatalog)
	}
	if !headerMatches(rows[0]) {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrMalformedCatalog, rows[0])
	}

	var coaches []domain.Coach
	for i, row := range rows[1:] {
		c, err := parseRow(row)
		if err != nil {
			logger.Warn("skipping malformed coach row",
				zap.Int("line", i+2),
				zap.Error(err))
			continue
		}
		coaches = append(coaches, c)
	}
	return coaches, nil
}

// FindByName returns the catalog entry with the given name, or nil.
func FindByName(coaches []domain.Coach, name string) *domain.Coach {
	for i := range coaches {
		if coaches[i].Name == name {
			return &coaches[i]
		}
	}
	return nil
}

func headerMatches(header []string) bool {
	if len(header) != len(expectedHeader) {
		return false
	}
	for i, col := range header {
		if strings.TrimSpace(col) != expectedHeader[i] {
			return false
		}
	}
	return true
}

func parseRow(row []string) (domain.Coach, error) {
	if len(row) != 6 {
		return domain.Coach{}, fmt.Errorf("expected 6 columns, got %d", len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	date, err := parseDate(row[2])
	if err != nil {
		return domain.Coach{}, err
	}
	return domain.Coach{
		Name:          row[0],
		Level:         row[1],
		DateCompleted: date,
		ClubAbbr:      row[3],
		ClubName:      row[4],
		LMSC:          row[5],
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		// Some certifications predate the catalog's date column.
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
