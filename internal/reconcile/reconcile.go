// Package reconcile merges workout candidates fetched independently from
// the health store and the persisted store into one deduplicated list.
package reconcile

import (
	"sort"

	"swimcraft/app/internal/codec"
	"swimcraft/app/internal/domain"
)

// Merged is one display-ready workout with its authoritative aggregates.
// Distance and duration come from whichever source is authoritative for the
// entry, so they are carried alongside the workout instead of recomputed.
type Merged struct {
	Workout           domain.Workout
	Distance          float64
	Duration          float64 // seconds
	Strokes           []string
	EstimatedCalories float64
}

// Reconcile produces one deduplicated list from the two candidate sets.
//
// The health store drives the result: for each health candidate, a persisted
// entity with the same id contributes the rich detail (segments, coach,
// provenance) while the health sample stays authoritative for the native
// distance/duration aggregates. A health candidate with no persisted match
// is surfaced as-is with empty segment lists. Persisted entities that are
// not visible through the health store are never fabricated into the result.
//
// The output is sorted by workout name ascending, ties broken by id, and
// contains at most one entry per distinct id.
func Reconcile(health []codec.HealthCandidate, persisted []domain.Workout) []Merged {
	byID := make(map[string]domain.Workout, len(persisted))
	for _, w := range persisted {
		byID[w.ID.String()] = w
	}

	merged := make([]Merged, 0, len(health))
	seen := make(map[string]bool, len(health))
	for _, candidate := range health {
		id := candidate.Workout.ID.String()
		if seen[id] {
			continue
		}
		seen[id] = true

		entry := Merged{
			Workout:           candidate.Workout,
			Distance:          candidate.Distance,
			Duration:          candidate.Duration,
			Strokes:           candidate.Strokes,
			EstimatedCalories: candidate.Distance * domain.CaloriesPerYard,
		}
		if stored, ok := byID[id]; ok {
			// The health sample's start date is what the platform shows,
			// so it wins over the persisted timestamp.
			stored.Date = candidate.Workout.Date
			entry.Workout = stored
			entry.Strokes = stored.Strokes()
		}
		merged = append(merged, entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Workout.Name != merged[j].Workout.Name {
			return merged[i].Workout.Name < merged[j].Workout.Name
		}
		return merged[i].Workout.ID.String() < merged[j].Workout.ID.String()
	})
	return merged
}

// FromPersisted builds the merged view straight from persisted entities,
// with computed aggregates. Used when the health store is unavailable and
// the app degrades to persisted-store-only reads.
func FromPersisted(persisted []domain.Workout) []Merged {
	merged := make([]Merged, 0, len(persisted))
	seen := make(map[string]bool, len(persisted))
	for _, w := range persisted {
		id := w.ID.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, Merged{
			Workout:           w,
			Distance:          w.Distance(),
			Duration:          w.Duration(),
			Strokes:           w.Strokes(),
			EstimatedCalories: w.EstimatedCalories(),
		})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Workout.Name != merged[j].Workout.Name {
			return merged[i].Workout.Name < merged[j].Workout.Name
		}
		return merged[i].Workout.ID.String() < merged[j].Workout.ID.String()
	})
	return merged
}
