package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaloriesPerYard is the fixed linear heuristic used to estimate energy
// burned from total distance. It is intentionally not configurable.
const CaloriesPerYard = 0.5

// Segment is one repeated swim interval within a workout list.
//
// Yards, Amount and Time are optional: nil means the swimmer has not filled
// the field in yet. An unset field contributes zero to workout aggregates;
// it is never an error.
type Segment struct {
	ID     uuid.UUID `json:"id"`
	Yards  *float64  `json:"yards,omitempty"`
	Type   string    `json:"type"`   // e.g. "Swim", "Kick", "Drill", "Pull"
	Amount *int      `json:"amount,omitempty"`
	Stroke string    `json:"stroke"` // e.g. "Freestyle"
	Time   *float64  `json:"time,omitempty"` // interval duration in seconds
}

// NewSegment creates a segment with a fresh identifier.
func NewSegment(yards *float64, segType string, amount *int, stroke string, seconds *float64) Segment {
	return Segment{
		ID:     uuid.New(),
		Yards:  yards,
		Type:   segType,
		Amount: amount,
		Stroke: stroke,
		Time:   seconds,
	}
}

// FieldsEqual reports whether two segments carry the same field values.
// The segment ID exists only so editable lists keep row identity across
// reorders; it is deliberately excluded from equality.
func (s Segment) FieldsEqual(o Segment) bool {
	return floatPtrEqual(s.Yards, o.Yards) &&
		s.Type == o.Type &&
		intPtrEqual(s.Amount, o.Amount) &&
		s.Stroke == o.Stroke &&
		floatPtrEqual(s.Time, o.Time)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Workout is the aggregate root: one swim session plan composed of three
// ordered segment lists. Distance, duration, strokes and calories are
// derived from the lists and never stored on the struct.
type Workout struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Coach                *Coach    `json:"coach,omitempty"`
	WarmUp               []Segment `json:"warmUp"`
	MainSet              []Segment `json:"mainSet"`
	CoolDown             []Segment `json:"coolDown"`
	CreatedViaWorkoutKit bool      `json:"createdViaWorkoutKit"`
	Source               string    `json:"source,omitempty"` // e.g. "Random Generator", "WorkoutKit"; empty for manual entry
	Date                 time.Time `json:"date"`
}

// AllSegments returns warm-up, main-set and cool-down segments concatenated
// in that order.
func (w *Workout) AllSegments() []Segment {
	segments := make([]Segment, 0, len(w.WarmUp)+len(w.MainSet)+len(w.CoolDown))
	segments = append(segments, w.WarmUp...)
	segments = append(segments, w.MainSet...)
	segments = append(segments, w.CoolDown...)
	return segments
}

// Distance sums the per-segment yards across all three lists. Unset yards
// count as zero. The repeat count is not multiplied in.
func (w *Workout) Distance() float64 {
	var total float64
	for _, s := range w.AllSegments() {
		if s.Yards != nil {
			total += *s.Yards
		}
	}
	return total
}

// Duration sums the per-segment interval times, in seconds. Unset times
// count as zero. The repeat count is not multiplied in.
func (w *Workout) Duration() float64 {
	var total float64
	for _, s := range w.AllSegments() {
		if s.Time != nil {
			total += *s.Time
		}
	}
	return total
}

// Strokes returns each distinct non-empty stroke label once, in first-seen
// order across warm-up, main-set and cool-down.
func (w *Workout) Strokes() []string {
	seen := make(map[string]bool)
	var strokes []string
	for _, s := range w.AllSegments() {
		if s.Stroke == "" || seen[s.Stroke] {
			continue
		}
		seen[s.Stroke] = true
		strokes = append(strokes, s.Stroke)
	}
	return strokes
}

// EstimatedCalories applies the linear distance heuristic.
func (w *Workout) EstimatedCalories() float64 {
	return w.Distance() * CaloriesPerYard
}

// SegmentCount is the total number of segments across all three lists.
func (w *Workout) SegmentCount() int {
	return len(w.WarmUp) + len(w.MainSet) + len(w.CoolDown)
}

// IsComplete reports whether the workout is eligible for saving. A workout
// needs a non-empty name; empty segment lists are a valid editing state.
func (w *Workout) IsComplete() bool {
	return w.Name != ""
}
