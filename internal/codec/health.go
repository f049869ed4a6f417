package codec

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"swimcraft/app/internal/domain"
)

// ActivitySwimming is the activity kind stamped on every sample this app
// writes; health-store queries filter on it.
const ActivitySwimming = "swimming"

// Name given to a health sample whose metadata carries no brand name.
const unnamedWorkout = "Unnamed Workout"

// HealthRecord is the health-store sample layout. Distance and energy are
// stored natively so the platform's own displays stay accurate even when the
// metadata side-channel is stripped; duration is the start/end span.
type HealthRecord struct {
	SampleID string         `json:"sampleId"`
	Activity string         `json:"activity"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Distance float64        `json:"distance"` // yards
	Energy   float64        `json:"energy"`   // kilocalories
	Metadata RecordMetadata `json:"metadata"`
}

// RecordMetadata is the loosely-typed side-channel attached to a sample.
// Every field is optional; Detail holds the full segment payload as opaque
// JSON so a sample written by another app, or an older revision, still
// decodes into a usable workout.
type RecordMetadata struct {
	WorkoutID            string          `json:"workoutId,omitempty"`
	BrandName            string          `json:"brandName,omitempty"`
	CreatedViaWorkoutKit *bool           `json:"createdViaWorkoutKit,omitempty"`
	ExternalSource       string          `json:"externalSource,omitempty"`
	Detail               json.RawMessage `json:"detail,omitempty"`
}

// WorkoutDetail is the decoded form of RecordMetadata.Detail.
type WorkoutDetail struct {
	CoachName string          `json:"coachName,omitempty"`
	Strokes   []string        `json:"strokes,omitempty"`
	WarmUp    []SegmentEntity `json:"warmUp"`
	MainSet   []SegmentEntity `json:"mainSet"`
	CoolDown  []SegmentEntity `json:"coolDown"`
}

// HealthCandidate pairs a workout decoded from a health sample with the
// aggregates the store natively carries for it. The native numbers are kept
// separately because a sample without segment detail still reports them.
type HealthCandidate struct {
	Workout  domain.Workout
	Distance float64
	Duration float64 // seconds
	Strokes  []string
}

// EncodeHealthRecord maps a workout onto the health-record layout using its
// computed aggregates.
func EncodeHealthRecord(w domain.Workout) HealthRecord {
	return EncodeHealthRecordWithAggregates(w, w.Distance(), w.Duration(), w.Strokes())
}

// EncodeHealthRecordWithAggregates maps a workout onto the health-record
// layout with explicit native aggregates and stroke list. The scheduler
// path uses this to record a distance goal and stroke intent for a workout
// that has no segments yet.
func EncodeHealthRecordWithAggregates(w domain.Workout, distance, duration float64, strokes []string) HealthRecord {
	createdViaWorkoutKit := w.CreatedViaWorkoutKit
	detail := WorkoutDetail{
		Strokes:  strokes,
		WarmUp:   encodeSegments(w.WarmUp),
		MainSet:  encodeSegments(w.MainSet),
		CoolDown: encodeSegments(w.CoolDown),
	}
	if w.Coach != nil {
		detail.CoachName = w.Coach.Name
	}
	// Marshalling a struct of scalars and slices cannot fail.
	rawDetail, _ := json.Marshal(detail)

	return HealthRecord{
		SampleID: uuid.NewString(),
		Activity: ActivitySwimming,
		Start:    w.Date,
		End:      w.Date.Add(time.Duration(duration * float64(time.Second))),
		Distance: distance,
		Energy:   distance * domain.CaloriesPerYard,
		Metadata: RecordMetadata{
			WorkoutID:            w.ID.String(),
			BrandName:            w.Name,
			CreatedViaWorkoutKit: &createdViaWorkoutKit,
			ExternalSource:       w.Source,
			Detail:               rawDetail,
		},
	}
}

// DecodeHealthRecord rebuilds a workout candidate from a health sample.
//
// Samples are platform-supplied and untrusted: a missing or unparsable
// metadata field falls back to a default instead of failing. A sample with
// no usable detail decodes into an empty-segment workout carrying only the
// native name and aggregates, which is the correct degraded output.
func DecodeHealthRecord(rec HealthRecord, fallbackID uuid.UUID) HealthCandidate {
	w := domain.Workout{
		ID:       parseIDOr(rec.Metadata.WorkoutID, fallbackID),
		Name:     rec.Metadata.BrandName,
		Source:   rec.Metadata.ExternalSource,
		Date:     rec.Start,
		WarmUp:   []domain.Segment{},
		MainSet:  []domain.Segment{},
		CoolDown: []domain.Segment{},
	}
	if w.Name == "" {
		w.Name = unnamedWorkout
	}
	if rec.Metadata.CreatedViaWorkoutKit != nil {
		w.CreatedViaWorkoutKit = *rec.Metadata.CreatedViaWorkoutKit
	}

	candidate := HealthCandidate{
		Distance: rec.Distance,
		Duration: rec.End.Sub(rec.Start).Seconds(),
	}

	var detail WorkoutDetail
	if len(rec.Metadata.Detail) > 0 && json.Unmarshal(rec.Metadata.Detail, &detail) == nil {
		w.WarmUp = decodeSegments(detail.WarmUp)
		w.MainSet = decodeSegments(detail.MainSet)
		w.CoolDown = decodeSegments(detail.CoolDown)
		candidate.Strokes = detail.Strokes
		if detail.CoachName != "" {
			w.Coach = &domain.Coach{Name: detail.CoachName, Level: defaultCoachLevel}
		}
	}

	candidate.Workout = w
	return candidate
}
