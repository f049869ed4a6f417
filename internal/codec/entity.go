// Package codec converts workouts to and from the three external shapes the
// app writes: the persisted-store entity, the health-store record, and the
// companion-device message. Encoding is exact; decoding treats boundary data
// as untrusted and degrades to safe defaults instead of failing.
package codec

import (
	"time"

	"github.com/google/uuid"

	"swimcraft/app/internal/domain"
)

// Level assigned to a coach reconstructed from the persisted entity, which
// stores the coach name only.
const defaultCoachLevel = "Level 1"

// SegmentEntity is the flattened five-field segment layout shared by the
// persisted entity and the metadata side-channel.
type SegmentEntity struct {
	Yards  *float64 `bson:"yards,omitempty" json:"yards,omitempty"`
	Type   string   `bson:"type" json:"type"`
	Amount *int     `bson:"amount,omitempty" json:"amount,omitempty"`
	Stroke string   `bson:"stroke" json:"stroke"`
	Time   *float64 `bson:"time,omitempty" json:"time,omitempty"`
}

// WorkoutEntity is the persisted-store document layout. Of the coach only
// the name survives; the rest of the coach record is defaulted on decode.
type WorkoutEntity struct {
	ID                   string          `bson:"_id" json:"id"`
	Name                 string          `bson:"name" json:"name"`
	CoachName            string          `bson:"coachName,omitempty" json:"coachName,omitempty"`
	CreatedViaWorkoutKit bool            `bson:"createdViaWorkoutKit" json:"createdViaWorkoutKit"`
	Source               string          `bson:"source,omitempty" json:"source,omitempty"`
	Date                 time.Time       `bson:"date" json:"date"`
	WarmUp               []SegmentEntity `bson:"warmUp" json:"warmUp"`
	MainSet              []SegmentEntity `bson:"mainSet" json:"mainSet"`
	CoolDown             []SegmentEntity `bson:"coolDown" json:"coolDown"`
}

// EncodeWorkoutEntity maps a workout onto the persisted-entity layout.
func EncodeWorkoutEntity(w domain.Workout) WorkoutEntity {
	entity := WorkoutEntity{
		ID:                   w.ID.String(),
		Name:                 w.Name,
		CreatedViaWorkoutKit: w.CreatedViaWorkoutKit,
		Source:               w.Source,
		Date:                 w.Date,
		WarmUp:               encodeSegments(w.WarmUp),
		MainSet:              encodeSegments(w.MainSet),
		CoolDown:             encodeSegments(w.CoolDown),
	}
	if w.Coach != nil {
		entity.CoachName = w.Coach.Name
	}
	return entity
}

// DecodeWorkoutEntity rebuilds a workout from the persisted entity. Segment
// identifiers are regenerated; an unparsable workout id is replaced with a
// fresh one rather than rejected.
func DecodeWorkoutEntity(e WorkoutEntity) domain.Workout {
	w := domain.Workout{
		ID:                   parseIDOr(e.ID, uuid.New()),
		Name:                 e.Name,
		CreatedViaWorkoutKit: e.CreatedViaWorkoutKit,
		Source:               e.Source,
		Date:                 e.Date,
		WarmUp:               decodeSegments(e.WarmUp),
		MainSet:              decodeSegments(e.MainSet),
		CoolDown:             decodeSegments(e.CoolDown),
	}
	if e.CoachName != "" {
		w.Coach = &domain.Coach{
			Name:  e.CoachName,
			Level: defaultCoachLevel,
			// DateCompleted, club fields and LMSC are not persisted and
			// stay zero-valued.
		}
	}
	return w
}

func encodeSegments(segments []domain.Segment) []SegmentEntity {
	encoded := make([]SegmentEntity, len(segments))
	for i, s := range segments {
		encoded[i] = SegmentEntity{
			Yards:  s.Yards,
			Type:   s.Type,
			Amount: s.Amount,
			Stroke: s.Stroke,
			Time:   s.Time,
		}
	}
	return encoded
}

func decodeSegments(entities []SegmentEntity) []domain.Segment {
	segments := make([]domain.Segment, len(entities))
	for i, e := range entities {
		segments[i] = domain.NewSegment(e.Yards, e.Type, e.Amount, e.Stroke, e.Time)
	}
	return segments
}

func parseIDOr(s string, fallback uuid.UUID) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return fallback
	}
	return id
}
