package codec

import (
	"github.com/google/uuid"

	"swimcraft/app/internal/domain"
)

// CompanionMessage is the flat payload pushed to the paired watch. The watch
// only needs id, name and either the aggregates or the segment detail to
// render a workout row; everything else is display garnish.
type CompanionMessage struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Distance             float64         `json:"distance"`
	Duration             float64         `json:"duration"` // seconds
	Strokes              []string        `json:"strokes,omitempty"`
	CreatedViaWorkoutKit bool            `json:"createdViaWorkoutKit"`
	CoachName            string          `json:"coachName,omitempty"`
	WarmUp               []SegmentEntity `json:"warmUp,omitempty"`
	MainSet              []SegmentEntity `json:"mainSet,omitempty"`
	CoolDown             []SegmentEntity `json:"coolDown,omitempty"`
}

// EncodeCompanionMessage maps a workout onto the companion-message layout,
// including full segment detail for display fidelity on the watch.
func EncodeCompanionMessage(w domain.Workout) CompanionMessage {
	msg := CompanionMessage{
		ID:                   w.ID.String(),
		Name:                 w.Name,
		Distance:             w.Distance(),
		Duration:             w.Duration(),
		Strokes:              w.Strokes(),
		CreatedViaWorkoutKit: w.CreatedViaWorkoutKit,
		WarmUp:               encodeSegments(w.WarmUp),
		MainSet:              encodeSegments(w.MainSet),
		CoolDown:             encodeSegments(w.CoolDown),
	}
	if w.Coach != nil {
		msg.CoachName = w.Coach.Name
	}
	return msg
}

// DecodeCompanionMessage rebuilds a workout from a companion message, for
// the receiving side of the channel. Missing fields default; an unparsable
// id gets a fresh one.
func DecodeCompanionMessage(msg CompanionMessage) domain.Workout {
	w := domain.Workout{
		ID:                   parseIDOr(msg.ID, uuid.New()),
		Name:                 msg.Name,
		CreatedViaWorkoutKit: msg.CreatedViaWorkoutKit,
		WarmUp:               decodeSegments(msg.WarmUp),
		MainSet:              decodeSegments(msg.MainSet),
		CoolDown:             decodeSegments(msg.CoolDown),
	}
	if msg.CoachName != "" {
		w.Coach = &domain.Coach{Name: msg.CoachName, Level: defaultCoachLevel}
	}
	return w
}
