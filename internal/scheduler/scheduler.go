// Package scheduler builds workouts for the platform workout-scheduling
// integration. Scheduled workouts carry a distance goal but no authored
// segments; the goal is recorded as the health sample's native distance.
package scheduler

import (
	"time"

	"github.com/google/uuid"

	"swimcraft/app/internal/domain"
)

// SourceWorkoutKit is the provenance string stamped on scheduled workouts.
const SourceWorkoutKit = "WorkoutKit"

// Plan is a scheduled swim: a display name, a distance goal and the strokes
// the swimmer intends to use.
type Plan struct {
	Name         string
	DistanceGoal float64 // yards
	Strokes      []string
	ScheduledAt  time.Time
}

// BuildWorkout turns a plan into a schedulable workout. Segment lists stay
// empty: the plan is a goal, not an authored session. Duration is unknown
// at scheduling time and reported as zero.
func BuildWorkout(plan Plan) domain.Workout {
	date := plan.ScheduledAt
	if date.IsZero() {
		date = time.Now()
	}
	return domain.Workout{
		ID:                   uuid.New(),
		Name:                 plan.Name,
		WarmUp:               []domain.Segment{},
		MainSet:              []domain.Segment{},
		CoolDown:             []domain.Segment{},
		CreatedViaWorkoutKit: true,
		Source:               SourceWorkoutKit,
		Date:                 date,
	}
}
