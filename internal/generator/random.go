// Package generator builds random swim workouts from fixed option tables.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"swimcraft/app/internal/domain"
)

// SourceRandomGenerator is the provenance string stamped on generated
// workouts.
const SourceRandomGenerator = "Random Generator"

var (
	segmentTypes  = []string{"Drill", "Swim", "Kick", "Pull", "Sprint", "Easy", "Fins"}
	strokeTypes   = []string{"Freestyle", "Backstroke", "Breaststroke", "Butterfly", "Individual Medley", "Choice"}
	yardOptions   = []float64{50, 100, 150, 200, 250, 300}
	amountOptions = []int{1, 2, 3, 4}
	timeOptions   = []float64{30, 45, 60, 90}
)

// Generator produces random workouts. The rand source is injectable so
// tests can pin the sequence.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New creates a Generator seeded from the clock.
func New() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// NewWithSource creates a Generator with a fixed rand source and clock.
func NewWithSource(rng *rand.Rand, now func() time.Time) *Generator {
	return &Generator{rng: rng, now: now}
}

// RandomWorkout builds a complete random workout: 2-4 warm-up, 4-6 main-set
// and 2-3 cool-down segments drawn from the option tables.
func (g *Generator) RandomWorkout() domain.Workout {
	now := g.now()
	return domain.Workout{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("Random Workout %s", now.Format("Jan 2, 2006")),
		WarmUp:   g.randomSegments(g.intBetween(2, 4)),
		MainSet:  g.randomSegments(g.intBetween(4, 6)),
		CoolDown: g.randomSegments(g.intBetween(2, 3)),
		Source:   SourceRandomGenerator,
		Date:     now,
	}
}

func (g *Generator) randomSegments(count int) []domain.Segment {
	segments := make([]domain.Segment, count)
	for i := range segments {
		yards := yardOptions[g.rng.Intn(len(yardOptions))]
		amount := amountOptions[g.rng.Intn(len(amountOptions))]
		seconds := timeOptions[g.rng.Intn(len(timeOptions))]
		segments[i] = domain.NewSegment(
			&yards,
			segmentTypes[g.rng.Intn(len(segmentTypes))],
			&amount,
			strokeTypes[g.rng.Intn(len(strokeTypes))],
			&seconds,
		)
	}
	return segments
}

// intBetween returns a random int in [low, high].
func (g *Generator) intBetween(low, high int) int {
	return low + g.rng.Intn(high-low+1)
}
