package codec

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swimcraft/app/internal/domain"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func sampleWorkout() domain.Workout {
	return domain.Workout{
		ID:   uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Name: "Distance Friday",
		Coach: &domain.Coach{
			Name:          "Jane Doe",
			Level:         "Level 2",
			DateCompleted: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			ClubAbbr:      "ABC",
			ClubName:      "Abc Swim Club",
			LMSC:          "12",
		},
		WarmUp: []domain.Segment{
			domain.NewSegment(fp(200), "Easy", ip(1), "Freestyle", fp(180)),
		},
		MainSet: []domain.Segment{
			domain.NewSegment(fp(100), "Swim", ip(4), "Backstroke", fp(90)),
			domain.NewSegment(nil, "Drill", nil, "Choice", nil),
		},
		CoolDown: []domain.Segment{},
		Source:   "Random Generator",
		Date:     time.Date(2026, 8, 14, 6, 30, 0, 0, time.UTC),
	}
}

func TestEncodeWorkoutEntityKeepsCoachNameOnly(t *testing.T) {
	entity := EncodeWorkoutEntity(sampleWorkout())

	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", entity.ID)
	assert.Equal(t, "Jane Doe", entity.CoachName)
	assert.Equal(t, "Random Generator", entity.Source)
	assert.Len(t, entity.WarmUp, 1)
	assert.Len(t, entity.MainSet, 2)
	assert.Empty(t, entity.CoolDown)

	// The second main-set segment was only partially filled in; the unset
	// fields must stay unset, not turn into zeros.
	assert.Nil(t, entity.MainSet[1].Yards)
	assert.Nil(t, entity.MainSet[1].Amount)
	assert.Nil(t, entity.MainSet[1].Time)
}

func TestDecodeWorkoutEntityRoundTrip(t *testing.T) {
	original := sampleWorkout()
	decoded := DecodeWorkoutEntity(EncodeWorkoutEntity(original))

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Name, decoded.Name)
	assert.Equal(t, original.Source, decoded.Source)
	assert.True(t, original.Date.Equal(decoded.Date))

	require.NotNil(t, decoded.Coach)
	assert.Equal(t, "Jane Doe", decoded.Coach.Name)
	// Only the name is stored; the rest of the coach record defaults.
	assert.Equal(t, "Level 1", decoded.Coach.Level)
	assert.True(t, decoded.Coach.DateCompleted.IsZero())
	assert.Empty(t, decoded.Coach.ClubName)

	require.Len(t, decoded.MainSet, 2)
	for i := range original.MainSet {
		assert.True(t, original.MainSet[i].FieldsEqual(decoded.MainSet[i]))
	}
}

func TestDecodeWorkoutEntityWithoutCoach(t *testing.T) {
	w := sampleWorkout()
	w.Coach = nil
	decoded := DecodeWorkoutEntity(EncodeWorkoutEntity(w))
	assert.Nil(t, decoded.Coach)
}

func TestDecodeWorkoutEntityUnparsableID(t *testing.T) {
	entity := EncodeWorkoutEntity(sampleWorkout())
	entity.ID = "not-a-uuid"
	decoded := DecodeWorkoutEntity(entity)
	assert.NotEqual(t, uuid.Nil, decoded.ID)
}
