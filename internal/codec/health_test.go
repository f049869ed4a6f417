package codec

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHealthRecord(t *testing.T) {
	w := sampleWorkout()
	rec := EncodeHealthRecord(w)

	assert.NotEmpty(t, rec.SampleID)
	assert.Equal(t, ActivitySwimming, rec.Activity)
	assert.True(t, rec.Start.Equal(w.Date))
	// 200 + 100 yards of set distance; the half-filled drill adds nothing.
	assert.Equal(t, 300.0, rec.Distance)
	assert.Equal(t, 150.0, rec.Energy)
	assert.Equal(t, 270.0, rec.End.Sub(rec.Start).Seconds())

	assert.Equal(t, w.ID.String(), rec.Metadata.WorkoutID)
	assert.Equal(t, "Distance Friday", rec.Metadata.BrandName)
	assert.Equal(t, "Random Generator", rec.Metadata.ExternalSource)
	require.NotNil(t, rec.Metadata.CreatedViaWorkoutKit)
	assert.False(t, *rec.Metadata.CreatedViaWorkoutKit)
	assert.NotEmpty(t, rec.Metadata.Detail)
}

func TestEncodeHealthRecordWithAggregates(t *testing.T) {
	w := sampleWorkout()
	w.WarmUp = nil
	w.MainSet = nil
	w.CreatedViaWorkoutKit = true

	rec := EncodeHealthRecordWithAggregates(w, 2000, 0, []string{"Freestyle"})

	assert.Equal(t, 2000.0, rec.Distance)
	assert.Equal(t, 1000.0, rec.Energy)
	assert.True(t, rec.End.Equal(rec.Start))

	var detail WorkoutDetail
	require.NoError(t, json.Unmarshal(rec.Metadata.Detail, &detail))
	assert.Equal(t, []string{"Freestyle"}, detail.Strokes)
	assert.Empty(t, detail.WarmUp)
}

func TestDecodeHealthRecordRoundTrip(t *testing.T) {
	w := sampleWorkout()
	candidate := DecodeHealthRecord(EncodeHealthRecord(w), uuid.New())

	assert.Equal(t, w.ID, candidate.Workout.ID)
	assert.Equal(t, w.Name, candidate.Workout.Name)
	assert.Equal(t, w.Source, candidate.Workout.Source)
	assert.Equal(t, 300.0, candidate.Distance)
	assert.Equal(t, 270.0, candidate.Duration)
	assert.Equal(t, []string{"Freestyle", "Backstroke", "Choice"}, candidate.Strokes)

	require.NotNil(t, candidate.Workout.Coach)
	assert.Equal(t, "Jane Doe", candidate.Workout.Coach.Name)

	require.Len(t, candidate.Workout.MainSet, 2)
	for i := range w.MainSet {
		assert.True(t, w.MainSet[i].FieldsEqual(candidate.Workout.MainSet[i]))
	}
}

// A sample whose metadata side-channel was stripped in transit must still
// decode into a usable workout from the native fields alone.
func TestDecodeHealthRecordStrippedMetadata(t *testing.T) {
	rec := EncodeHealthRecord(sampleWorkout())
	rec.Metadata.Detail = nil
	rec.Metadata.WorkoutID = ""
	rec.Metadata.BrandName = ""

	fallback := uuid.New()
	candidate := DecodeHealthRecord(rec, fallback)

	assert.Equal(t, fallback, candidate.Workout.ID)
	assert.Equal(t, "Unnamed Workout", candidate.Workout.Name)
	assert.Empty(t, candidate.Workout.AllSegments())
	assert.Nil(t, candidate.Workout.Coach)
	// Native aggregates survive independently of the side-channel.
	assert.Equal(t, 300.0, candidate.Distance)
	assert.Equal(t, 270.0, candidate.Duration)
}

func TestDecodeHealthRecordCorruptDetail(t *testing.T) {
	rec := EncodeHealthRecord(sampleWorkout())
	rec.Metadata.Detail = []byte("{not json")

	candidate := DecodeHealthRecord(rec, uuid.New())
	assert.Empty(t, candidate.Workout.AllSegments())
	assert.Equal(t, 300.0, candidate.Distance)
}

func TestEncodeCompanionMessage(t *testing.T) {
	w := sampleWorkout()
	msg := EncodeCompanionMessage(w)

	assert.Equal(t, w.ID.String(), msg.ID)
	assert.Equal(t, "Distance Friday", msg.Name)
	assert.Equal(t, 300.0, msg.Distance)
	assert.Equal(t, 270.0, msg.Duration)
	assert.Equal(t, "Jane Doe", msg.CoachName)
	assert.Len(t, msg.MainSet, 2)
}

func TestDecodeCompanionMessageRoundTrip(t *testing.T) {
	w := sampleWorkout()
	decoded := DecodeCompanionMessage(EncodeCompanionMessage(w))

	assert.Equal(t, w.ID, decoded.ID)
	assert.Equal(t, w.Name, decoded.Name)
	require.NotNil(t, decoded.Coach)
	assert.Equal(t, "Jane Doe", decoded.Coach.Name)
	require.Len(t, decoded.WarmUp, 1)
	assert.True(t, w.WarmUp[0].FieldsEqual(decoded.WarmUp[0]))
}
