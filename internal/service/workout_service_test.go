package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"swimcraft/app/internal/codec"
	"swimcraft/app/internal/domain"
	"swimcraft/app/internal/generator"
	"swimcraft/app/internal/healthstore"
	"swimcraft/app/internal/repository"
	"swimcraft/app/internal/scheduler"
)

// --- In-memory fakes ---

// callLog records the order in which the fakes are touched, so tests can
// assert on write and delete ordering across stores.
type callLog struct {
	calls []string
}

func (l *callLog) add(name string) { l.calls = append(l.calls, name) }

type fakeRepo struct {
	log        *callLog
	entities   map[string]codec.WorkoutEntity
	failUpsert error
	failDelete error
}

func newFakeRepo(log *callLog) *fakeRepo {
	return &fakeRepo{log: log, entities: make(map[string]codec.WorkoutEntity)}
}

func (r *fakeRepo) Upsert(ctx context.Context, entity codec.WorkoutEntity) error {
	r.log.add("repo.Upsert")
	if r.failUpsert != nil {
		return r.failUpsert
	}
	r.entities[entity.ID] = entity
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*codec.WorkoutEntity, error) {
	r.log.add("repo.GetByID")
	entity, ok := r.entities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity, nil
}

func (r *fakeRepo) GetAll(ctx context.Context) ([]codec.WorkoutEntity, error) {
	r.log.add("repo.GetAll")
	out := make([]codec.WorkoutEntity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeRepo) GetByDateRange(ctx context.Context, from, to time.Time) ([]codec.WorkoutEntity, error) {
	r.log.add("repo.GetByDateRange")
	var out []codec.WorkoutEntity
	for _, e := range r.entities {
		if !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	r.log.add("repo.DeleteByIDs")
	if r.failDelete != nil {
		return r.failDelete
	}
	for _, id := range ids {
		delete(r.entities, id)
	}
	return nil
}

type fakeHealth struct {
	log        *callLog
	records    map[string]codec.HealthRecord // keyed by sample id
	failSave   error
	failDelete error
}

func newFakeHealth(log *callLog) *fakeHealth {
	return &fakeHealth{log: log, records: make(map[string]codec.HealthRecord)}
}

func (h *fakeHealth) Available() bool { return true }

func (h *fakeHealth) SaveRecord(ctx context.Context, rec codec.HealthRecord) error {
	h.log.add("health.SaveRecord")
	if h.failSave != nil {
		return h.failSave
	}
	h.records[rec.SampleID] = rec
	return nil
}

func (h *fakeHealth) QueryByActivity(ctx context.Context, activity string) ([]codec.HealthRecord, error) {
	h.log.add("health.QueryByActivity")
	var out []codec.HealthRecord
	for _, rec := range h.records {
		if rec.Activity == activity {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (h *fakeHealth) DeleteByWorkoutIDs(ctx context.Context, workoutIDs []string) error {
	h.log.add("health.DeleteByWorkoutIDs")
	if h.failDelete != nil {
		return h.failDelete
	}
	wanted := make(map[string]bool, len(workoutIDs))
	for _, id := range workoutIDs {
		wanted[id] = true
	}
	for sampleID, rec := range h.records {
		if wanted[rec.Metadata.WorkoutID] {
			delete(h.records, sampleID)
		}
	}
	return nil
}

func (h *fakeHealth) Close() error { return nil }

type fakeSender struct {
	pushes [][]codec.CompanionMessage
}

func (s *fakeSender) Send(ctx context.Context, messages []codec.CompanionMessage) error {
	s.pushes = append(s.pushes, messages)
	return nil
}

type fixture struct {
	log     *callLog
	repo    *fakeRepo
	health  *fakeHealth
	sender  *fakeSender
	service WorkoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := &callLog{}
	repo := newFakeRepo(log)
	health := newFakeHealth(log)
	sender := &fakeSender{}
	svc := NewWorkoutService(repo, health, sender, generator.New(), zap.NewNop())
	return &fixture{log: log, repo: repo, health: health, sender: sender, service: svc}
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func completedWorkout(name string) domain.Workout {
	return domain.Workout{
		ID:   uuid.New(),
		Name: name,
		MainSet: []domain.Segment{
			domain.NewSegment(fp(100), "Swim", ip(4), "Freestyle", fp(90)),
			domain.NewSegment(fp(200), "Kick", ip(2), "Backstroke", fp(120)),
		},
		Date: time.Date(2026, 8, 14, 6, 0, 0, 0, time.UTC),
	}
}

// --- SaveWorkout ---

func TestSaveWorkoutWritesBothStores(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("Morning Swim")

	require.NoError(t, f.service.SaveWorkout(context.Background(), w))

	assert.Contains(t, f.repo.entities, w.ID.String())
	require.Len(t, f.health.records, 1)
	for _, rec := range f.health.records {
		assert.Equal(t, w.ID.String(), rec.Metadata.WorkoutID)
		assert.Equal(t, 300.0, rec.Distance)
	}
	// Persisted store is written before the health store.
	assert.Equal(t, "repo.Upsert", f.log.calls[0])
	assert.Equal(t, "health.SaveRecord", f.log.calls[1])
	// The save triggers a companion push of the reconciled list.
	require.NotEmpty(t, f.sender.pushes)
	assert.Len(t, f.sender.pushes[len(f.sender.pushes)-1], 1)
}

func TestSaveWorkoutRejectsEmptyNameBeforeAnyWrite(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("")

	err := f.service.SaveWorkout(context.Background(), w)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, f.log.calls)
	assert.Empty(t, f.sender.pushes)
}

func TestSaveWorkoutRejectsZeroSegments(t *testing.T) {
	f := newFixture(t)
	w := domain.Workout{ID: uuid.New(), Name: "Empty Plan"}

	err := f.service.SaveWorkout(context.Background(), w)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, f.log.calls)
}

func TestSaveWorkoutPartialWrite(t *testing.T) {
	f := newFixture(t)
	f.health.failSave = assert.AnError
	w := completedWorkout("Morning Swim")

	err := f.service.SaveWorkout(context.Background(), w)
	assert.ErrorIs(t, err, ErrPartialWrite)
	// The persisted write is not rolled back.
	assert.Contains(t, f.repo.entities, w.ID.String())
	assert.Empty(t, f.health.records)
}

func TestSaveWorkoutWithUnavailableHealthStore(t *testing.T) {
	log := &callLog{}
	repo := newFakeRepo(log)
	sender := &fakeSender{}
	svc := NewWorkoutService(repo, healthstore.Unavailable(), sender, generator.New(), zap.NewNop())
	w := completedWorkout("Offline Swim")

	require.NoError(t, svc.SaveWorkout(context.Background(), w))
	assert.Contains(t, repo.entities, w.ID.String())
}

// --- ListWorkouts ---

func TestListWorkoutsMergesStores(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("Morning Swim")
	require.NoError(t, f.service.SaveWorkout(context.Background(), w))

	merged, err := f.service.ListWorkouts(context.Background())
	require.NoError(t, err)
	require.Len(t, merged, 1)

	entry := merged[0]
	assert.Equal(t, w.ID, entry.Workout.ID)
	// Segment detail survives through the persisted side.
	assert.Len(t, entry.Workout.MainSet, 2)
	assert.Equal(t, 300.0, entry.Distance)
	assert.Equal(t, 210.0, entry.Duration)
	assert.Equal(t, []string{"Freestyle", "Backstroke"}, entry.Strokes)
}

func TestListWorkoutsIncludesHealthOnlyEntries(t *testing.T) {
	f := newFixture(t)
	// A swim recorded by another app: present in the health store only.
	foreign := codec.HealthRecord{
		SampleID: uuid.NewString(),
		Activity: codec.ActivitySwimming,
		Start:    time.Now().Add(-time.Hour),
		End:      time.Now(),
		Distance: 1800,
	}
	require.NoError(t, f.health.SaveRecord(context.Background(), foreign))

	merged, err := f.service.ListWorkouts(context.Background())
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "Unnamed Workout", merged[0].Workout.Name)
	assert.Equal(t, 1800.0, merged[0].Distance)
}

func TestListWorkoutsHidesPersistedOnlyEntries(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("Ghost")
	require.NoError(t, f.repo.Upsert(context.Background(), codec.EncodeWorkoutEntity(w)))

	merged, err := f.service.ListWorkouts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, merged)
}

func TestListWorkoutsDegradesWithoutHealthStore(t *testing.T) {
	log := &callLog{}
	repo := newFakeRepo(log)
	svc := NewWorkoutService(repo, healthstore.Unavailable(), &fakeSender{}, generator.New(), zap.NewNop())

	w := completedWorkout("Offline Swim")
	require.NoError(t, repo.Upsert(context.Background(), codec.EncodeWorkoutEntity(w)))

	merged, err := svc.ListWorkouts(context.Background())
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "Offline Swim", merged[0].Workout.Name)
	// Aggregates are computed from segments in the degraded path.
	assert.Equal(t, 300.0, merged[0].Distance)
}

// --- GetWorkout ---

func TestGetWorkout(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("Morning Swim")
	require.NoError(t, f.service.SaveWorkout(context.Background(), w))

	entry, err := f.service.GetWorkout(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Swim", entry.Workout.Name)
}

func TestGetWorkoutFallsBackToPersistedStore(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("Hidden")
	require.NoError(t, f.repo.Upsert(context.Background(), codec.EncodeWorkoutEntity(w)))

	entry, err := f.service.GetWorkout(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hidden", entry.Workout.Name)
}

func TestGetWorkoutNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.GetWorkout(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

// --- DeleteWorkouts ---

func TestDeleteWorkoutsRemovesFromBothStores(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("Doomed")
	require.NoError(t, f.service.SaveWorkout(context.Background(), w))

	f.log.calls = nil
	require.NoError(t, f.service.DeleteWorkouts(context.Background(), []uuid.UUID{w.ID}))

	assert.Empty(t, f.repo.entities)
	assert.Empty(t, f.health.records)
	// Health store first, persisted store second.
	assert.Equal(t, "health.DeleteByWorkoutIDs", f.log.calls[0])
	assert.Equal(t, "repo.DeleteByIDs", f.log.calls[1])
}

func TestDeleteWorkoutsStopsOnHealthStoreFailure(t *testing.T) {
	f := newFixture(t)
	w := completedWorkout("Sticky")
	require.NoError(t, f.service.SaveWorkout(context.Background(), w))

	f.health.failDelete = assert.AnError
	err := f.service.DeleteWorkouts(context.Background(), []uuid.UUID{w.ID})
	assert.Error(t, err)
	// The persisted copy survives so nothing is half-deleted silently.
	assert.Contains(t, f.repo.entities, w.ID.String())
}

func TestDeleteWorkoutsEmptySetIsNoOp(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.service.DeleteWorkouts(context.Background(), nil))
	assert.Empty(t, f.log.calls)
}

// --- GenerateRandomWorkout / ScheduleWorkout ---

func TestGenerateRandomWorkoutSaves(t *testing.T) {
	f := newFixture(t)
	w, err := f.service.GenerateRandomWorkout(context.Background())
	require.NoError(t, err)

	assert.Equal(t, generator.SourceRandomGenerator, w.Source)
	assert.Contains(t, f.repo.entities, w.ID.String())
	assert.Len(t, f.health.records, 1)
}

func TestScheduleWorkoutRecordsDistanceGoal(t *testing.T) {
	f := newFixture(t)
	plan := scheduler.Plan{
		Name:         "Thursday Distance Goal",
		DistanceGoal: 2000,
		Strokes:      []string{"Freestyle"},
	}

	w, err := f.service.ScheduleWorkout(context.Background(), plan)
	require.NoError(t, err)

	assert.True(t, w.CreatedViaWorkoutKit)
	assert.Empty(t, w.AllSegments())
	require.Len(t, f.health.records, 1)
	for _, rec := range f.health.records {
		// The goal becomes the sample's native distance.
		assert.Equal(t, 2000.0, rec.Distance)
		assert.Equal(t, 0.0, rec.End.Sub(rec.Start).Seconds())
	}
}

func TestScheduleWorkoutValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ScheduleWorkout(context.Background(), scheduler.Plan{Name: ""})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.service.ScheduleWorkout(context.Background(), scheduler.Plan{Name: "Bad", DistanceGoal: -1})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, f.log.calls)
}

// --- MonthlySummary ---

func TestMonthlySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	aug14a := completedWorkout("Aug 14 Morning")
	aug14b := completedWorkout("Aug 14 Evening")
	aug14b.Date = time.Date(2026, 8, 14, 18, 0, 0, 0, time.UTC)
	aug20 := completedWorkout("Aug 20")
	aug20.Date = time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC)
	july := completedWorkout("July Swim")
	july.Date = time.Date(2026, 7, 3, 6, 0, 0, 0, time.UTC)

	for _, w := range []domain.Workout{aug14a, aug14b, aug20, july} {
		require.NoError(t, f.repo.Upsert(ctx, codec.EncodeWorkoutEntity(w)))
	}

	summary, err := f.service.MonthlySummary(ctx, 2026, time.August)
	require.NoError(t, err)

	assert.Equal(t, 900.0, summary.TotalYards)
	want := []DailyYardage{
		{Date: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), Yards: 600},
		{Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Yards: 300},
	}
	if diff := cmp.Diff(want, summary.Days); diff != "" {
		t.Errorf("daily yardage mismatch (-want +got):\n%s", diff)
	}
}
