package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swimcraft/app/internal/codec"
	"swimcraft/app/internal/companion"
	"swimcraft/app/internal/domain"
	"swimcraft/app/internal/generator"
	"swimcraft/app/internal/healthstore"
	"swimcraft/app/internal/reconcile"
	"swimcraft/app/internal/repository"
	"swimcraft/app/internal/scheduler"
)

// --- Error Definitions ---
var (
	ErrValidationFailed = errors.New("workout validation failed")
	ErrWorkoutNotFound  = errors.New("workout not found")

	// ErrPartialWrite means the persisted-store write succeeded but the
	// health-store write did not. There is no rollback: the two writes are
	// independent by design, and the reconciliation read path tolerates
	// the resulting skew. Callers should surface the failure and let the
	// user retry the save.
	ErrPartialWrite = errors.New("workout saved to persisted store but not to health store")
)

// WorkoutService orchestrates the workout lifecycle across the persisted
// store, the health store and the companion device.
type WorkoutService interface {
	SaveWorkout(ctx context.Context, w domain.Workout) error
	ListWorkouts(ctx context.Context) ([]reconcile.Merged, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*reconcile.Merged, error)
	DeleteWorkouts(ctx context.Context, ids []uuid.UUID) error
	GenerateRandomWorkout(ctx context.Context) (domain.Workout, error)
	ScheduleWorkout(ctx context.Context, plan scheduler.Plan) (domain.Workout, error)
	MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error)
}

// MonthlySummary aggregates a month of swimming from the persisted store.
type MonthlySummary struct {
	Year       int
	Month      time.Month
	TotalYards float64
	Days       []DailyYardage
}

// DailyYardage is the total distance swum on one calendar day.
type DailyYardage struct {
	Date  time.Time
	Yards float64
}

type workoutService struct {
	repo   repository.WorkoutRepository
	health healthstore.SampleStore
	sender companion.Sender
	gen    *generator.Generator
	logger *zap.Logger

	// Serializes dual writes: one in-flight save at a time. The two store
	// writes are not transactional, so overlapping saves of the same
	// workout could interleave them.
	saveMu sync.Mutex
}

// NewWorkoutService creates a new workout service.
func NewWorkoutService(
	repo repository.WorkoutRepository,
	health healthstore.SampleStore,
	sender companion.Sender,
	gen *generator.Generator,
	logger *zap.Logger,
) WorkoutService {
	return &workoutService{
		repo:   repo,
		health: health,
		sender: sender,
		gen:    gen,
		logger: logger,
	}
}

// SaveWorkout validates the workout and writes it to both stores. The
// persisted store is written first; a health-store failure after that is
// reported as ErrPartialWrite without rolling back. No store is touched
// when validation fails.
func (s *workoutService) SaveWorkout(ctx context.Context, w domain.Workout) error {
	if !w.IsComplete() {
		return fmt.Errorf("%w: name must not be empty", ErrValidationFailed)
	}
	// Scheduled workouts legitimately carry no authored segments; the
	// editor path requires at least one.
	if w.SegmentCount() == 0 && !w.CreatedViaWorkoutKit {
		return fmt.Errorf("%w: workout has no segments", ErrValidationFailed)
	}

	if err := s.dualWrite(ctx, w, codec.EncodeHealthRecord(w)); err != nil {
		return err
	}
	s.pushToCompanion(ctx)
	return nil
}

// dualWrite performs the serialized, non-transactional two-store write.
func (s *workoutService) dualWrite(ctx context.Context, w domain.Workout, rec codec.HealthRecord) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.repo.Upsert(ctx, codec.EncodeWorkoutEntity(w)); err != nil {
		return fmt.Errorf("save to persisted store: %w", err)
	}

	if !s.health.Available() {
		// Persisted-only operation: a device without a health store still
		// keeps workouts, it just cannot mirror them.
		s.logger.Warn("health store unavailable; workout saved to persisted store only",
			zap.String("workout_id", w.ID.String()))
		return nil
	}
	if err := s.health.SaveRecord(ctx, rec); err != nil {
		s.logger.Error("health store write failed after persisted write",
			zap.String("workout_id", w.ID.String()),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPartialWrite, err)
	}
	return nil
}

// ListWorkouts fetches candidates from both stores concurrently and merges
// them into one deduplicated list. With the health store unavailable the
// list degrades to the persisted store alone.
func (s *workoutService) ListWorkouts(ctx context.Context) ([]reconcile.Merged, error) {
	if !s.health.Available() {
		s.logger.Info("health store unavailable; listing from persisted store only")
		persisted, err := s.fetchPersisted(ctx)
		if err != nil {
			return nil, err
		}
		return reconcile.FromPersisted(persisted), nil
	}

	var (
		candidates []codec.HealthCandidate
		persisted  []domain.Workout
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.health.QueryByActivity(gctx, codec.ActivitySwimming)
		if err != nil {
			return fmt.Errorf("query health store: %w", err)
		}
		candidates = make([]codec.HealthCandidate, len(records))
		for i, rec := range records {
			candidates[i] = codec.DecodeHealthRecord(rec, uuid.New())
		}
		return nil
	})
	g.Go(func() error {
		var err error
		persisted, err = s.fetchPersisted(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reconcile.Reconcile(candidates, persisted), nil
}

func (s *workoutService) fetchPersisted(ctx context.Context) ([]domain.Workout, error) {
	entities, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query persisted store: %w", err)
	}
	workouts := make([]domain.Workout, len(entities))
	for i, e := range entities {
		workouts[i] = codec.DecodeWorkoutEntity(e)
	}
	return workouts, nil
}

// GetWorkout returns one entry from the reconciled view, falling back to
// the persisted store for workouts the health store does not surface.
func (s *workoutService) GetWorkout(ctx context.Context, id uuid.UUID) (*reconcile.Merged, error) {
	merged, err := s.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range merged {
		if merged[i].Workout.ID == id {
			return &merged[i], nil
		}
	}

	entity, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	entries := reconcile.FromPersisted([]domain.Workout{codec.DecodeWorkoutEntity(*entity)})
	return &entries[0], nil
}

// DeleteWorkouts removes the workouts from both stores. The health store
// goes first, mirroring the write order's inverse; a failure in either
// path is returned so the caller re-fetches instead of guessing the new
// state.
func (s *workoutService) DeleteWorkouts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	if s.health.Available() {
		if err := s.health.DeleteByWorkoutIDs(ctx, idStrings); err != nil {
			return fmt.Errorf("delete from health store: %w", err)
		}
	}
	if err := s.repo.DeleteByIDs(ctx, idStrings); err != nil {
		return fmt.Errorf("delete from persisted store: %w", err)
	}

	s.pushToCompanion(ctx)
	return nil
}

// GenerateRandomWorkout builds a random workout and saves it.
func (s *workoutService) GenerateRandomWorkout(ctx context.Context) (domain.Workout, error) {
	w := s.gen.RandomWorkout()
	if err := s.SaveWorkout(ctx, w); err != nil {
		return domain.Workout{}, err
	}
	return w, nil
}

// ScheduleWorkout creates a workout through the automated-scheduler path.
// The distance goal becomes the health sample's native distance so the
// platform shows it even though no segments exist yet.
func (s *workoutService) ScheduleWorkout(ctx context.Context, plan scheduler.Plan) (domain.Workout, error) {
	if plan.Name == "" {
		return domain.Workout{}, fmt.Errorf("%w: name must not be empty", ErrValidationFailed)
	}
	if plan.DistanceGoal < 0 {
		return domain.Workout{}, fmt.Errorf("%w: distance goal must not be negative", ErrValidationFailed)
	}

	w := scheduler.BuildWorkout(plan)
	rec := codec.EncodeHealthRecordWithAggregates(w, plan.DistanceGoal, 0, plan.Strokes)
	if err := s.dualWrite(ctx, w, rec); err != nil {
		return domain.Workout{}, err
	}
	s.pushToCompanion(ctx)
	return w, nil
}

// MonthlySummary totals distance for one calendar month from the persisted
// store, bucketed per day.
func (s *workoutService) MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	entities, err := s.repo.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query persisted store: %w", err)
	}

	summary := &MonthlySummary{Year: year, Month: month}
	byDay := make(map[time.Time]float64)
	for _, e := range entities {
		w := codec.DecodeWorkoutEntity(e)
		distance := w.Distance()
		summary.TotalYards += distance
		day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
		byDay[day] += distance
	}
	for day, yards := range byDay {
		summary.Days = append(summary.Days, DailyYardage{Date: day, Yards: yards})
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date.Before(summary.Days[j].Date)
	})
	return summary, nil
}

// pushToCompanion mirrors the current reconciled list to the paired watch.
// The push is best-effort: failures are logged, never propagated.
func (s *workoutService) pushToCompanion(ctx context.Context) {
	merged, err := s.ListWorkouts(ctx)
	if err != nil {
		s.logger.Warn("skipping companion push; could not build workout list", zap.Error(err))
		return
	}
	messages := make([]codec.CompanionMessage, len(merged))
	for i, entry := range merged {
		messages[i] = companionMessage(entry)
	}
	if err := s.sender.Send(ctx, messages); err != nil {
		s.logger.Warn("companion push failed", zap.Error(err))
	}
}

// companionMessage builds the watch payload from a merged entry, keeping
// the entry's authoritative aggregates rather than recomputing them.
func companionMessage(entry reconcile.Merged) codec.CompanionMessage {
	msg := codec.EncodeCompanionMessage(entry.Workout)
	msg.Distance = entry.Distance
	msg.Duration = entry.Duration
	msg.Strokes = entry.Strokes
	return msg
}
