package repository

import (
	"context"
	"time"

	"swimcraft/app/internal/codec"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutRepository defines the interface for the persisted workout store.
// It deals in the persisted-entity shape; the service layer owns the
// conversion to and from domain workouts.
type WorkoutRepository interface {
	// Upsert writes the entity, replacing any existing document with the
	// same id. Saves are replays of the full workout, not field patches.
	Upsert(ctx context.Context, entity codec.WorkoutEntity) error
	GetByID(ctx context.Context, id string) (*codec.WorkoutEntity, error)
	GetAll(ctx context.Context) ([]codec.WorkoutEntity, error)
	// GetByDateRange returns entities with date in [from, to), ascending.
	GetByDateRange(ctx context.Context, from, to time.Time) ([]codec.WorkoutEntity, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}
