// Package healthstore is the app's window onto the shared health-data
// repository. Samples are written with native aggregate quantities plus a
// metadata side-channel; queries filter by activity kind and return samples
// sorted by start date descending.
package healthstore

import (
	"context"
	"errors"

	"swimcraft/app/internal/codec"
)

// ErrUnavailable is returned when the health store cannot be used on this
// device. Callers are expected to degrade to persisted-store-only operation.
var ErrUnavailable = errors.New("health store is not available")

// SampleStore defines the interface for the health-data store.
type SampleStore interface {
	// Available reports whether health data can be read and written at all.
	Available() bool
	SaveRecord(ctx context.Context, rec codec.HealthRecord) error
	// QueryByActivity returns all samples of the given activity kind,
	// sorted by start date descending.
	QueryByActivity(ctx context.Context, activity string) ([]codec.HealthRecord, error)
	// DeleteByWorkoutIDs removes every sample whose metadata workout id is
	// in the set.
	DeleteByWorkoutIDs(ctx context.Context, workoutIDs []string) error
	Close() error
}

// unavailableStore is the degraded stand-in used when the backing database
// could not be opened.
type unavailableStore struct{}

// Unavailable returns a SampleStore for devices without a usable health
// store. Every operation fails with ErrUnavailable.
func Unavailable() SampleStore {
	return unavailableStore{}
}

func (unavailableStore) Available() bool { return false }

func (unavailableStore) SaveRecord(context.Context, codec.HealthRecord) error {
	return ErrUnavailable
}

func (unavailableStore) QueryByActivity(context.Context, string) ([]codec.HealthRecord, error) {
	return nil, ErrUnavailable
}

func (unavailableStore) DeleteByWorkoutIDs(context.Context, []string) error {
	return ErrUnavailable
}

func (unavailableStore) Close() error { return nil }
