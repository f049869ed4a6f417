package healthstore

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"swimcraft/app/internal/codec"
)

const samplePrefix = "sample:"

// badgerStore implements SampleStore on an embedded Badger database. Keys
// order samples by start time so a reverse scan yields newest-first.
type badgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) the health-sample database in dir.
func Open(dir string, logger *zap.Logger) (SampleStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Badger's own logger is too chatty; failures surface as errors.
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open health store: %w", err)
	}
	return &badgerStore{db: db, logger: logger}, nil
}

func (s *badgerStore) Available() bool {
	return s.db != nil && !s.db.IsClosed()
}

// sampleKey orders lexically by start time; the sample id suffix keeps keys
// unique when two workouts share a start instant.
func sampleKey(rec codec.HealthRecord) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", samplePrefix, rec.Start.UTC().UnixNano(), rec.SampleID))
}

func (s *badgerStore) SaveRecord(ctx context.Context, rec codec.HealthRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal health record: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sampleKey(rec), value)
	})
}

func (s *badgerStore) QueryByActivity(ctx context.Context, activity string) ([]codec.HealthRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := []codec.HealthRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(samplePrefix)
		// Reverse iteration needs a seek key past the last prefixed entry.
		seek := append([]byte(samplePrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var rec codec.HealthRecord
				if err := json.Unmarshal(value, &rec); err != nil {
					// A corrupt sample is skipped, not fatal to the query.
					s.logger.Warn("skipping unreadable health sample",
						zap.ByteString("key", it.Item().Key()),
						zap.Error(err))
					return nil
				}
				if rec.Activity == activity {
					records = append(records, rec)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *badgerStore) DeleteByWorkoutIDs(ctx context.Context, workoutIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(workoutIDs) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(workoutIDs))
	for _, id := range workoutIDs {
		wanted[id] = true
	}

	// Collect matching keys under a read transaction first; deleting while
	// iterating invalidates the iterator.
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(samplePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(value []byte) error {
				var rec codec.HealthRecord
				if err := json.Unmarshal(value, &rec); err != nil {
					return nil
				}
				if wanted[rec.Metadata.WorkoutID] {
					keys = append(keys, item.KeyCopy(nil))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
