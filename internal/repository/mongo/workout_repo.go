package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"swimcraft/app/internal/codec"
	"swimcraft/app/internal/repository"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Upsert writes the full workout entity, replacing any existing document
// with the same id.
func (r *mongoWorkoutRepository) Upsert(ctx context.Context, entity codec.WorkoutEntity) error {
	if entity.ID == "" {
		return errors.New("workout entity requires an id")
	}
	filter := bson.M{"_id": entity.ID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, entity, opts)
	return err
}

// GetByID retrieves a single workout entity by its id.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*codec.WorkoutEntity, error) {
	var entity codec.WorkoutEntity
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&entity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// GetAll retrieves every stored workout entity.
func (r *mongoWorkoutRepository) GetAll(ctx context.Context) ([]codec.WorkoutEntity, error) {
	return r.find(ctx, bson.M{}, options.Find())
}

// GetByDateRange retrieves entities with date in [from, to), ascending by date.
func (r *mongoWorkoutRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]codec.WorkoutEntity, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lt": to}}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, filter, findOptions)
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]codec.WorkoutEntity, error) {
	entities := []codec.WorkoutEntity{}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entities); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entities, nil
}

// DeleteByIDs removes every entity whose id is in the set. Ids with no
// matching document are ignored; deleting an already-deleted workout is not
// an error.
func (r *mongoWorkoutRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	_, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return repository.ErrDeleteFailed
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Monthly summary queries filter and sort on date.
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
