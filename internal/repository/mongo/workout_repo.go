package mongo

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

type workoutDoc struct {
	ID        int64     `bson:"_id"`
	UserID    int64     `bson:"userId"`
	Name      string    `bson:"name"`
	Age       *int      `bson:"age,omitempty"`
	Level     string    `bson:"level"`
	PlanJSON  string    `bson:"planJson"` // Kept as text so the payload round-trips byte for byte
	CreatedAt time.Time `bson:"createdAt"`
}

// mongoWorkoutRepository implements repository.PlanRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoWorkoutRepository creates a new saved plan repository.
func NewMongoWorkoutRepository(db *mongo.Database, counters *mongo.Collection) repository.PlanRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
		counters:   counters,
	}
}

func (r *mongoWorkoutRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (int64, error) {
	id, err := nextID(ctx, r.counters, workoutCollectionName)
	if err != nil {
		return 0, err
	}

	doc := workoutDoc{
		ID:        id,
		UserID:    plan.UserID,
		Name:      plan.Name,
		Age:       plan.Age,
		Level:     plan.Level,
		PlanJSON:  string(plan.Plan),
		CreatedAt: time.Now().UTC(),
	}
	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		return 0, translateError(err)
	}
	plan.ID = doc.ID
	plan.CreatedAt = doc.CreatedAt
	return doc.ID, nil
}

func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error) {
	var doc workoutDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workoutDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	plans := make([]domain.WorkoutPlan, 0, len(docs))
	for _, d := range docs {
		plans = append(plans, *d.toDomain())
	}
	return plans, nil
}

// Delete removes the plan only when it belongs to userID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (d workoutDoc) toDomain() *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		Age:       d.Age,
		Level:     d.Level,
		Plan:      json.RawMessage(d.PlanJSON),
		CreatedAt: d.CreatedAt,
	}
}

// EnsureWorkoutIndexes creates necessary indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
