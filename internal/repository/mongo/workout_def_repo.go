package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/repository"
)

const workoutDefCollectionName = "workout_definitions"

type mongoWorkoutDefRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutDefinitionRepository creates a new workout definition
// repository.
func NewMongoWorkoutDefinitionRepository(db *mongo.Database) repository.WorkoutDefinitionRepository {
	return &mongoWorkoutDefRepository{
		collection: db.Collection(workoutDefCollectionName),
	}
}

func (r *mongoWorkoutDefRepository) Create(ctx context.Context, def *domain.WorkoutDefinition) (primitive.ObjectID, error) {
	if def.ProgramID == primitive.NilObjectID || def.Name == "" {
		return primitive.NilObjectID, errors.New("workout definition requires programId and name")
	}

	def.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	def.CreatedAt = now
	def.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, def)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout definition ID")
	}
	return insertedID, nil
}

func (r *mongoWorkoutDefRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutDefinition, error) {
	var def domain.WorkoutDefinition
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&def)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &def, nil
}

func (r *mongoWorkoutDefRepository) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.WorkoutDefinition, error) {
	return r.findOrdered(ctx, bson.M{"programId": programID})
}

func (r *mongoWorkoutDefRepository) GetByProgramIDs(ctx context.Context, programIDs []primitive.ObjectID) ([]domain.WorkoutDefinition, error) {
	if len(programIDs) == 0 {
		return []domain.WorkoutDefinition{}, nil
	}
	return r.findOrdered(ctx, bson.M{"programId": bson.M{"$in": programIDs}})
}

func (r *mongoWorkoutDefRepository) findOrdered(ctx context.Context, filter bson.M) ([]domain.WorkoutDefinition, error) {
	var defs []domain.WorkoutDefinition
	findOptions := options.Find().SetSort(bson.D{
		{Key: "weekNumber", Value: 1},
		{Key: "sequence", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *mongoWorkoutDefRepository) CountPrimaryAt(ctx context.Context, programID primitive.ObjectID, week, dayOfWeek int) (int64, error) {
	filter := bson.M{
		"programId":       programID,
		"weekNumber":      week,
		"dayOfWeek":       dayOfWeek,
		"parentWorkoutId": bson.M{"$exists": false},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureWorkoutDefinitionIndexes creates indexes for the workout
// definitions collection.
func EnsureWorkoutDefinitionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "sequence", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "parentWorkoutId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
