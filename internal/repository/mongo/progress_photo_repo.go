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

const progressPhotoCollectionName = "progress_photos"

type mongoProgressPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressPhotoRepository creates a new progress photo repository.
func NewMongoProgressPhotoRepository(db *mongo.Database) repository.ProgressPhotoRepository {
	return &mongoProgressPhotoRepository{
		collection: db.Collection(progressPhotoCollectionName),
	}
}

func (r *mongoProgressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	if photo.ClientID == primitive.NilObjectID || photo.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("progress photo requires clientId and object key")
	}

	photo.ID = primitive.NewObjectID()
	photo.CreatedAt = time.Now().UTC()
	if photo.UploadedAt.IsZero() {
		photo.UploadedAt = photo.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted progress photo ID")
	}
	return insertedID, nil
}

func (r *mongoProgressPhotoRepository) GetRecentByClient(ctx context.Context, clientID primitive.ObjectID, limit int64) ([]domain.ProgressPhoto, error) {
	var photos []domain.ProgressPhoto
	findOptions := options.Find().
		SetSort(bson.D{{Key: "uploadedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// EnsureProgressPhotoIndexes creates indexes for the progress photos
// collection.
func EnsureProgressPhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
