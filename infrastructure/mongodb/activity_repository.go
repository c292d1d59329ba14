package mongodb

import (
	"context"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) repositories.ActivityRepository {
	return &ActivityRepository{coll: db.Collection(collectionActivity)}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	_, err := r.coll.InsertOne(ctx, activityDocument{
		ID:         entry.ID.String(),
		UserID:     entry.UserID.String(),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID.String(),
		CreatedAt:  entry.CreatedAt,
	})
	return err
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	entries := make([]*models.ActivityLog, 0, len(docs))
	for i := range docs {
		e, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
