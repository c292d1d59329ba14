package mongodb

import (
	"context"
	"errors"
	"taskhub/domain/models"
	"taskhub/domain/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) repositories.ProjectRepository {
	return &ProjectRepository{coll: db.Collection(collectionProjects)}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	_, err := r.coll.InsertOne(ctx, newProjectDocument(project))
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"_id": id.String(), "owner_id": ownerID.String()})
}

func (r *ProjectRepository) GetInbox(ctx context.Context, ownerID uuid.UUID) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID.String(), "is_inbox": true})
}

func (r *ProjectRepository) findOne(ctx context.Context, filter bson.M) (*models.Project, error) {
	var doc projectDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel()
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: 1},
		{Key: "created_at", Value: 1},
	})
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []projectDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	projects := make([]*models.Project, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": project.ID.String(), "owner_id": project.OwnerID.String()},
		bson.M{"$set": bson.M{
			"name":       project.Name,
			"slug":       project.Slug,
			"color":      project.Color,
			"sort_order": project.Order,
			"updated_at": project.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "owner_id": ownerID.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) MaxOrder(ctx context.Context, ownerID uuid.UUID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sort_order", Value: -1}})
	var doc projectDocument
	err := r.coll.FindOne(ctx, bson.M{"owner_id": ownerID.String()}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return doc.Order, nil
}
