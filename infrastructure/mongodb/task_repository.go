package mongodb

import (
	"context"
	"regexp"
	"taskhub/domain/models"
	"taskhub/domain/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) repositories.TaskRepository {
	return &TaskRepository{coll: db.Collection(collectionTasks)}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	_, err := r.coll.InsertOne(ctx, newTaskDocument(task))
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	var doc taskDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String(), "owner_id": ownerID.String()}).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return doc.toModel()
}

func (r *TaskRepository) Find(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: 1},
		{Key: "created_at", Value: -1},
	})

	cursor, err := r.coll.Find(ctx, taskQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]*models.Task, 0, len(docs))
	for i := range docs {
		t, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// taskQuery mirrors TaskFilter.Matches as a mongo filter document.
func taskQuery(f repositories.TaskFilter) bson.M {
	q := bson.M{"owner_id": f.OwnerID.String()}

	if f.ProjectID != nil {
		q["project_id"] = f.ProjectID.String()
	}
	switch {
	case f.ParentID != nil:
		q["parent_id"] = f.ParentID.String()
	case f.TopLevelOnly:
		q["parent_id"] = nil
	}

	due := bson.M{}
	if f.DueFrom != nil {
		due["$gte"] = *f.DueFrom
	}
	if f.DueBefore != nil {
		due["$lt"] = *f.DueBefore
	}
	if len(due) > 0 {
		q["due_date"] = due
	}

	if f.IncompleteOnly {
		q["is_completed"] = false
	}
	if f.Priority != nil {
		q["priority"] = int(*f.Priority)
	}
	if f.NoPriority {
		q["priority"] = bson.M{"$nin": bson.A{
			int(models.PriorityLow), int(models.PriorityMedium), int(models.PriorityHigh), int(models.PriorityUrgent),
		}}
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"content": pattern},
			bson.M{"tags": pattern},
		}
	}
	return q
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	doc := newTaskDocument(task)
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": doc.ID, "owner_id": doc.OwnerID},
		bson.M{"$set": bson.M{
			"content":      doc.Content,
			"description":  doc.Description,
			"parent_id":    doc.ParentID,
			"priority":     doc.Priority,
			"due_date":     doc.DueDate,
			"tags":         doc.Tags,
			"is_completed": doc.IsCompleted,
			"sort_order":   doc.Order,
			"updated_at":   doc.UpdatedAt,
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

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "owner_id": ownerID.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepository) CountSubtasks(ctx context.Context, ownerID uuid.UUID, parentIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	ids := make(bson.A, len(parentIDs))
	for i, id := range parentIDs {
		ids[i] = id.String()
	}

	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID.String(), "parent_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$parent_id", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ParentID string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		id, err := uuid.Parse(row.ParentID)
		if err != nil {
			return nil, err
		}
		counts[id] = row.Count
	}
	return counts, nil
}

func (r *TaskRepository) CompletionCounts(ctx context.Context, ownerID, parentID uuid.UUID) (int, int, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID.String(), "parent_id": parentID.String()}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{"$is_completed", 1, 0}}},
		}}},
	})
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total     int `bson:"total"`
		Completed int `bson:"completed"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Completed, nil
}
