package postgres

import (
	"context"
	"strings"
	"taskhub/domain/models"
	"taskhub/domain/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Find(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error) {
	q := r.db.WithContext(ctx).Model(&models.Task{}).Where("owner_id = ?", filter.OwnerID)

	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	switch {
	case filter.ParentID != nil:
		q = q.Where("parent_id = ?", *filter.ParentID)
	case filter.TopLevelOnly:
		q = q.Where("parent_id IS NULL")
	}
	if filter.DueFrom != nil {
		q = q.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.IncompleteOnly {
		q = q.Where("is_completed = ?", false)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", int(*filter.Priority))
	}
	if filter.NoPriority {
		q = q.Where("priority NOT BETWEEN ? AND ?", int(models.PriorityLow), int(models.PriorityUrgent))
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		q = q.Where("content ILIKE ? OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ?)", pattern, pattern)
	}

	var tasks []*models.Task
	err := q.Order("sort_order ASC").Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// Update writes every mutable column. Owner, project and creation time are
// never touched.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND owner_id = ?", task.ID, task.OwnerID).
		Select("*").
		Omit("id", "owner_id", "project_id", "created_at").
		Updates(task)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) CountSubtasks(ctx context.Context, ownerID uuid.UUID, parentIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ParentID uuid.UUID
		Count    int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("parent_id, COUNT(*) AS count").
		Where("owner_id = ? AND parent_id IN ?", ownerID, parentIDs).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ParentID] = row.Count
	}
	return counts, nil
}

func (r *TaskRepositoryImpl) CompletionCounts(ctx context.Context, ownerID, parentID uuid.UUID) (int, int, error) {
	var result struct {
		Total     int
		Completed int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE is_completed) AS completed").
		Where("owner_id = ? AND parent_id = ?", ownerID, parentID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Total, result.Completed, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
