package repositories

import (
	"context"
	"taskhub/domain/models"

	"github.com/google/uuid"
)

// TaskRepository persists tasks. Every read and write is scoped by ownerID;
// a task owned by someone else behaves exactly like a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	CountSubtasks(ctx context.Context, ownerID uuid.UUID, parentIDs []uuid.UUID) (map[uuid.UUID]int, error)
	CompletionCounts(ctx context.Context, ownerID, parentID uuid.UUID) (total, completed int, err error)
}
