package services

import (
	"context"
	"taskhub/domain/dto"
	"taskhub/domain/models"

	"github.com/google/uuid"
)

// TaskService owns the task hierarchy. ownerID is the authenticated caller
// and scopes every call.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, req *dto.TaskFilterRequest) ([]*models.Task, error)
	GetSubtasks(ctx context.Context, ownerID, parentID uuid.UUID) ([]*models.Task, error)
	GetCompletion(ctx context.Context, ownerID, parentID uuid.UUID) (*models.Task, models.CompletionStats, error)
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
	CompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	UncompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	SearchTasks(ctx context.Context, ownerID uuid.UUID, query string) ([]*models.Task, error)
}
