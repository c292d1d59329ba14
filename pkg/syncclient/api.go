package syncclient

import (
	"context"
	"taskhub/domain/dto"

	"github.com/google/uuid"
)

// TaskAPI is the request/response contract the client needs from the task
// service. HTTPTaskAPI implements it over REST.
type TaskAPI interface {
	ListTasks(ctx context.Context, filter *dto.TaskFilterRequest) ([]dto.TaskResponse, error)
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	CompleteTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error)
	UncompleteTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error)
}
