package services

import (
	"context"
	"taskhub/domain/dto"
	"taskhub/domain/models"

	"github.com/google/uuid"
)

type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uuid.UUID, req *dto.CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, ownerID, projectID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	UpdateProject(ctx context.Context, ownerID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, ownerID, projectID uuid.UUID) error
	EnsureInbox(ctx context.Context, ownerID uuid.UUID) (*models.Project, error)
}
