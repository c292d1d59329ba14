package repositories

import (
	"context"
	"taskhub/domain/models"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error)
	GetInbox(ctx context.Context, ownerID uuid.UUID) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	MaxOrder(ctx context.Context, ownerID uuid.UUID) (int, error)
}
