package services

import (
	"context"
	"taskhub/domain/dto"

	"github.com/google/uuid"
)

type ExportService interface {
	ExportTasks(ctx context.Context, ownerID uuid.UUID) (*dto.ExportResponse, error)
}
