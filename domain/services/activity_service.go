package services

import (
	"context"
	"taskhub/domain/models"
	"time"

	"github.com/google/uuid"
)

type ActivityService interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityLog, error)
	PruneOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
