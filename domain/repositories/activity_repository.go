package repositories

import (
	"context"
	"taskhub/domain/models"
	"time"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
