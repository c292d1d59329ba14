package serviceimpl

import (
	"context"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"time"

	"github.com/google/uuid"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type ActivityServiceImpl struct {
	activityRepo repositories.ActivityRepository
}

func NewActivityService(activityRepo repositories.ActivityRepository) services.ActivityService {
	return &ActivityServiceImpl{activityRepo: activityRepo}
}

func (s *ActivityServiceImpl) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.activityRepo.ListByUser(ctx, userID, limit)
}

// PruneOlderThan deletes entries older than age and reports how many went.
func (s *ActivityServiceImpl) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	before := time.Now().UTC().Add(-age)
	deleted, err := s.activityRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to prune activity log", "before", before, "error", err)
		return 0, err
	}
	if deleted > 0 {
		logger.InfoContext(ctx, "Activity log pruned", "deleted", deleted, "before", before)
	}
	return deleted, nil
}
