package activity

import (
	"context"
	"taskhub/domain/models"
	"taskhub/domain/ports"
	"taskhub/domain/repositories"

	"github.com/google/uuid"
)

// Recorder persists each event as an activity log entry.
type Recorder struct {
	repo repositories.ActivityRepository
}

func NewRecorder(repo repositories.ActivityRepository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) OnActivity(ctx context.Context, event *ports.ActivityEvent) error {
	return r.repo.Create(ctx, &models.ActivityLog{
		ID:         uuid.New(),
		UserID:     event.UserID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		CreatedAt:  event.OccurredAt,
	})
}

var _ ports.ActivityObserver = (*Recorder)(nil)
