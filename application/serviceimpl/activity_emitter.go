package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"taskhub/domain/ports"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"time"

	"github.com/google/uuid"
)

// activityTimeout bounds how long a committed mutation waits on its
// activity observers.
const activityTimeout = 3 * time.Second

// activityEmitter is embedded by services that report committed mutations.
// A nil observer disables emission.
type activityEmitter struct {
	observer ports.ActivityObserver
}

func (e activityEmitter) emit(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, at time.Time) {
	if e.observer == nil {
		return
	}
	event := &ports.ActivityEvent{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OccurredAt: at,
	}
	// The mutation is already committed; a caller that hangs up must not
	// cancel its activity entry.
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityTimeout)
	defer cancel()

	if err := e.observer.OnActivity(actx, event); err != nil {
		logger.WarnContext(ctx, "Failed to record activity",
			"action", action,
			"entity_id", entityID,
			"error", err,
		)
	}
}

// notFoundOr maps a repository miss onto services.ErrNotFound for entity and
// wraps anything else.
func notFoundOr(err error, entity string) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return services.NotFoundError(entity)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}
