package memory

import (
	"context"
	"sort"
	"sync"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
	"time"

	"github.com/google/uuid"
)

type ActivityRepository struct {
	mu      sync.RWMutex
	entries []models.ActivityLog
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

var _ repositories.ActivityRepository = (*ActivityRepository)(nil)

func (r *ActivityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	r.mu.Unlock()
	return nil
}

// ListByUser returns the newest entries first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.ActivityLog, 0)
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	var deleted int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}
