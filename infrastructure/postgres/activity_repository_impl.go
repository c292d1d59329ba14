package postgres

import (
	"context"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) repositories.ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ActivityLog, error) {
	var entries []*models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *ActivityRepositoryImpl) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.ActivityLog{})
	return res.RowsAffected, res.Error
}
