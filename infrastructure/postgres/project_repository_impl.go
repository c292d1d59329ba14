package postgres

import (
	"context"
	"taskhub/domain/models"
	"taskhub/domain/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) repositories.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) GetInbox(ctx context.Context, ownerID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("owner_id = ? AND is_inbox = ?", ownerID, true).First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *models.Project) error {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND owner_id = ?", project.ID, project.OwnerID).
		Select("name", "slug", "color", "sort_order", "updated_at").
		Updates(project)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) MaxOrder(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}
