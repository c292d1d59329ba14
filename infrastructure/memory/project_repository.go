package memory

import (
	"context"
	"sort"
	"sync"
	"taskhub/domain/models"
	"taskhub/domain/repositories"

	"github.com/google/uuid"
)

type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]models.Project
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		projects: make(map[uuid.UUID]models.Project),
	}
}

var _ repositories.ProjectRepository = (*ProjectRepository)(nil)

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	r.mu.Lock()
	r.projects[project.ID] = *project
	r.mu.Unlock()
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, repositories.ErrRecordNotFound
	}
	return &p, nil
}

func (r *ProjectRepository) GetInbox(ctx context.Context, ownerID uuid.UUID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if p.OwnerID == ownerID && p.IsInbox {
			return &p, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*models.Project, 0)
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			projects = append(projects, &p)
		}
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Order != projects[j].Order {
			return projects[i].Order < projects[j].Order
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[project.ID]
	if !ok || existing.OwnerID != project.OwnerID {
		return repositories.ErrRecordNotFound
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return repositories.ErrRecordNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *ProjectRepository) MaxOrder(ctx context.Context, ownerID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for _, p := range r.projects {
		if p.OwnerID == ownerID && p.Order > max {
			max = p.Order
		}
	}
	return max, nil
}
