package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/ports"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProjectServiceImpl struct {
	activityEmitter
	projectRepo repositories.ProjectRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, observer ports.ActivityObserver) services.ProjectService {
	return &ProjectServiceImpl{
		activityEmitter: activityEmitter{observer: observer},
		projectRepo:     projectRepo,
	}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, ownerID uuid.UUID, req *dto.CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, services.NewValidationError("name", "name is required")
	}
	if strings.EqualFold(name, models.InboxProjectName) {
		return nil, services.NewValidationError("name", "name is reserved")
	}

	maxOrder, err := s.projectRepo.MaxOrder(ctx, ownerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get max project order", "user_id", ownerID, "error", err)
		return nil, err
	}

	now := time.Now().UTC()
	project := &models.Project{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Slug:      slug.Make(name),
		Color:     req.Color,
		Order:     maxOrder + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		logger.ErrorContext(ctx, "Failed to create project", "user_id", ownerID, "error", err)
		return nil, err
	}

	s.emit(ctx, ownerID, models.ActionProjectCreated, models.EntityProject, project.ID, now)
	logger.InfoContext(ctx, "Project created", "project_id", project.ID, "slug", project.Slug)
	return project, nil
}

func (s *ProjectServiceImpl) GetProject(ctx context.Context, ownerID, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, ownerID, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}
	return project, nil
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list projects", "user_id", ownerID, "error", err)
		return nil, err
	}
	return projects, nil
}

func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, ownerID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, ownerID, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, services.NewValidationError("name", "name cannot be empty")
		}
		if project.IsInbox && name != project.Name {
			return nil, fmt.Errorf("%w: the inbox cannot be renamed", services.ErrForbidden)
		}
		project.Name = name
		project.Slug = slug.Make(name)
	}
	if req.Color != nil {
		project.Color = *req.Color
	}
	if req.Order != nil {
		project.Order = *req.Order
	}

	now := time.Now().UTC()
	project.UpdatedAt = now

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, services.NotFoundError("project")
		}
		logger.ErrorContext(ctx, "Failed to update project", "project_id", projectID, "error", err)
		return nil, err
	}

	s.emit(ctx, ownerID, models.ActionProjectUpdated, models.EntityProject, project.ID, now)
	return project, nil
}

// DeleteProject leaves the project's tasks in place.
func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, ownerID, projectID uuid.UUID) error {
	project, err := s.projectRepo.GetByID(ctx, ownerID, projectID)
	if err != nil {
		return notFoundOr(err, "project")
	}
	if project.IsInbox {
		return fmt.Errorf("%w: the inbox cannot be deleted", services.ErrForbidden)
	}

	if err := s.projectRepo.Delete(ctx, ownerID, projectID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return services.NotFoundError("project")
		}
		logger.ErrorContext(ctx, "Failed to delete project", "project_id", projectID, "error", err)
		return err
	}

	s.emit(ctx, ownerID, models.ActionProjectDeleted, models.EntityProject, projectID, time.Now().UTC())
	logger.InfoContext(ctx, "Project deleted", "project_id", projectID)
	return nil
}

// EnsureInbox returns the owner's inbox, creating it on first use.
func (s *ProjectServiceImpl) EnsureInbox(ctx context.Context, ownerID uuid.UUID) (*models.Project, error) {
	inbox, err := s.projectRepo.GetInbox(ctx, ownerID)
	if err == nil {
		return inbox, nil
	}
	if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	inbox = &models.Project{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      models.InboxProjectName,
		Slug:      slug.Make(models.InboxProjectName),
		IsInbox:   true,
		Order:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projectRepo.Create(ctx, inbox); err != nil {
		logger.ErrorContext(ctx, "Failed to create inbox", "user_id", ownerID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Inbox created", "user_id", ownerID, "project_id", inbox.ID)
	return inbox, nil
}
