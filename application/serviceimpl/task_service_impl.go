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
)

const defaultCompletionCacheTTL = 10 * time.Minute

type TaskServiceImpl struct {
	activityEmitter
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
	cache       ports.CachePort
	cacheTTL    time.Duration
	now         func() time.Time
}

type TaskServiceOption func(*TaskServiceImpl)

// WithClock replaces time.Now, used by the due-date windows and timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskServiceImpl) {
		s.now = now
	}
}

// WithCompletionCache caches completion stats per parent. Entries are
// dropped whenever one of the parent's subtasks changes.
func WithCompletionCache(cache ports.CachePort, ttl time.Duration) TaskServiceOption {
	return func(s *TaskServiceImpl) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	observer ports.ActivityObserver,
	opts ...TaskServiceOption,
) services.TaskService {
	s := &TaskServiceImpl{
		activityEmitter: activityEmitter{observer: observer},
		taskRepo:        taskRepo,
		projectRepo:     projectRepo,
		cacheTTL:        defaultCompletionCacheTTL,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, ownerID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, services.NewValidationError("content", "content is required")
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		return nil, services.NewValidationError("projectId", "projectId is required")
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, services.NewValidationError("projectId", "projectId must be a valid UUID")
	}

	if _, err := s.projectRepo.GetByID(ctx, ownerID, projectID); err != nil {
		return nil, notFoundOr(err, "project")
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, services.NewValidationError("parentId", "parentId must be a valid UUID")
		}
		if _, err := s.taskRepo.GetByID(ctx, ownerID, id); err != nil {
			return nil, notFoundOr(err, "parent task")
		}
		parentID = &id
	}

	priority := models.PriorityNone
	if req.Priority != nil {
		priority = req.Priority.Value()
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.New(),
		Content:     content,
		Description: req.Description,
		OwnerID:     ownerID,
		ProjectID:   projectID,
		ParentID:    parentID,
		Priority:    priority,
		DueDate:     utcPtr(req.DueDate),
		Tags:        append([]string{}, req.Tags...),
		Order:       req.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "user_id", ownerID, "error", err)
		return nil, err
	}

	s.invalidateCompletion(ctx, ownerID, task.ParentID)
	s.emit(ctx, ownerID, models.ActionTaskCreated, models.EntityTask, task.ID, now)

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "project_id", projectID)
	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFoundOr(err, "task")
	}
	return task, nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, ownerID uuid.UUID, req *dto.TaskFilterRequest) ([]*models.Task, error) {
	if req == nil {
		req = &dto.TaskFilterRequest{}
	}

	filter := repositories.TaskFilter{OwnerID: ownerID}

	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return nil, services.NewValidationError("projectId", "projectId must be a valid UUID")
		}
		filter.ProjectID = &projectID
	}

	switch req.ParentID {
	case "", "null":
		filter.TopLevelOnly = true
	default:
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, services.NewValidationError("parentId", "parentId must be a valid UUID or \"null\"")
		}
		filter.ParentID = &parentID
	}

	if err := applyPriorityFilter(&filter, req.Priority); err != nil {
		return nil, err
	}
	if err := applyDueFilter(&filter, req.DueDate, s.now()); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.Find(ctx, filter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "user_id", ownerID, "error", err)
		return nil, err
	}

	if filter.TopLevelOnly && len(tasks) > 0 {
		if err := s.attachSubtaskCounts(ctx, ownerID, tasks); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetSubtasks(ctx context.Context, ownerID, parentID uuid.UUID) ([]*models.Task, error) {
	tasks, err := s.taskRepo.Find(ctx, repositories.TaskFilter{
		OwnerID:  ownerID,
		ParentID: &parentID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list subtasks", "parent_id", parentID, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetCompletion(ctx context.Context, ownerID, parentID uuid.UUID) (*models.Task, models.CompletionStats, error) {
	parent, err := s.taskRepo.GetByID(ctx, ownerID, parentID)
	if err != nil {
		return nil, models.CompletionStats{}, notFoundOr(err, "task")
	}

	key := completionCacheKey(ownerID, parentID)
	if s.cache != nil {
		var cached models.CompletionStats
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return parent, cached, nil
		} else if !errors.Is(err, ports.ErrCacheMiss) {
			logger.WarnContext(ctx, "Completion cache read failed", "key", key, "error", err)
		}
	}

	total, completed, err := s.taskRepo.CompletionCounts(ctx, ownerID, parentID)
	if err != nil {
		return nil, models.CompletionStats{}, err
	}
	stats := models.NewCompletionStats(total, completed)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, stats, s.cacheTTL); err != nil {
			logger.WarnContext(ctx, "Completion cache write failed", "key", key, "error", err)
		}
	}
	return parent, stats, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFoundOr(err, "task")
	}
	if req.IsEmpty() {
		return task, nil
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, services.NewValidationError("content", "content cannot be empty")
		}
		task.Content = content
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority.Set {
		task.Priority = req.Priority.Value
	}
	if req.DueDate.Set {
		task.DueDate = utcPtr(req.DueDate.Time)
	}
	if req.Tags != nil {
		task.Tags = append([]string{}, (*req.Tags)...)
	}
	if req.Order != nil {
		task.Order = *req.Order
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	now := s.now().UTC()
	task.UpdatedAt = now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, services.NotFoundError("task")
		}
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, err
	}

	s.invalidateCompletion(ctx, ownerID, task.ParentID)
	s.emit(ctx, ownerID, models.ActionTaskUpdated, models.EntityTask, task.ID, now)

	logger.InfoContext(ctx, "Task updated", "task_id", taskID)
	return task, nil
}

// DeleteTask removes only the task itself; its subtasks stay behind as orphans.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return notFoundOr(err, "task")
	}

	if err := s.taskRepo.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return services.NotFoundError("task")
		}
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return err
	}

	s.invalidateCompletion(ctx, ownerID, task.ParentID)
	s.invalidateCompletion(ctx, ownerID, &task.ID)
	s.emit(ctx, ownerID, models.ActionTaskDeleted, models.EntityTask, taskID, s.now().UTC())

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID)
	return nil
}

func (s *TaskServiceImpl) CompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	return s.setCompletion(ctx, ownerID, taskID, true)
}

func (s *TaskServiceImpl) UncompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	return s.setCompletion(ctx, ownerID, taskID, false)
}

// setCompletion is a no-op success when the task is already in the target state.
func (s *TaskServiceImpl) setCompletion(ctx context.Context, ownerID, taskID uuid.UUID, completed bool) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFoundOr(err, "task")
	}
	if task.IsCompleted == completed {
		return task, nil
	}

	now := s.now().UTC()
	task.IsCompleted = completed
	task.UpdatedAt = now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, services.NotFoundError("task")
		}
		logger.ErrorContext(ctx, "Failed to set task completion", "task_id", taskID, "completed", completed, "error", err)
		return nil, err
	}

	action := models.ActionTaskUncompleted
	if completed {
		action = models.ActionTaskCompleted
	}
	s.invalidateCompletion(ctx, ownerID, task.ParentID)
	s.emit(ctx, ownerID, action, models.EntityTask, task.ID, now)

	return task, nil
}

// SearchTasks matches content or any tag. A blank query yields no results.
func (s *TaskServiceImpl) SearchTasks(ctx context.Context, ownerID uuid.UUID, query string) ([]*models.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Task{}, nil
	}

	tasks, err := s.taskRepo.Find(ctx, repositories.TaskFilter{
		OwnerID: ownerID,
		Search:  query,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to search tasks", "user_id", ownerID, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) attachSubtaskCounts(ctx context.Context, ownerID uuid.UUID, tasks []*models.Task) error {
	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	counts, err := s.taskRepo.CountSubtasks(ctx, ownerID, ids)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count subtasks", "user_id", ownerID, "error", err)
		return err
	}
	for _, t := range tasks {
		n := counts[t.ID]
		t.SubtaskCount = &n
	}
	return nil
}

func (s *TaskServiceImpl) invalidateCompletion(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) {
	if s.cache == nil || parentID == nil {
		return
	}
	key := completionCacheKey(ownerID, *parentID)
	if err := s.cache.Del(ctx, key); err != nil {
		logger.WarnContext(ctx, "Completion cache invalidation failed", "key", key, "error", err)
	}
}

func completionCacheKey(ownerID, parentID uuid.UUID) string {
	return fmt.Sprintf("taskhub:completion:%s:%s", ownerID, parentID)
}

// ═══════════════════════════════════════════════════════════════════════════════
// Filters
// ═══════════════════════════════════════════════════════════════════════════════

func applyPriorityFilter(filter *repositories.TaskFilter, value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return nil
	case "none":
		filter.NoPriority = true
		return nil
	}
	p := models.ParsePriority(value)
	if !p.Valid() {
		return services.NewValidationError("priority", "priority must be one of all, none, low, medium, high, urgent")
	}
	filter.Priority = &p
	return nil
}

// applyDueFilter translates a named window into UTC bounds. Upper bounds
// are exclusive.
func applyDueFilter(filter *repositories.TaskFilter, window string, now time.Time) error {
	now = now.UTC()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	between := func(from, before time.Time) {
		filter.DueFrom = &from
		filter.DueBefore = &before
	}

	switch strings.ToLower(strings.TrimSpace(window)) {
	case "", "all":
	case "today":
		between(startOfToday, startOfToday.Add(day))
	case "tomorrow":
		between(startOfToday.Add(day), startOfToday.Add(2*day))
	case "this_week":
		startOfWeek := startOfToday.AddDate(0, 0, -int(startOfToday.Weekday()))
		between(startOfWeek, startOfWeek.AddDate(0, 0, 7))
	case "overdue":
		filter.DueBefore = &startOfToday
		filter.IncompleteOnly = true
	default:
		return services.NewValidationError("dueDate", "dueDate must be one of all, today, tomorrow, this_week, overdue")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
