package memory

import (
	"context"
	"sync"
	"taskhub/domain/models"
	"taskhub/domain/repositories"

	"github.com/google/uuid"
)

// TaskRepository keeps tasks in a map. Tasks are cloned on the way in and
// out so callers never share memory with the store.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*models.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[uuid.UUID]*models.Task),
	}
}

var _ repositories.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := task.Clone()
	stored.SubtaskCount = nil
	r.tasks[task.ID] = stored
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, repositories.ErrRecordNotFound
	}
	return t.Clone(), nil
}

func (r *TaskRepository) Find(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, t := range r.tasks {
		if filter.Matches(t) {
			tasks = append(tasks, t.Clone())
		}
	}
	repositories.SortTasks(tasks)
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return repositories.ErrRecordNotFound
	}
	stored := task.Clone()
	stored.SubtaskCount = nil
	r.tasks[task.ID] = stored
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return repositories.ErrRecordNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) CountSubtasks(ctx context.Context, ownerID uuid.UUID, parentIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	wanted := make(map[uuid.UUID]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uuid.UUID]int, len(parentIDs))
	for _, t := range r.tasks {
		if t.OwnerID != ownerID || t.ParentID == nil {
			continue
		}
		if _, ok := wanted[*t.ParentID]; ok {
			counts[*t.ParentID]++
		}
	}
	return counts, nil
}

func (r *TaskRepository) CompletionCounts(ctx context.Context, ownerID, parentID uuid.UUID) (int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total, completed int
	for _, t := range r.tasks {
		if t.OwnerID != ownerID || t.ParentID == nil || *t.ParentID != parentID {
			continue
		}
		total++
		if t.IsCompleted {
			completed++
		}
	}
	return total, completed, nil
}
