package repositories

import (
	"sort"
	"strings"
	"taskhub/domain/models"
	"time"

	"github.com/google/uuid"
)

// TaskFilter is the driver-neutral query every TaskRepository understands.
// Zero values and nil pointers mean "no constraint", except OwnerID which is
// always applied.
type TaskFilter struct {
	OwnerID   uuid.UUID
	ProjectID *uuid.UUID

	// ParentID selects children of one parent; TopLevelOnly selects tasks
	// without a parent. ParentID wins when both are set.
	ParentID     *uuid.UUID
	TopLevelOnly bool

	// Due window, DueFrom inclusive and DueBefore exclusive.
	DueFrom   *time.Time
	DueBefore *time.Time

	// IncompleteOnly drops completed tasks (used by the overdue window).
	IncompleteOnly bool

	Priority   *models.Priority
	NoPriority bool

	// Search is a case-insensitive substring over content and tags.
	Search string
}

// Matches evaluates the filter in process. The memory repository uses it
// directly; SQL and document drivers translate the same fields.
func (f TaskFilter) Matches(t *models.Task) bool {
	if t.OwnerID != f.OwnerID {
		return false
	}
	if f.ProjectID != nil && t.ProjectID != *f.ProjectID {
		return false
	}
	switch {
	case f.ParentID != nil:
		if t.ParentID == nil || *t.ParentID != *f.ParentID {
			return false
		}
	case f.TopLevelOnly:
		if t.ParentID != nil {
			return false
		}
	}
	if f.DueFrom != nil || f.DueBefore != nil {
		if t.DueDate == nil {
			return false
		}
		if f.DueFrom != nil && t.DueDate.Before(*f.DueFrom) {
			return false
		}
		if f.DueBefore != nil && !t.DueDate.Before(*f.DueBefore) {
			return false
		}
	}
	if f.IncompleteOnly && t.IsCompleted {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.NoPriority && t.Priority.Valid() {
		return false
	}
	if f.Search != "" && !matchesSearch(t, f.Search) {
		return false
	}
	return true
}

func matchesSearch(t *models.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Content), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SortTasks orders by Order ascending, then most recently created first.
func SortTasks(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
