package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Task struct {
	ID          uuid.UUID      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Content     string         `gorm:"size:500;not null"`
	Description string         `gorm:"type:text"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_owner_project"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_owner_project"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;index"`
	Priority    Priority       `gorm:"not null;default:0"`
	DueDate     *time.Time     `gorm:"index"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	IsCompleted bool           `gorm:"not null;default:false"`
	Order       int            `gorm:"column:sort_order;not null;default:0"` // "order" is reserved in SQL
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Derived at read time, never persisted.
	SubtaskCount *int `gorm:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// IsSubtask reports whether the task hangs under a parent.
func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Tags != nil {
		c.Tags = append(pq.StringArray(nil), t.Tags...)
	}
	if t.SubtaskCount != nil {
		n := *t.SubtaskCount
		c.SubtaskCount = &n
	}
	return &c
}

// CompletionStats is the derived completion summary of a parent's direct subtasks.
type CompletionStats struct {
	Total      int
	Completed  int
	Percentage int
}

// NewCompletionStats computes round(100*completed/total), 0 when total is 0.
func NewCompletionStats(total, completed int) CompletionStats {
	stats := CompletionStats{Total: total, Completed: completed}
	if total > 0 {
		stats.Percentage = int((200*completed + total) / (2 * total))
	}
	return stats
}
