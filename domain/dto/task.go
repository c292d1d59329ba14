package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Content     string         `json:"content" validate:"required,max=500"`
	Description string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	ProjectID   string         `json:"projectId" validate:"required,uuid"`
	ParentID    *string        `json:"parentId,omitempty" validate:"omitempty,uuid"`
	Priority    *PriorityInput `json:"priority,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Tags        []string       `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Order       int            `json:"order"`
}

// UpdateTaskRequest is a partial update: nil / unset fields are left alone.
type UpdateTaskRequest struct {
	Content     *string          `json:"content,omitempty" validate:"omitempty,max=500"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Priority    OptionalPriority `json:"priority,omitzero"`
	DueDate     OptionalTime     `json:"dueDate,omitzero"`
	Tags        *[]string        `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Order       *int             `json:"order,omitempty"`
	IsCompleted *bool            `json:"isCompleted,omitempty"`
}

func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Content == nil &&
		r.Description == nil &&
		!r.Priority.Set &&
		!r.DueDate.Set &&
		r.Tags == nil &&
		r.Order == nil &&
		r.IsCompleted == nil
}

type TaskFilterRequest struct {
	ProjectID string `query:"projectId" validate:"omitempty,uuid"`
	ParentID  string `query:"parentId"`
	DueDate   string `query:"dueDate" validate:"omitempty,oneof=all today tomorrow this_week overdue"`
	Priority  string `query:"priority" validate:"omitempty,oneof=all none low medium high urgent"`
}

type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	Content      string     `json:"content"`
	Description  string     `json:"description,omitempty"`
	ProjectID    uuid.UUID  `json:"projectId"`
	ParentID     *uuid.UUID `json:"parentId,omitempty"`
	Priority     *int       `json:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Tags         []string   `json:"tags"`
	IsCompleted  bool       `json:"isCompleted"`
	Order        int        `json:"order"`
	SubtaskCount *int       `json:"subtaskCount,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CompletionResponse struct {
	ParentID   uuid.UUID `json:"parentId"`
	Total      int       `json:"total"`
	Completed  int       `json:"completed"`
	Percentage int       `json:"percentage"`
}

type ExportResponse struct {
	URL      string `json:"url"`
	Count    int    `json:"count"`
	Provider string `json:"provider"`
}
