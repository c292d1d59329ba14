package syncclient

import (
	"slices"
	"strings"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"time"
)

// TempIDPrefix marks ids minted locally for tasks the server has not
// confirmed yet. Server ids are UUIDs and never carry it.
const TempIDPrefix = "local-"

// Task is the client's view of a task. Ids are strings so provisional
// entries can live in the same list as confirmed ones.
type Task struct {
	ID           string
	Content      string
	Description  string
	ProjectID    string
	ParentID     string // empty for top-level tasks
	Priority     models.Priority
	DueDate      *time.Time
	Tags         []string
	IsCompleted  bool
	Order        int
	SubtaskCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTemp reports whether the task is still waiting for its create to land.
func (t Task) IsTemp() bool {
	return strings.HasPrefix(t.ID, TempIDPrefix)
}

func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Tags != nil {
		c.Tags = slices.Clone(t.Tags)
	}
	return c
}

// Equal reports whether two entries carry the same values.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Content == o.Content &&
		t.Description == o.Description &&
		t.ProjectID == o.ProjectID &&
		t.ParentID == o.ParentID &&
		t.Priority == o.Priority &&
		sameTime(t.DueDate, o.DueDate) &&
		slices.Equal(t.Tags, o.Tags) &&
		t.IsCompleted == o.IsCompleted &&
		t.Order == o.Order &&
		t.SubtaskCount == o.SubtaskCount &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}

// Draft holds the user-supplied fields of a task about to be created.
type Draft struct {
	Content     string
	Description string
	ProjectID   string
	ParentID    string
	Priority    models.Priority
	DueDate     *time.Time
	Tags        []string
	Order       int
}

func (d Draft) request() *dto.CreateTaskRequest {
	req := &dto.CreateTaskRequest{
		Content:     d.Content,
		Description: d.Description,
		ProjectID:   d.ProjectID,
		DueDate:     d.DueDate,
		Tags:        slices.Clone(d.Tags),
		Order:       d.Order,
	}
	if d.ParentID != "" {
		parent := d.ParentID
		req.ParentID = &parent
	}
	if d.Priority.Valid() {
		req.Priority = dto.NewPriorityInput(d.Priority)
	}
	return req
}

// FromResponse converts the wire form into a client Task.
func FromResponse(r *dto.TaskResponse) Task {
	t := Task{
		ID:          r.ID.String(),
		Content:     r.Content,
		Description: r.Description,
		ProjectID:   r.ProjectID.String(),
		DueDate:     r.DueDate,
		Tags:        slices.Clone(r.Tags),
		IsCompleted: r.IsCompleted,
		Order:       r.Order,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ParentID != nil {
		t.ParentID = r.ParentID.String()
	}
	if r.Priority != nil {
		t.Priority = models.PriorityFromInt(*r.Priority)
	}
	if r.SubtaskCount != nil {
		t.SubtaskCount = *r.SubtaskCount
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}
