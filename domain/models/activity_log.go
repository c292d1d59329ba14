package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions recorded after a successful mutation.
const (
	ActionTaskCreated     = "task.created"
	ActionTaskUpdated     = "task.updated"
	ActionTaskDeleted     = "task.deleted"
	ActionTaskCompleted   = "task.completed"
	ActionTaskUncompleted = "task.uncompleted"

	ActionProjectCreated = "project.created"
	ActionProjectUpdated = "project.updated"
	ActionProjectDeleted = "project.deleted"
)

const (
	EntityTask    = "task"
	EntityProject = "project"
)

type ActivityLog struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_activity_user_created"`
	Action     string    `gorm:"size:50;not null"`
	EntityType string    `gorm:"size:20;not null"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"index:idx_activity_user_created"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
