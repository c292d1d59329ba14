package models

import (
	"time"

	"github.com/google/uuid"
)

// InboxProjectName is the name given to every user's default project.
const InboxProjectName = "Inbox"

type Project struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:100;not null"`
	Slug      string    `gorm:"size:120;not null"`
	Color     string    `gorm:"size:20"`
	IsInbox   bool      `gorm:"not null;default:false"`
	Order     int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Project) TableName() string {
	return "projects"
}
