package dto

import (
	"time"

	"github.com/google/uuid"
)

type ActivityResponse struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
	CreatedAt  time.Time `json:"createdAt"`
}
