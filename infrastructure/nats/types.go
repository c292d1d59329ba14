package nats

import "time"

const (
	// ActivityStreamName retains activity events so late consumers can replay them.
	ActivityStreamName = "TASKHUB_ACTIVITY"

	// SubjectActivity is the subject prefix; events go to activity.{user_id}.
	SubjectActivity = "activity"

	activityStreamMaxAge = 7 * 24 * time.Hour
)

// ActivityMessage is the on-wire event shape.
type ActivityMessage struct {
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	OccurredAt int64  `json:"occurred_at"` // unix millis
}
