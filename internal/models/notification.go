package models

import "time"

type NotificationAction string

const (
	ActionLike    NotificationAction = "like"
	ActionComment NotificationAction = "comment"
	ActionFollow  NotificationAction = "follow"
)

func (a NotificationAction) Valid() bool {
	switch a {
	case ActionLike, ActionComment, ActionFollow:
		return true
	}
	return false
}

type Notification struct {
	NotificationID int64              `json:"notificationId" db:"notification_id"`
	RecipientID    int64              `json:"recipientId" db:"recipient_id"`
	ActorID        int64              `json:"actorId" db:"actor_id"`
	PostID         *int64             `json:"postId,omitempty" db:"post_id"`
	Action         NotificationAction `json:"action" db:"action"`
	Timestamp      time.Time          `json:"timestamp" db:"created_at"`
	Read           bool               `json:"read" db:"is_read"`

	// filled by joins, used for rendering only
	ActorUsername string  `json:"actorUsername" db:"actor_username"`
	PostTitle     *string `json:"postTitle,omitempty" db:"post_title"`
}

// NotificationView is a notification ready for display.
type NotificationView struct {
	Notification
	Message string `json:"message"`
	Link    string `json:"link"`
}
