package models

import "time"

// Notification kinds.
const (
	NotificationKindLike    = "LIKE"
	NotificationKindComment = "COMMENT"
	NotificationKindFollow  = "FOLLOW"
	NotificationKindNewPost = "NEW_POST"
)

// Notification is a persisted notification record. Fan-out materializes the
// recipient set at write time: a recipient who unfollows afterward keeps
// already-delivered notifications. ActorID and RelatedPostID are zero when
// not applicable. Only the read flag mutates after creation.
type Notification struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Kind          string    `json:"kind" gorm:"size:20;index"`
	ActorID       uint      `json:"actor_id" gorm:"index"`
	RecipientID   uint      `json:"recipient_id" gorm:"index"`
	RelatedPostID uint      `json:"related_post_id" gorm:"index"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}
