package models

import "time"

// NotificationType identifies the event that produced a notification.
type NotificationType string

const (
	NotificationNewFollower NotificationType = "new_follower"
	NotificationJotReaction NotificationType = "jot_reaction"
	NotificationJotComment  NotificationType = "jot_comment"
)

// CommentPreviewLen is the truncation point for comment bodies embedded in
// notification messages.
const CommentPreviewLen = 50

// Notification is created as a side effect of follow/reaction/comment
// events, never directly by the acting user. SenderID is nil for system
// notifications.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Type        NotificationType `gorm:"type:varchar(30);not null;index" json:"type"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	SenderID    *uint            `gorm:"index" json:"sender_id,omitempty"`
	Link        string           `json:"link"`
	Message     string           `json:"message"`
	IsRead      bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// CommentPreview truncates a comment body for inclusion in a notification.
func CommentPreview(body string) string {
	runes := []rune(body)
	if len(runes) <= CommentPreviewLen {
		return body
	}
	return string(runes[:CommentPreviewLen]) + "..."
}

// FCMToken is a registered push-delivery device token. Delivery itself is an
// external collaborator; this table is only the registry.
type FCMToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	Platform  string    `gorm:"type:varchar(20)" json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
