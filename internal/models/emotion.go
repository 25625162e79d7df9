package models

import "time"

// Emotion is a row in the global emotion catalog, identified by slug.
// An emotion cannot be deleted while any EmotionTracker references it.
type Emotion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"unique;not null" json:"slug"`
	Name      string    `gorm:"not null" json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// EmotionTracker records the emotion a user tracked for one calendar day.
// Date holds the day truncated to midnight UTC; the (UserID, Date) pair is
// unique and same-day re-tracking updates the existing row.
type EmotionTracker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tracker_user_date" json:"user_id"`
	EmotionID uint      `gorm:"not null;index" json:"emotion_id"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_tracker_user_date" json:"date"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Emotion Emotion `gorm:"foreignKey:EmotionID" json:"emotion"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

// TrackerDay normalizes a timestamp to its calendar day in UTC.
func TrackerDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
