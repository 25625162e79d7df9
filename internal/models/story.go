package models

import (
	"time"

	"gorm.io/gorm"
)

// StoryLifetime is the fixed visibility window applied at creation.
const StoryLifetime = 24 * time.Hour

// Story represents an ephemeral media post. Expiry is computed at read time
// against ExpiresAt; expired rows stay in the table until deleted.
// ViewsCount mirrors distinct StoryView rows.
type Story struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Caption       string         `json:"caption"`
	MediaURL      string         `gorm:"not null" json:"media_url"`
	MediaPublicID string         `json:"-"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	ViewsCount    int            `gorm:"not null;default:0" json:"views_count"`
	ExpiresAt     time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Active is computed at read time, not persisted.
	Active bool `gorm:"-" json:"active"`
}

// Expired reports whether the story's visibility window has passed at t.
func (s *Story) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// StoryView records that a viewer has seen a story. The (StoryID, ViewerID)
// pair is unique so repeat views never recount.
type StoryView struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	StoryID  uint      `gorm:"not null;uniqueIndex:idx_story_viewer" json:"story_id"`
	ViewerID uint      `gorm:"not null;uniqueIndex:idx_story_viewer" json:"viewer_id"`
	ViewedAt time.Time `gorm:"autoCreateTime" json:"viewed_at"`

	Viewer User  `gorm:"foreignKey:ViewerID" json:"viewer,omitempty"`
	Story  Story `gorm:"foreignKey:StoryID" json:"-"`
}
