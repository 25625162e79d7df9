package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxEntryTags caps the number of tags attachable to a single diary entry.
const MaxEntryTags = 5

// Diary is a named collection of long-form entries. IsPublic gates read
// visibility for non-owners; writes are always owner-only.
type Diary struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	IsPublic    bool           `gorm:"not null;default:false" json:"is_public"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// DiaryUpdate enumerates the patchable diary fields. Nil means "leave unchanged".
type DiaryUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// DiaryEntry is a long-form entry in a diary. UserID is stored redundantly
// with the parent diary's owner so ownership checks don't need a join.
type DiaryEntry struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Body          string         `gorm:"type:text;not null" json:"body"`
	Mood          string         `json:"mood"`
	CoverURL      string         `json:"cover_url,omitempty"`
	CoverPublicID string         `json:"-"`
	DiaryID       uint           `gorm:"not null;index" json:"diary_id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Diary         Diary          `gorm:"foreignKey:DiaryID" json:"-"`
	User          User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags          []Tag          `gorm:"many2many:diary_entry_tags;joinForeignKey:EntryID;joinReferences:TagID" json:"tags"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// DiaryEntryUpdate enumerates the patchable entry fields. A nil Tags slice
// leaves tag associations alone; a non-nil slice replaces them wholesale.
type DiaryEntryUpdate struct {
	Title *string   `json:"title"`
	Body  *string   `json:"body"`
	Mood  *string   `json:"mood"`
	Tags  *[]string `json:"tags"`
}

// Tag is scoped per user: the same name may exist independently for
// different users. Names are stored lower-cased.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tag_name_user" json:"name"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tag_name_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DiaryEntryTag is the join row between entries and tags, unique per pair.
type DiaryEntryTag struct {
	EntryID uint `gorm:"primaryKey" json:"entry_id"`
	TagID   uint `gorm:"primaryKey" json:"tag_id"`
}
