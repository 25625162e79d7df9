package models

import (
	"time"

	"gorm.io/gorm"
)

// ReactionKind is the fixed set of sentiment markers a user can attach to a jot.
type ReactionKind string

const (
	ReactionLike       ReactionKind = "like"
	ReactionLove       ReactionKind = "love"
	ReactionInsightful ReactionKind = "insightful"
	ReactionCelebrate  ReactionKind = "celebrate"
)

// ValidReactionKind reports whether k is one of the supported reaction kinds.
func ValidReactionKind(k ReactionKind) bool {
	switch k {
	case ReactionLike, ReactionLove, ReactionInsightful, ReactionCelebrate:
		return true
	}
	return false
}

// Jot represents a short social post, optionally with one media attachment.
// ReactionsCount and CommentsCount are denormalized caches of JotReaction
// and JotComment rows, maintained transactionally with the child rows.
type Jot struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	MediaURL       string         `json:"media_url,omitempty"`
	MediaPublicID  string         `json:"-"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID" json:"user"`
	ReactionsCount int            `gorm:"not null;default:0" json:"reactions_count"`
	CommentsCount  int            `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// ReactedWith is the requesting user's reaction kind, if any (computed)
	ReactedWith ReactionKind `gorm:"-" json:"reacted_with,omitempty"`
}

// JotReaction records one user's reaction on one jot. The (JotID, UserID)
// pair is unique; a second reaction by the same user toggles the first off.
type JotReaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	JotID     uint         `gorm:"not null;uniqueIndex:idx_jot_user" json:"jot_id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_jot_user" json:"user_id"`
	Kind      ReactionKind `gorm:"type:varchar(20);not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Jot  Jot  `gorm:"foreignKey:JotID" json:"-"`
}

// JotComment represents a comment on a jot.
type JotComment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	JotID     uint           `gorm:"not null;index" json:"jot_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Jot       Jot            `gorm:"foreignKey:JotID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
