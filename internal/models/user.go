// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in the Jotter application.
// Email is stored lower-cased so uniqueness is case-insensitive.
// FollowersCount and FollowingCount are denormalized caches of Follow rows
// and are only ever mutated through relative updates inside the same
// transaction that touches the Follow table.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"unique;not null" json:"username"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	Bio            string         `json:"bio"`
	Avatar         string         `json:"avatar"`
	AvatarPublicID string         `json:"-"`
	IsAdmin        bool           `gorm:"default:false" json:"-"`
	FollowersCount int            `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int            `gorm:"not null;default:0" json:"following_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// IsFollowing indicates whether the requesting user follows this user (computed)
	IsFollowing bool `gorm:"-" json:"is_following,omitempty"`
}

// UserUpdate enumerates the patchable profile fields. Nil means "leave unchanged".
type UserUpdate struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}
