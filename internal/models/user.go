// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// FallbackAvatarURL is used when a profile has no avatar of its own.
const FallbackAvatarURL = "https://github.com/shadcn.png"

// User represents a registered profile in the StitchHub application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	AvatarURL string         `json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Designs   []Design       `gorm:"foreignKey:UserID" json:"designs,omitempty"`
}

// Avatar returns the user's avatar URL or the fallback when none is set.
func (u *User) Avatar() string {
	if u.AvatarURL == "" {
		return FallbackAvatarURL
	}
	return u.AvatarURL
}
