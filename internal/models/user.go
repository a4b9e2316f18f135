package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents a tracker account holder.
type User struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	Username         string            `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email            string            `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash     string            `gorm:"size:255;not null" json:"-"`
	Name             string            `gorm:"size:255" json:"name"`
	ProfilePicture   string            `gorm:"size:512" json:"profile_picture"`
	ContactInfo      datatypes.JSON    `json:"contact_info"`
	Preferences      Preferences       `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	Points           int               `gorm:"default:0" json:"points"`
	Role             string            `gorm:"size:32;default:user" json:"role"`
	PlatformAccounts []PlatformAccount `gorm:"constraint:OnDelete:CASCADE" json:"platform_accounts,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Preferences holds per-user practice preferences.
type Preferences struct {
	ReminderFrequency   string         `gorm:"size:32" json:"reminder_frequency"`
	PreferredDifficulty string         `gorm:"size:16" json:"preferred_difficulty"`
	PreferredTopics     datatypes.JSON `json:"preferred_topics"`
	DarkMode            bool           `json:"dark_mode"`
}

const (
	// RoleUser is the default role assigned at registration.
	RoleUser = "user"
	// RoleAdmin can act on resources owned by other users.
	RoleAdmin = "admin"
)
