package models

import (
	"time"

	"gorm.io/datatypes"
)

// Problem is the canonical record for one externally-hosted problem. It is a
// shared catalog entity: created lazily by the first sync that encounters it
// and reused by every user afterwards. (platform, platform_id) is globally
// unique and the storage layer is the arbiter under concurrent creation.
type Problem struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Platform       Platform       `gorm:"size:32;not null;uniqueIndex:idx_problems_platform_external" json:"platform"`
	PlatformID     string         `gorm:"size:128;not null;uniqueIndex:idx_problems_platform_external" json:"platform_id"`
	Title          string         `gorm:"size:512" json:"title"`
	URL            string         `gorm:"size:512" json:"url"`
	Difficulty     Difficulty     `gorm:"size:16;not null" json:"difficulty"`
	Topics         datatypes.JSON `json:"topics"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	AcceptanceRate *float64       `json:"acceptance_rate,omitempty"`
	TimeLimitMs    *int           `json:"time_limit_ms,omitempty"`
	MemoryLimitKB  *int           `json:"memory_limit_kb,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ProblemNote is one user's free-text annotation on a shared problem.
// Notes live outside the Problem record so the catalog entity stays
// user-agnostic.
type ProblemNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_notes_user_problem" json:"user_id"`
	ProblemID uint      `gorm:"not null;uniqueIndex:idx_notes_user_problem" json:"problem_id"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
