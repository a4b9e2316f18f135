package models

import "time"

// PlatformAccount links a user to their handle on one external platform.
// A user holds at most one account per platform.
type PlatformAccount struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_accounts_user_platform" json:"user_id"`
	Platform     Platform     `gorm:"size:32;not null;uniqueIndex:idx_accounts_user_platform" json:"platform"`
	Handle       string       `gorm:"size:128;not null" json:"handle"`
	AccessToken  string       `gorm:"size:512" json:"-"`
	RefreshToken string       `gorm:"size:512" json:"-"`
	LastSynced   *time.Time   `json:"last_synced"`
	Stats        AccountStats `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// AccountStats carries the aggregate counters recomputed after every sync.
// The counters describe the delta of the most recent sync run, not lifetime
// totals; lifetime aggregates come from the dashboard service.
type AccountStats struct {
	ProblemsSolved   int     `json:"problems_solved"`
	TotalSubmissions int     `json:"total_submissions"`
	SuccessRate      float64 `json:"success_rate"`
}
