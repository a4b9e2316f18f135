package models

import (
	"time"

	"gorm.io/datatypes"
)

// RetentionCap is the maximum number of submissions retained per user.
// Inserting beyond the cap evicts the oldest submissions by SubmittedAt.
const RetentionCap = 100

// Submission is one user's attempt at one problem, either imported by a sync
// run or created directly. Identity fields are never updated after creation;
// only annotation fields (notes, complexity, AI analysis) may change.
type Submission struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	UserID               uint             `gorm:"not null;index:idx_submissions_user_problem" json:"user_id"`
	ProblemID            uint             `gorm:"not null;index:idx_submissions_user_problem" json:"problem_id"`
	Platform             Platform         `gorm:"size:32;not null;index:idx_submissions_platform_external" json:"platform"`
	PlatformSubmissionID string           `gorm:"size:128;index:idx_submissions_platform_external" json:"platform_submission_id,omitempty"`
	Status               SubmissionStatus `gorm:"size:32;not null" json:"status"`
	Language             string           `gorm:"size:64;not null" json:"language"`
	Code                 string           `gorm:"type:text" json:"code,omitempty"`
	TimeTakenSec         *float64         `json:"time_taken_sec,omitempty"`
	MemoryUsedKB         *float64         `json:"memory_used_kb,omitempty"`
	RuntimePercentile    *float64         `json:"runtime_percentile,omitempty"`
	MemoryPercentile     *float64         `json:"memory_percentile,omitempty"`
	TimeComplexity       string           `gorm:"size:64" json:"time_complexity,omitempty"`
	SpaceComplexity      string           `gorm:"size:64" json:"space_complexity,omitempty"`
	Notes                string           `gorm:"type:text" json:"notes,omitempty"`
	AIAnalysis           datatypes.JSON   `json:"ai_analysis,omitempty"`
	SubmittedAt          time.Time        `gorm:"index;not null" json:"submitted_at"`
	TimeSpentSec         *int             `json:"time_spent_sec,omitempty"`
	StartTime            *time.Time       `json:"start_time,omitempty"`
	EndTime              *time.Time       `json:"end_time,omitempty"`
	Problem              Problem          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"problem"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// IsAccepted reports whether the submission passed.
func (s Submission) IsAccepted() bool {
	return s.Status == StatusAccepted
}
