package dto

import "github.com/codetrack-dev/codetrack-api/internal/models"

// DashboardResponse aggregates a user's lifetime practice activity. Unlike
// the per-account stats block, these counters cover every retained
// submission, not just the latest sync delta.
type DashboardResponse struct {
	TotalSubmissions  int                       `json:"total_submissions"`
	ProblemsSolved    int                       `json:"problems_solved"`
	SuccessRate       float64                   `json:"success_rate"`
	Points            int                       `json:"points"`
	ByDifficulty      map[models.Difficulty]int `json:"by_difficulty"`
	ByPlatform        map[models.Platform]int   `json:"by_platform"`
	RecentSubmissions []SubmissionResponse      `json:"recent_submissions"`
}
