package dto

import (
	"time"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// ConnectPlatformRequest is the payload for linking an external account.
type ConnectPlatformRequest struct {
	Platform string `json:"platform" validate:"required,oneof=codeforces leetcode hackerrank"`
	Handle   string `json:"handle" validate:"required,min=1,max=128"`
}

// AccountStatsResponse mirrors the per-account sync-delta counters.
type AccountStatsResponse struct {
	ProblemsSolved   int     `json:"problems_solved"`
	TotalSubmissions int     `json:"total_submissions"`
	SuccessRate      float64 `json:"success_rate"`
}

// PlatformAccountResponse is the public view of a connected account.
type PlatformAccountResponse struct {
	ID         uint                 `json:"id"`
	Platform   models.Platform      `json:"platform"`
	Handle     string               `json:"handle"`
	LastSynced *time.Time           `json:"last_synced,omitempty"`
	Stats      AccountStatsResponse `json:"stats"`
}

// NewPlatformAccountResponse builds a response DTO from a model.
func NewPlatformAccountResponse(account models.PlatformAccount) PlatformAccountResponse {
	return PlatformAccountResponse{
		ID:         account.ID,
		Platform:   account.Platform,
		Handle:     account.Handle,
		LastSynced: account.LastSynced,
		Stats: AccountStatsResponse{
			ProblemsSolved:   account.Stats.ProblemsSolved,
			TotalSubmissions: account.Stats.TotalSubmissions,
			SuccessRate:      account.Stats.SuccessRate,
		},
	}
}

// NewPlatformAccountResponseSlice converts a slice of models.
func NewPlatformAccountResponseSlice(accounts []models.PlatformAccount) []PlatformAccountResponse {
	responses := make([]PlatformAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, NewPlatformAccountResponse(account))
	}
	return responses
}

// SyncResultResponse summarizes one sync run: the delta of newly created
// problems and submissions.
type SyncResultResponse struct {
	Platform    models.Platform      `json:"platform"`
	Problems    []ProblemResponse    `json:"problems"`
	Submissions []SubmissionResponse `json:"submissions"`
	SyncedAt    time.Time            `json:"synced_at"`
}
