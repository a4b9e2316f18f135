package dto

import (
	"encoding/json"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// ProblemListRequest filters the shared problem catalog.
type ProblemListRequest struct {
	Platform   string `json:"platform" validate:"omitempty,oneof=codeforces leetcode hackerrank"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard unknown"`
	Topic      string `json:"topic"`
	Search     string `json:"search" validate:"max=255"`
	Page       int    `json:"page" validate:"gte=0"`
	PageSize   int    `json:"page_size" validate:"gte=0,lte=100"`
}

// ProblemResponse is the public view of a catalog problem.
type ProblemResponse struct {
	ID             uint              `json:"id"`
	Platform       models.Platform   `json:"platform"`
	PlatformID     string            `json:"platform_id"`
	Title          string            `json:"title"`
	URL            string            `json:"url"`
	Difficulty     models.Difficulty `json:"difficulty"`
	Topics         []string          `json:"topics"`
	AcceptanceRate *float64          `json:"acceptance_rate,omitempty"`
	TimeLimitMs    *int              `json:"time_limit_ms,omitempty"`
	MemoryLimitKB  *int              `json:"memory_limit_kb,omitempty"`
	Note           string            `json:"note,omitempty"`
}

// NewProblemResponse builds a response DTO from a model.
func NewProblemResponse(problem models.Problem) ProblemResponse {
	var topics []string
	if len(problem.Topics) > 0 {
		_ = json.Unmarshal(problem.Topics, &topics)
	}

	return ProblemResponse{
		ID:             problem.ID,
		Platform:       problem.Platform,
		PlatformID:     problem.PlatformID,
		Title:          problem.Title,
		URL:            problem.URL,
		Difficulty:     problem.Difficulty,
		Topics:         topics,
		AcceptanceRate: problem.AcceptanceRate,
		TimeLimitMs:    problem.TimeLimitMs,
		MemoryLimitKB:  problem.MemoryLimitKB,
	}
}

// NewProblemResponseSlice converts a slice of models.
func NewProblemResponseSlice(problems []models.Problem) []ProblemResponse {
	responses := make([]ProblemResponse, 0, len(problems))
	for _, problem := range problems {
		responses = append(responses, NewProblemResponse(problem))
	}
	return responses
}

// ProblemListResponse carries one catalog page plus pagination totals.
type ProblemListResponse struct {
	Items      []ProblemResponse `json:"items"`
	TotalItems int64             `json:"total_items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

// NoteUpsertRequest sets the caller's note on a problem.
type NoteUpsertRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

// NoteResponse is the public view of a per-user problem note.
type NoteResponse struct {
	ProblemID uint   `json:"problem_id"`
	Body      string `json:"body"`
}
