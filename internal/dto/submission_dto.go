package dto

import (
	"encoding/json"
	"time"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// SubmissionCreateRequest is the payload for recording a submission directly,
// outside of a platform sync.
type SubmissionCreateRequest struct {
	ProblemID   uint       `json:"problem_id" validate:"required,gt=0"`
	Status      string     `json:"status" validate:"required,oneof=accepted wrong_answer time_limit_exceeded memory_limit_exceeded runtime_error compilation_error other"`
	Language    string     `json:"language" validate:"required,min=1,max=64"`
	Code        string     `json:"code"`
	TimeTaken   *float64   `json:"time_taken_sec" validate:"omitempty,gte=0"`
	MemoryUsed  *float64   `json:"memory_used_kb" validate:"omitempty,gte=0"`
	SubmittedAt *time.Time `json:"submitted_at"`
	TimeSpent   *int       `json:"time_spent_sec" validate:"omitempty,gte=0"`
}

// SubmissionUpdateRequest carries the annotation-only fields a caller may
// change after creation. Identity fields are immutable.
type SubmissionUpdateRequest struct {
	Notes           *string `json:"notes" validate:"omitempty,max=10000"`
	TimeComplexity  *string `json:"time_complexity" validate:"omitempty,max=64"`
	SpaceComplexity *string `json:"space_complexity" validate:"omitempty,max=64"`
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	ProblemID *uint
	Platform  *string
	Status    *string
	Limit     int
}

// AIAnalysisResponse mirrors the structured feedback stored on a submission.
type AIAnalysisResponse struct {
	Strengths          []string           `json:"strengths"`
	Weaknesses         []string           `json:"weaknesses"`
	OptimizationTips   []string           `json:"optimization_tips"`
	ConceptsUsed       []string           `json:"concepts_used"`
	SuggestedResources []ResourceResponse `json:"suggested_resources"`
}

// ResourceResponse is one study resource suggested by the analyzer.
type ResourceResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// SubmissionResponse is the public view of a submission.
type SubmissionResponse struct {
	ID                   uint                    `json:"id"`
	ProblemID            uint                    `json:"problem_id"`
	Platform             models.Platform         `json:"platform"`
	PlatformSubmissionID string                  `json:"platform_submission_id,omitempty"`
	Status               models.SubmissionStatus `json:"status"`
	Language             string                  `json:"language"`
	Code                 string                  `json:"code,omitempty"`
	TimeTakenSec         *float64                `json:"time_taken_sec,omitempty"`
	MemoryUsedKB         *float64                `json:"memory_used_kb,omitempty"`
	TimeComplexity       string                  `json:"time_complexity,omitempty"`
	SpaceComplexity      string                  `json:"space_complexity,omitempty"`
	Notes                string                  `json:"notes,omitempty"`
	AIAnalysis           *AIAnalysisResponse     `json:"ai_analysis,omitempty"`
	SubmittedAt          time.Time               `json:"submitted_at"`
	Problem              *ProblemResponse        `json:"problem,omitempty"`
}

// NewSubmissionResponse builds a response DTO from a model.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:                   submission.ID,
		ProblemID:            submission.ProblemID,
		Platform:             submission.Platform,
		PlatformSubmissionID: submission.PlatformSubmissionID,
		Status:               submission.Status,
		Language:             submission.Language,
		Code:                 submission.Code,
		TimeTakenSec:         submission.TimeTakenSec,
		MemoryUsedKB:         submission.MemoryUsedKB,
		TimeComplexity:       submission.TimeComplexity,
		SpaceComplexity:      submission.SpaceComplexity,
		Notes:                submission.Notes,
		SubmittedAt:          submission.SubmittedAt,
	}

	if len(submission.AIAnalysis) > 0 {
		var analysis AIAnalysisResponse
		if err := json.Unmarshal(submission.AIAnalysis, &analysis); err == nil {
			response.AIAnalysis = &analysis
		}
	}

	if submission.Problem.ID != 0 {
		problem := NewProblemResponse(submission.Problem)
		response.Problem = &problem
	}

	return response
}

// NewSubmissionResponseSlice converts a slice of models.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
