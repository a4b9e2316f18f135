package ai

import "context"

// AnalysisInput contains the artefacts needed to analyze a submission.
type AnalysisInput struct {
	ProblemTitle string
	Difficulty   string
	Topics       []string
	Language     string
	Status       string
	Code         string
}

// Resource is one study resource suggested by the analyzer.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Analysis is the structured feedback returned by the analyzer.
type Analysis struct {
	Strengths          []string   `json:"strengths"`
	Weaknesses         []string   `json:"weaknesses"`
	OptimizationTips   []string   `json:"optimization_tips"`
	ConceptsUsed       []string   `json:"concepts_used"`
	SuggestedResources []Resource `json:"suggested_resources"`
}

// Analyzer describes an AI model capable of reviewing a practice submission.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalysisInput) (Analysis, error)
}
