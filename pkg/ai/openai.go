package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codetrack",
		Subsystem: "ai",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of AI analysis requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetrack",
		Subsystem: "ai",
		Name:      "analysis_failures_total",
		Help:      "Number of AI analysis failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI analyzer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAnalyzer implements Analyzer against the OpenAI chat completion API.
type OpenAIAnalyzer struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger zerolog.Logger
}

// NewOpenAIAnalyzer builds a new analyzer using the provided configuration.
func NewOpenAIAnalyzer(cfg OpenAIConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 768
	}

	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

// Analyze sends the submission to OpenAI and parses the structured feedback.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, input AnalysisInput) (Analysis, error) {
	start := time.Now()

	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: analyzerSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(a.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		return Analysis{}, fmt.Errorf("openai analyze: %w", err)
	}

	if len(resp.Choices) == 0 {
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		return Analysis{}, fmt.Errorf("no choices returned from openai")
	}

	var analysis Analysis
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		return Analysis{}, fmt.Errorf("malformed analysis payload: %w", err)
	}

	a.logger.Debug().Str("model", a.cfg.Model).Msg("submission analysis completed")

	return analysis, nil
}

func analyzerSystemPrompt() string {
	return strings.TrimSpace(`
You are a competitive-programming coach reviewing one submission.
Respond with a JSON object holding exactly these keys:
"strengths", "weaknesses", "optimization_tips", "concepts_used" (arrays of short strings)
and "suggested_resources" (array of {"title","url","type"} objects).
Keep every entry concrete and tied to the submitted code.`)
}

func buildUserPrompt(input AnalysisInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s (difficulty: %s)\n", input.ProblemTitle, input.Difficulty)
	if len(input.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(input.Topics, ", "))
	}
	fmt.Fprintf(&b, "Verdict: %s\nLanguage: %s\n\nCode:\n%s\n", input.Status, input.Language, input.Code)
	return b.String()
}
