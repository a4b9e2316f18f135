// Package platform abstracts the external competitive-programming sites the
// tracker imports submission history from. Each supported platform provides
// one Client implementation: a fetcher for raw submissions plus the pure
// translation tables mapping its native verdict and difficulty vocabulary
// into the canonical enums. Adding a platform means adding one Client.
package platform

import (
	"context"
	"time"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// FetchOptions narrows a submission fetch.
type FetchOptions struct {
	// Limit caps the number of submissions requested from the platform.
	Limit int
	// From and To, when set, filter submissions by their submission time.
	// Filtering happens client-side after the fetch.
	From *time.Time
	To   *time.Time
}

// RawSubmission is one submission as reported by a platform, before
// normalization. Fields a platform cannot provide stay zero.
type RawSubmission struct {
	// ID is the platform's external submission identifier. Items without an
	// ID cannot be deduplicated and are rejected by the orchestrator.
	ID string
	// ProblemID is the stable external problem identifier derived by the
	// client (Codeforces: contest id + index; LeetCode: slug; HackerRank: slug).
	ProblemID string
	// ContestID is set where the platform groups problems into contests.
	ContestID string

	ProblemTitle string
	ProblemURL   string

	// Rating is the numeric difficulty where the platform provides one.
	Rating *float64
	// DifficultyLabel is the string difficulty where the platform provides one.
	DifficultyLabel string
	Tags            []string

	Verdict  string
	Language string
	Code     string

	// TimeMillis is the reported execution time in milliseconds.
	TimeMillis *float64
	// MemoryBytes is the reported memory consumption in bytes.
	MemoryBytes *float64

	SubmittedAt time.Time
}

// Client is the per-platform capability bundle consumed by the sync
// orchestrator. FetchSubmissions is an I/O boundary; the two mappers are
// total functions and never fail.
type Client interface {
	Platform() models.Platform
	FetchSubmissions(ctx context.Context, handle string, opts FetchOptions) ([]RawSubmission, error)
	MapVerdict(verdict string) models.SubmissionStatus
	MapDifficulty(rating *float64, label string) models.Difficulty
}

// SourceFetcher retrieves the source code of one submission, typically via a
// headless-browser session where no API exposes it. Failures are soft: the
// orchestrator leaves the code empty and moves on.
type SourceFetcher interface {
	FetchSource(ctx context.Context, contestID, submissionID string) (string, error)
}

// Registry selects a Client by platform.
type Registry struct {
	clients map[models.Platform]Client
}

// NewRegistry builds a registry from the given clients.
func NewRegistry(clients ...Client) *Registry {
	registry := &Registry{clients: make(map[models.Platform]Client, len(clients))}
	for _, client := range clients {
		registry.clients[client.Platform()] = client
	}
	return registry
}

// Client returns the client registered for the platform, if any.
func (r *Registry) Client(p models.Platform) (Client, bool) {
	client, ok := r.clients[p]
	return client, ok
}

// withinRange reports whether ts falls inside the optional [from, to] window.
func withinRange(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}
