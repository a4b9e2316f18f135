package models

// Platform identifies an external competitive-programming site.
type Platform string

const (
	PlatformCodeforces Platform = "codeforces"
	PlatformLeetCode   Platform = "leetcode"
	PlatformHackerRank Platform = "hackerrank"
)

// KnownPlatforms lists every platform the tracker can connect.
var KnownPlatforms = []Platform{PlatformCodeforces, PlatformLeetCode, PlatformHackerRank}

// Valid reports whether the platform is one the tracker knows about.
func (p Platform) Valid() bool {
	for _, known := range KnownPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// Difficulty is the canonical difficulty bucket every platform vocabulary maps into.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyUnknown Difficulty = "unknown"
)

// SubmissionStatus is the canonical verdict every platform vocabulary maps into.
type SubmissionStatus string

const (
	StatusAccepted            SubmissionStatus = "accepted"
	StatusWrongAnswer         SubmissionStatus = "wrong_answer"
	StatusTimeLimitExceeded   SubmissionStatus = "time_limit_exceeded"
	StatusMemoryLimitExceeded SubmissionStatus = "memory_limit_exceeded"
	StatusRuntimeError        SubmissionStatus = "runtime_error"
	StatusCompilationError    SubmissionStatus = "compilation_error"
	StatusOther               SubmissionStatus = "other"
)
