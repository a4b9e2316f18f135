package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

func TestHackerRankFetchSubmissionsModelsShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models": [
			{"id": 991, "challenge_slug": "solve-me-first", "challenge_name": "Solve Me First", "status": "Solved", "language": "python3", "created_at_epoch": 1700000000}
		]}`))
	}))
	defer server.Close()

	client := NewHackerRankClient(server.URL, zerolog.Nop())

	subs, err := client.FetchSubmissions(context.Background(), "someone", FetchOptions{})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "991", subs[0].ID)
	require.Equal(t, "solve-me-first", subs[0].ProblemID)
}

func TestHackerRankFetchSubmissionsDataAndBareShapes(t *testing.T) {
	for _, body := range []string{
		`{"data": [{"id": 7, "challenge_slug": "simple-sum", "status": "Solved"}]}`,
		`[{"id": 7, "challenge_slug": "simple-sum", "status": "Solved"}]`,
	} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client := NewHackerRankClient(server.URL, zerolog.Nop())
		subs, err := client.FetchSubmissions(context.Background(), "someone", FetchOptions{})
		require.NoError(t, err)
		require.Len(t, subs, 1, "body: %s", body)

		server.Close()
	}
}

func TestHackerRankFetchSubmissionsFailuresYieldEmptyList(t *testing.T) {
	// Unrecognized shape.
	shapeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tracker": {"nested": true}}`))
	}))
	defer shapeServer.Close()

	client := NewHackerRankClient(shapeServer.URL, zerolog.Nop())
	subs, err := client.FetchSubmissions(context.Background(), "someone", FetchOptions{})
	require.NoError(t, err)
	require.Empty(t, subs)

	// Non-OK status.
	errorServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer errorServer.Close()

	client = NewHackerRankClient(errorServer.URL, zerolog.Nop())
	subs, err = client.FetchSubmissions(context.Background(), "someone", FetchOptions{})
	require.NoError(t, err)
	require.Empty(t, subs)

	// Network failure.
	client = NewHackerRankClient("http://127.0.0.1:1", zerolog.Nop())
	subs, err = client.FetchSubmissions(context.Background(), "someone", FetchOptions{})
	require.NoError(t, err)
	require.Empty(t, subs)
}

func TestHackerRankMapDifficulty(t *testing.T) {
	client := NewHackerRankClient("", zerolog.Nop())

	score := func(v float64) *float64 { return &v }

	require.Equal(t, models.DifficultyEasy, client.MapDifficulty(nil, "Easy"))
	require.Equal(t, models.DifficultyMedium, client.MapDifficulty(nil, "Medium Max Score"))
	require.Equal(t, models.DifficultyHard, client.MapDifficulty(nil, "Very Hard"))
	require.Equal(t, models.DifficultyEasy, client.MapDifficulty(score(29), ""))
	require.Equal(t, models.DifficultyMedium, client.MapDifficulty(score(59), ""))
	require.Equal(t, models.DifficultyHard, client.MapDifficulty(score(60), ""))
	require.Equal(t, models.DifficultyMedium, client.MapDifficulty(nil, ""))
}

func TestHackerRankMapVerdictIsTotal(t *testing.T) {
	client := NewHackerRankClient("", zerolog.Nop())

	require.Equal(t, models.StatusAccepted, client.MapVerdict("Solved"))
	require.Equal(t, models.StatusWrongAnswer, client.MapVerdict("wrong answer"))
	require.Equal(t, models.StatusOther, client.MapVerdict(""))
	require.Equal(t, models.StatusOther, client.MapVerdict("something new"))
}
