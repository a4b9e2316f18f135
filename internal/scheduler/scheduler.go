// Package scheduler runs the periodic platform sync for every user with a
// connected Codeforces account. The scheduler holds no state between ticks
// beyond what is persisted on user records.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/service"
)

// UserDirectory looks up the users eligible for a scheduled sync.
type UserDirectory interface {
	ListWithPlatform(ctx context.Context, platform models.Platform) ([]models.User, error)
}

// Scheduler triggers periodic syncs over all connected accounts.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	sync     service.SyncService
	users    UserDirectory
	logger   zerolog.Logger
}

// New constructs a Scheduler. The schedule uses robfig/cron syntax, e.g.
// "@every 6h".
func New(schedule string, sync service.SyncService, users UserDirectory, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		sync:     sync,
		users:    users,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the periodic job and launches the cron loop. It does not
// block.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("sync scheduler started")

	return nil
}

// Stop halts the cron loop and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("sync scheduler stopped")
}

// RunOnce syncs every user with a Codeforces account. One user's failure is
// logged and never halts the batch.
func (s *Scheduler) RunOnce(ctx context.Context) {
	users, err := s.users.ListWithPlatform(ctx, models.PlatformCodeforces)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users for scheduled sync")
		return
	}

	synced := 0
	for _, user := range users {
		if _, err := s.sync.Sync(ctx, user.ID, models.PlatformCodeforces); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("scheduled sync failed for user")
			continue
		}
		synced++
	}

	s.logger.Info().Int("users", len(users)).Int("synced", synced).Msg("scheduled sync tick completed")
}
