// Package scheduler runs the recurring streak maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mcha311/rehab-backend/internal/logger"
	"github.com/mcha311/rehab-backend/internal/service"
)

const (
	// Shortly after midnight, so the sweep never races the day rollover.
	staleSweepSchedule = "1 0 * * *"
	// Hourly active-streak gauge for dashboards.
	streakStatsSchedule = "0 * * * *"
)

// Scheduler owns the cron runner for streak maintenance.
type Scheduler struct {
	cron    *cron.Cron
	streaks service.StreakService
}

// New creates a scheduler wired to the streak service.
func New(streaks service.StreakService) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		streaks: streaks,
	}
}

// Start registers the jobs and launches the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(staleSweepSchedule, s.sweepStaleStreaks); err != nil {
		return fmt.Errorf("failed to schedule stale streak sweep: %w", err)
	}
	if _, err := s.cron.AddFunc(streakStatsSchedule, s.logActiveStreaks); err != nil {
		return fmt.Errorf("failed to schedule streak stats: %w", err)
	}
	s.cron.Start()
	logger.Info("scheduler started",
		logger.String("sweep_schedule", staleSweepSchedule),
		logger.String("stats_schedule", streakStatsSchedule),
	)
	return nil
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) sweepStaleStreaks() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	reset, err := s.streaks.CleanupStaleStreaks(ctx)
	if err != nil {
		logger.Error("stale streak sweep failed", logger.Err(err))
		return
	}
	logger.Info("stale streak sweep completed", logger.Int("reset", reset))
}

func (s *Scheduler) logActiveStreaks() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.streaks.CountActiveStreaks(ctx)
	if err != nil {
		logger.Error("failed to count active streaks", logger.Err(err))
		return
	}
	logger.Info("active streak count", logger.Int64("active_streaks", count))
}
