package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mcha311/rehab-backend/internal/config"
	"github.com/mcha311/rehab-backend/internal/db"
	"github.com/mcha311/rehab-backend/internal/logger"
	"github.com/mcha311/rehab-backend/internal/repository"
	"github.com/mcha311/rehab-backend/internal/service"
)

// sweepCmd runs the stale streak sweep once and exits, for operators
// and backfills. The server runs the same sweep on a daily schedule.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Reset stale streaks once and exit",
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg)

	gdb, err := db.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	streakService := service.NewStreakService(
		repository.NewStreakRepository(gdb),
		repository.NewDailySummaryRepository(gdb),
		nil,
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	reset, err := streakService.CleanupStaleStreaks(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	logger.Info("sweep finished", logger.Int("reset", reset))
	return nil
}
