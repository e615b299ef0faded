package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/models"
)

// SummaryService defines the interface for daily summary business logic
type SummaryService interface {
	// RecomputeDailySummary aggregates the day containing at and upserts
	// the summary row. A successful write dispatches a streak update.
	RecomputeDailySummary(ctx context.Context, userID uuid.UUID, at time.Time) error
	GetDailySummary(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailySummary, error)
}

// StreakService defines the interface for streak business logic
type StreakService interface {
	// AdvanceOrReset applies one day's outcome to the user's streak as a
	// single serialized read-modify-write.
	AdvanceOrReset(ctx context.Context, userID uuid.UUID, day time.Time, exerciseRate, medicationRate int) error
	GetStreak(ctx context.Context, userID uuid.UUID, rangeDays int) (*models.StreakResponse, error)
	GetStreakSimple(ctx context.Context, userID uuid.UUID) (*models.StreakResponse, error)
	// CleanupStaleStreaks zeroes streaks whose last active day is more than
	// one day behind and returns how many were reset.
	CleanupStaleStreaks(ctx context.Context) (int, error)
	CountActiveStreaks(ctx context.Context) (int64, error)
}

// ActivityLogService defines the interface for activity log business logic
type ActivityLogService interface {
	CreateExerciseLog(ctx context.Context, userID uuid.UUID, req *models.CreateExerciseLogRequest) (*models.ExerciseLog, error)
	CreateMedicationLog(ctx context.Context, userID uuid.UUID, req *models.CreateMedicationLogRequest) (*models.MedicationLog, error)
	CreateDietLog(ctx context.Context, userID uuid.UUID, req *models.CreateDietLogRequest) (*models.DietLog, error)
}

// StreakDispatcher decouples the summary write from its streak side effect.
// Implementations must not fail the caller; delivery is at-least-once.
type StreakDispatcher interface {
	Dispatch(update StreakUpdate)
}
