package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/models"
)

// PlanRepository defines the interface for rehab plan data access.
// Item counts are the denominators for per-domain completion rates.
type PlanRepository interface {
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.RehabPlan, error)
	CountExerciseItems(ctx context.Context, planID uuid.UUID) (int64, error)
	CountMedicationItems(ctx context.Context, planID uuid.UUID) (int64, error)
	CountDietItems(ctx context.Context, planID uuid.UUID) (int64, error)
}

// ExerciseLogRepository defines the interface for exercise log data access
type ExerciseLogRepository interface {
	Create(ctx context.Context, log *models.ExerciseLog) (*models.ExerciseLog, error)
	GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.ExerciseLog, error)
}

// MedicationLogRepository defines the interface for medication log data access
type MedicationLogRepository interface {
	Create(ctx context.Context, log *models.MedicationLog) (*models.MedicationLog, error)
	GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.MedicationLog, error)
}

// DietLogRepository defines the interface for diet log data access
type DietLogRepository interface {
	Create(ctx context.Context, log *models.DietLog) (*models.DietLog, error)
	GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.DietLog, error)
}

// DailySummaryRepository defines the interface for daily summary data access.
// Upsert is a single atomic replace keyed on (user_id, date): concurrent
// recomputes may race but never interleave partial field writes.
type DailySummaryRepository interface {
	Upsert(ctx context.Context, summary *models.DailySummary) (*models.DailySummary, error)
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailySummary, error)
	GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.DailySummary, error)
}

// StreakRepository defines the interface for user streak data access
type StreakRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error)
	Create(ctx context.Context, streak *models.UserStreak) (*models.UserStreak, error)
	Save(ctx context.Context, streak *models.UserStreak) error
	// FindStale returns streaks with last_active_date before today and a
	// non-zero current streak, candidates for the sweep reset.
	FindStale(ctx context.Context, today time.Time) ([]models.UserStreak, error)
	CountActive(ctx context.Context) (int64, error)
}
