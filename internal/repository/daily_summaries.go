package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mcha311/rehab-backend/internal/models"
)

// summaryUpdateColumns are the derived fields replaced on every recompute.
// The row identity (id, user_id, date, created_at) is preserved.
var summaryUpdateColumns = []string{
	"all_exercises_completed",
	"exercise_completion_rate",
	"all_medications_taken",
	"medication_completion_rate",
	"all_diet_completed",
	"diet_completion_rate",
	"avg_pain_score",
	"total_duration_sec",
	"metrics",
	"updated_at",
}

type dailySummaryRepository struct {
	db *gorm.DB
}

// NewDailySummaryRepository creates a new daily summary repository
func NewDailySummaryRepository(db *gorm.DB) DailySummaryRepository {
	return &dailySummaryRepository{db: db}
}

// Upsert writes the summary for (user_id, date) as a single atomic replace.
// An existing row keeps its storage key; all derived fields are overwritten.
func (r *dailySummaryRepository) Upsert(ctx context.Context, summary *models.DailySummary) (*models.DailySummary, error) {
	summary.Date = models.Day(summary.Date)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns(summaryUpdateColumns),
		}).
		Create(summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	// Re-read so the caller sees the stored row (identity included) rather
	// than the in-memory candidate when the conflict path was taken.
	return r.GetByUserAndDate(ctx, summary.UserID, summary.Date)
}

func (r *dailySummaryRepository) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailySummary, error) {
	var summary models.DailySummary
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, models.Day(date)).
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get daily summary: %w", err)
	}
	return &summary, nil
}

func (r *dailySummaryRepository) GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.DailySummary, error) {
	var summaries []models.DailySummary
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, models.Day(start), models.Day(end)).
		Order("date ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily summaries: %w", err)
	}
	return summaries, nil
}
