package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcha311/rehab-backend/internal/models"
)

type streakRepository struct {
	db *gorm.DB
}

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db *gorm.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error) {
	var streak models.UserStreak
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&streak).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return &streak, nil
}

func (r *streakRepository) Create(ctx context.Context, streak *models.UserStreak) (*models.UserStreak, error) {
	if err := r.db.WithContext(ctx).Create(streak).Error; err != nil {
		return nil, fmt.Errorf("failed to create streak: %w", err)
	}
	return streak, nil
}

func (r *streakRepository) Save(ctx context.Context, streak *models.UserStreak) error {
	if err := r.db.WithContext(ctx).Save(streak).Error; err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

// FindStale returns streaks whose last active day precedes today and whose
// current count is still positive. Candidates include yesterday's streaks,
// which are not yet broken; the caller decides which ones to reset.
func (r *streakRepository) FindStale(ctx context.Context, today time.Time) ([]models.UserStreak, error) {
	var streaks []models.UserStreak
	err := r.db.WithContext(ctx).
		Where("last_active_date < ? AND current_streak > 0", models.Day(today)).
		Find(&streaks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale streaks: %w", err)
	}
	return streaks, nil
}

func (r *streakRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserStreak{}).
		Where("current_streak > 0").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active streaks: %w", err)
	}
	return count, nil
}
