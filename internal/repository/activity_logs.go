package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcha311/rehab-backend/internal/models"
)

// Log repositories share the same shape: append a row, query a user's rows
// in a half-open [start, end) time window.

type exerciseLogRepository struct {
	db *gorm.DB
}

// NewExerciseLogRepository creates a new exercise log repository
func NewExerciseLogRepository(db *gorm.DB) ExerciseLogRepository {
	return &exerciseLogRepository{db: db}
}

func (r *exerciseLogRepository) Create(ctx context.Context, log *models.ExerciseLog) (*models.ExerciseLog, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, fmt.Errorf("failed to create exercise log: %w", err)
	}
	return log, nil
}

func (r *exerciseLogRepository) GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.ExerciseLog, error) {
	var logs []models.ExerciseLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end).
		Order("logged_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise logs: %w", err)
	}
	return logs, nil
}

type medicationLogRepository struct {
	db *gorm.DB
}

// NewMedicationLogRepository creates a new medication log repository
func NewMedicationLogRepository(db *gorm.DB) MedicationLogRepository {
	return &medicationLogRepository{db: db}
}

func (r *medicationLogRepository) Create(ctx context.Context, log *models.MedicationLog) (*models.MedicationLog, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, fmt.Errorf("failed to create medication log: %w", err)
	}
	return log, nil
}

func (r *medicationLogRepository) GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.MedicationLog, error) {
	var logs []models.MedicationLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND taken_at >= ? AND taken_at < ?", userID, start, end).
		Order("taken_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get medication logs: %w", err)
	}
	return logs, nil
}

type dietLogRepository struct {
	db *gorm.DB
}

// NewDietLogRepository creates a new diet log repository
func NewDietLogRepository(db *gorm.DB) DietLogRepository {
	return &dietLogRepository{db: db}
}

func (r *dietLogRepository) Create(ctx context.Context, log *models.DietLog) (*models.DietLog, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, fmt.Errorf("failed to create diet log: %w", err)
	}
	return log, nil
}

func (r *dietLogRepository) GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.DietLog, error) {
	var logs []models.DietLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end).
		Order("logged_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get diet logs: %w", err)
	}
	return logs, nil
}
