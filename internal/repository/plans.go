package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcha311/rehab-backend/internal/models"
)

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new rehab plan repository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// GetActiveByUserID returns the most recently created active plan for the
// user, or ErrNotFound when no plan is active.
func (r *planRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.RehabPlan, error) {
	var plan models.RehabPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.PlanStatusActive).
		Order("created_at DESC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) CountExerciseItems(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExercisePlanItem{}).
		Where("rehab_plan_id = ?", planID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count exercise items: %w", err)
	}
	return count, nil
}

func (r *planRepository) CountMedicationItems(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MedicationPlanItem{}).
		Where("rehab_plan_id = ?", planID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count medication items: %w", err)
	}
	return count, nil
}

func (r *planRepository) CountDietItems(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DietPlanItem{}).
		Where("rehab_plan_id = ?", planID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count diet items: %w", err)
	}
	return count, nil
}
