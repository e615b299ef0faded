package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/logger"
	"github.com/mcha311/rehab-backend/internal/models"
	"github.com/mcha311/rehab-backend/internal/repository"
)

// ErrNoActivePlan is returned when a log is submitted by a user without
// an active rehab plan.
var ErrNoActivePlan = errors.New("user has no active rehab plan")

type activityLogService struct {
	planRepo       repository.PlanRepository
	exerciseRepo   repository.ExerciseLogRepository
	medicationRepo repository.MedicationLogRepository
	dietRepo       repository.DietLogRepository
	summaries      SummaryService
}

// NewActivityLogService creates a new activity log service
func NewActivityLogService(
	planRepo repository.PlanRepository,
	exerciseRepo repository.ExerciseLogRepository,
	medicationRepo repository.MedicationLogRepository,
	dietRepo repository.DietLogRepository,
	summaries SummaryService,
) ActivityLogService {
	return &activityLogService{
		planRepo:       planRepo,
		exerciseRepo:   exerciseRepo,
		medicationRepo: medicationRepo,
		dietRepo:       dietRepo,
		summaries:      summaries,
	}
}

func (s *activityLogService) CreateExerciseLog(ctx context.Context, userID uuid.UUID, req *models.CreateExerciseLogRequest) (*models.ExerciseLog, error) {
	if err := s.requireActivePlan(ctx, userID); err != nil {
		return nil, err
	}

	loggedAt := timestampOrNow(req.LoggedAt)
	created, err := s.exerciseRepo.Create(ctx, &models.ExerciseLog{
		UserID:         userID,
		ExerciseItemID: req.ExerciseItemID,
		CompletionRate: req.CompletionRate,
		PainBefore:     req.PainBefore,
		PainAfter:      req.PainAfter,
		RPE:            req.RPE,
		DurationSec:    req.DurationSec,
		Notes:          req.Notes,
		LoggedAt:       loggedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise log: %w", err)
	}

	s.recompute(ctx, userID, loggedAt)
	return created, nil
}

func (s *activityLogService) CreateMedicationLog(ctx context.Context, userID uuid.UUID, req *models.CreateMedicationLogRequest) (*models.MedicationLog, error) {
	if err := s.requireActivePlan(ctx, userID); err != nil {
		return nil, err
	}

	takenAt := timestampOrNow(req.TakenAt)
	created, err := s.medicationRepo.Create(ctx, &models.MedicationLog{
		UserID:           userID,
		MedicationItemID: req.MedicationItemID,
		Taken:            req.Taken,
		Notes:            req.Notes,
		TakenAt:          takenAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create medication log: %w", err)
	}

	s.recompute(ctx, userID, takenAt)
	return created, nil
}

func (s *activityLogService) CreateDietLog(ctx context.Context, userID uuid.UUID, req *models.CreateDietLogRequest) (*models.DietLog, error) {
	if err := s.requireActivePlan(ctx, userID); err != nil {
		return nil, err
	}

	loggedAt := timestampOrNow(req.LoggedAt)
	created, err := s.dietRepo.Create(ctx, &models.DietLog{
		UserID:          userID,
		DietItemID:      req.DietItemID,
		Completed:       req.Completed,
		PortionConsumed: req.PortionConsumed,
		Notes:           req.Notes,
		LoggedAt:        loggedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create diet log: %w", err)
	}

	s.recompute(ctx, userID, loggedAt)
	return created, nil
}

func (s *activityLogService) requireActivePlan(ctx context.Context, userID uuid.UUID) error {
	_, err := s.planRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoActivePlan
		}
		return fmt.Errorf("failed to load active plan: %w", err)
	}
	return nil
}

// recompute refreshes the day's summary after a log write. The log is
// already persisted, so an aggregation failure is reported but does not
// fail the request; the next write or a manual recompute repairs it.
func (s *activityLogService) recompute(ctx context.Context, userID uuid.UUID, at time.Time) {
	if err := s.summaries.RecomputeDailySummary(ctx, userID, at); err != nil {
		logger.Ctx(ctx).Warn("failed to recompute daily summary after log write",
			logger.String("user_id", userID.String()),
			logger.Time("day", models.Day(at)),
			logger.Err(err),
		)
	}
}

func timestampOrNow(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Now().UTC()
}
