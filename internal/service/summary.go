package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mcha311/rehab-backend/internal/logger"
	"github.com/mcha311/rehab-backend/internal/models"
	"github.com/mcha311/rehab-backend/internal/repository"
)

// completionThreshold is the self-reported completion rate at or above
// which an exercise log counts toward the day's totals. Diet logs use the
// same cutoff for portion consumed.
const completionThreshold = 80

type summaryService struct {
	planRepo       repository.PlanRepository
	exerciseRepo   repository.ExerciseLogRepository
	medicationRepo repository.MedicationLogRepository
	dietRepo       repository.DietLogRepository
	summaryRepo    repository.DailySummaryRepository
	dispatcher     StreakDispatcher
}

// NewSummaryService creates a new daily summary service
func NewSummaryService(
	planRepo repository.PlanRepository,
	exerciseRepo repository.ExerciseLogRepository,
	medicationRepo repository.MedicationLogRepository,
	dietRepo repository.DietLogRepository,
	summaryRepo repository.DailySummaryRepository,
	dispatcher StreakDispatcher,
) SummaryService {
	return &summaryService{
		planRepo:       planRepo,
		exerciseRepo:   exerciseRepo,
		medicationRepo: medicationRepo,
		dietRepo:       dietRepo,
		summaryRepo:    summaryRepo,
		dispatcher:     dispatcher,
	}
}

func (s *summaryService) RecomputeDailySummary(ctx context.Context, userID uuid.UUID, at time.Time) error {
	log := logger.Ctx(ctx).With(
		logger.String("user_id", userID.String()),
		logger.Time("day", models.Day(at)),
	)

	day := models.Day(at)
	next := day.AddDate(0, 0, 1)

	plan, err := s.planRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("skipping daily summary, user has no active plan")
			return nil
		}
		return fmt.Errorf("failed to load active plan: %w", err)
	}

	prescribedExercises := s.countPlanItems(ctx, log, "exercise", plan.ID, s.planRepo.CountExerciseItems)
	prescribedMedications := s.countPlanItems(ctx, log, "medication", plan.ID, s.planRepo.CountMedicationItems)
	prescribedDiet := s.countPlanItems(ctx, log, "diet", plan.ID, s.planRepo.CountDietItems)

	summary := &models.DailySummary{UserID: userID, Date: day}

	if prescribedExercises == 0 && prescribedMedications == 0 && prescribedDiet == 0 {
		// Nothing prescribed: the day is vacuously complete and carries
		// no side metrics.
		summary.AllExercisesCompleted = true
		summary.AllMedicationsTaken = true
		summary.AllDietCompleted = true
	} else {
		exerciseLogs, err := s.exerciseRepo.GetByUserAndTimeRange(ctx, userID, day, next)
		if err != nil {
			return fmt.Errorf("failed to load exercise logs: %w", err)
		}
		medicationLogs, err := s.medicationRepo.GetByUserAndTimeRange(ctx, userID, day, next)
		if err != nil {
			return fmt.Errorf("failed to load medication logs: %w", err)
		}
		dietLogs, err := s.dietRepo.GetByUserAndTimeRange(ctx, userID, day, next)
		if err != nil {
			return fmt.Errorf("failed to load diet logs: %w", err)
		}

		completedExercises := 0
		takenMedications := 0
		completedDiet := 0

		for _, l := range exerciseLogs {
			if l.CompletionRate != nil && *l.CompletionRate >= completionThreshold {
				completedExercises++
			}
		}
		for _, l := range medicationLogs {
			if l.Taken {
				takenMedications++
			}
		}
		for _, l := range dietLogs {
			if (l.Completed != nil && *l.Completed) ||
				(l.PortionConsumed != nil && *l.PortionConsumed >= completionThreshold) {
				completedDiet++
			}
		}

		summary.ExerciseCompletionRate, summary.AllExercisesCompleted = completionRate(completedExercises, prescribedExercises)
		summary.MedicationCompletionRate, summary.AllMedicationsTaken = completionRate(takenMedications, prescribedMedications)
		summary.DietCompletionRate, summary.AllDietCompleted = completionRate(completedDiet, prescribedDiet)
		summary.AvgPainScore = averagePainScore(exerciseLogs)
		summary.TotalDurationSec = totalDuration(exerciseLogs)
		summary.Metrics = exerciseMetrics(exerciseLogs)
	}

	saved, err := s.summaryRepo.Upsert(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	s.dispatcher.Dispatch(StreakUpdate{
		UserID:         userID,
		Day:            day,
		ExerciseRate:   saved.ExerciseCompletionRate,
		MedicationRate: saved.MedicationCompletionRate,
	})

	log.Info("daily summary recomputed",
		logger.Int("exercise_rate", saved.ExerciseCompletionRate),
		logger.Int("medication_rate", saved.MedicationCompletionRate),
		logger.Int("diet_rate", saved.DietCompletionRate),
	)
	return nil
}

func (s *summaryService) GetDailySummary(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailySummary, error) {
	return s.summaryRepo.GetByUserAndDate(ctx, userID, date)
}

// countPlanItems degrades a failed count to zero so a flaky read cannot
// block the whole aggregation; the domain then reports as vacuously
// complete for the day.
func (s *summaryService) countPlanItems(ctx context.Context, log logger.Logger, domain string, planID uuid.UUID, count func(context.Context, uuid.UUID) (int64, error)) int {
	n, err := count(ctx, planID)
	if err != nil {
		log.Warn("failed to count plan items, treating as zero",
			logger.String("domain", domain), logger.Err(err))
		return 0
	}
	return int(n)
}

// completionRate returns the integer percentage of prescribed items
// completed, truncated, capped at 100. A day with nothing prescribed is
// vacuously complete.
func completionRate(completed, prescribed int) (int, bool) {
	if prescribed <= 0 {
		return 0, true
	}
	rate := completed * 100 / prescribed
	if rate > 100 {
		rate = 100
	}
	return rate, completed >= prescribed
}

// averagePainScore averages the reported pain across the day's exercise
// logs, preferring post-session pain. Nil when no log reports pain.
func averagePainScore(logs []models.ExerciseLog) *int {
	sum, n := 0, 0
	for _, l := range logs {
		switch {
		case l.PainAfter != nil:
			sum += *l.PainAfter
			n++
		case l.PainBefore != nil:
			sum += *l.PainBefore
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(float64(sum) / float64(n)))
	return &avg
}

func totalDuration(logs []models.ExerciseLog) int {
	total := 0
	for _, l := range logs {
		if l.DurationSec != nil {
			total += *l.DurationSec
		}
	}
	return total
}

func exerciseMetrics(logs []models.ExerciseLog) datatypes.JSONMap {
	if len(logs) == 0 {
		return nil
	}
	metrics := datatypes.JSONMap{"total_exercises": len(logs)}
	rpeSum, rpeN := 0, 0
	for _, l := range logs {
		if l.RPE != nil {
			rpeSum += *l.RPE
			rpeN++
		}
	}
	if rpeN > 0 {
		metrics["avg_rpe"] = math.Round(float64(rpeSum)/float64(rpeN)*10) / 10
	}
	return metrics
}
