package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/models"
)

type summaryFixture struct {
	planRepo       *mockPlanRepository
	exerciseRepo   *mockExerciseLogRepository
	medicationRepo *mockMedicationLogRepository
	dietRepo       *mockDietLogRepository
	summaryRepo    *mockDailySummaryRepository
	dispatcher     *recordingDispatcher
	service        SummaryService
	userID         uuid.UUID
	day            time.Time
}

func newSummaryFixture(exerciseItems, medicationItems, dietItems int64) *summaryFixture {
	userID := uuid.New()
	f := &summaryFixture{
		planRepo: &mockPlanRepository{
			plan:            &models.RehabPlan{ID: uuid.New(), UserID: userID, Status: models.PlanStatusActive},
			exerciseItems:   exerciseItems,
			medicationItems: medicationItems,
			dietItems:       dietItems,
		},
		exerciseRepo:   &mockExerciseLogRepository{},
		medicationRepo: &mockMedicationLogRepository{},
		dietRepo:       &mockDietLogRepository{},
		summaryRepo:    newMockDailySummaryRepository(),
		dispatcher:     &recordingDispatcher{},
		userID:         userID,
		day:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	f.service = NewSummaryService(f.planRepo, f.exerciseRepo, f.medicationRepo, f.dietRepo, f.summaryRepo, f.dispatcher)
	return f
}

func (f *summaryFixture) addExerciseLog(rate *int, painBefore, painAfter, rpe, duration *int) {
	f.exerciseRepo.logs = append(f.exerciseRepo.logs, models.ExerciseLog{
		ID:             uuid.New(),
		UserID:         f.userID,
		CompletionRate: rate,
		PainBefore:     painBefore,
		PainAfter:      painAfter,
		RPE:            rpe,
		DurationSec:    duration,
		LoggedAt:       f.day.Add(10 * time.Hour),
	})
}

func (f *summaryFixture) storedSummary(t *testing.T) *models.DailySummary {
	t.Helper()
	summary, err := f.summaryRepo.GetByUserAndDate(context.Background(), f.userID, f.day)
	if err != nil {
		t.Fatalf("expected stored summary, got error: %v", err)
	}
	return summary
}

func TestRecomputeDailySummaryCountsQualifyingExercises(t *testing.T) {
	f := newSummaryFixture(5, 0, 0)
	// 4 of 5 exercises meet the completion cutoff; 79 is just below it.
	f.addExerciseLog(intPtr(100), nil, nil, nil, intPtr(600))
	f.addExerciseLog(intPtr(80), nil, nil, nil, intPtr(300))
	f.addExerciseLog(intPtr(95), nil, nil, nil, nil)
	f.addExerciseLog(intPtr(90), nil, nil, nil, nil)
	f.addExerciseLog(intPtr(79), nil, nil, nil, nil)

	if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := f.storedSummary(t)
	if summary.ExerciseCompletionRate != 80 {
		t.Errorf("expected exercise rate 80, got %d", summary.ExerciseCompletionRate)
	}
	if summary.AllExercisesCompleted {
		t.Error("expected all-exercises-completed to be false at 4 of 5")
	}
	if summary.TotalDurationSec != 900 {
		t.Errorf("expected total duration 900, got %d", summary.TotalDurationSec)
	}
}

func TestRecomputeDailySummaryTruncatesRate(t *testing.T) {
	f := newSummaryFixture(3, 3, 3)
	f.addExerciseLog(intPtr(100), nil, nil, nil, nil)

	f.medicationRepo.logs = append(f.medicationRepo.logs,
		models.MedicationLog{UserID: f.userID, Taken: true, TakenAt: f.day.Add(8 * time.Hour)},
		models.MedicationLog{UserID: f.userID, Taken: true, TakenAt: f.day.Add(20 * time.Hour)},
		models.MedicationLog{UserID: f.userID, Taken: false, TakenAt: f.day.Add(21 * time.Hour)},
	)
	f.dietRepo.logs = append(f.dietRepo.logs,
		models.DietLog{UserID: f.userID, Completed: boolPtr(true), LoggedAt: f.day.Add(7 * time.Hour)},
		models.DietLog{UserID: f.userID, PortionConsumed: intPtr(85), LoggedAt: f.day.Add(12 * time.Hour)},
		models.DietLog{UserID: f.userID, PortionConsumed: intPtr(50), LoggedAt: f.day.Add(19 * time.Hour)},
	)

	if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := f.storedSummary(t)
	if summary.ExerciseCompletionRate != 33 {
		t.Errorf("expected exercise rate 33 (truncated), got %d", summary.ExerciseCompletionRate)
	}
	if summary.MedicationCompletionRate != 66 {
		t.Errorf("expected medication rate 66, got %d", summary.MedicationCompletionRate)
	}
	if summary.AllMedicationsTaken {
		t.Error("expected all-medications-taken to be false at 2 of 3")
	}
	if summary.DietCompletionRate != 66 {
		t.Errorf("expected diet rate 66, got %d", summary.DietCompletionRate)
	}
}

func TestRecomputeDailySummaryNothingPrescribed(t *testing.T) {
	f := newSummaryFixture(0, 0, 0)
	// Logs exist but no plan items are prescribed; the day is vacuously
	// complete and side metrics stay empty.
	f.addExerciseLog(intPtr(100), intPtr(5), nil, intPtr(7), intPtr(600))

	if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := f.storedSummary(t)
	if summary.ExerciseCompletionRate != 0 || summary.MedicationCompletionRate != 0 || summary.DietCompletionRate != 0 {
		t.Errorf("expected zero rates, got %d/%d/%d",
			summary.ExerciseCompletionRate, summary.MedicationCompletionRate, summary.DietCompletionRate)
	}
	if !summary.AllExercisesCompleted || !summary.AllMedicationsTaken || !summary.AllDietCompleted {
		t.Error("expected all domains vacuously complete")
	}
	if summary.AvgPainScore != nil {
		t.Errorf("expected nil avg pain score, got %d", *summary.AvgPainScore)
	}
	if summary.TotalDurationSec != 0 {
		t.Errorf("expected zero duration, got %d", summary.TotalDurationSec)
	}
	if len(f.dispatcher.updates) != 1 {
		t.Fatalf("expected one streak dispatch, got %d", len(f.dispatcher.updates))
	}
}

func TestRecomputeDailySummarySkipsWithoutActivePlan(t *testing.T) {
	f := newSummaryFixture(3, 0, 0)
	f.planRepo.plan = nil

	if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
		t.Fatalf("expected skip without error, got: %v", err)
	}
	if f.summaryRepo.upsertCalls != 0 {
		t.Errorf("expected no summary write, got %d upserts", f.summaryRepo.upsertCalls)
	}
	if len(f.dispatcher.updates) != 0 {
		t.Errorf("expected no streak dispatch, got %d", len(f.dispatcher.updates))
	}
}

func TestRecomputeDailySummaryDegradesFailedCounts(t *testing.T) {
	f := newSummaryFixture(5, 5, 5)
	f.planRepo.countErr = errors.New("count timeout")
	f.addExerciseLog(intPtr(100), nil, nil, nil, nil)

	if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Failed counts degrade to zero prescribed, so the day reports as
	// vacuously complete rather than failing the aggregation.
	summary := f.storedSummary(t)
	if summary.ExerciseCompletionRate != 0 || !summary.AllExercisesCompleted {
		t.Errorf("expected degraded vacuous summary, got rate %d completed %v",
			summary.ExerciseCompletionRate, summary.AllExercisesCompleted)
	}
}

func TestRecomputeDailySummaryPainAndRPEMetrics(t *testing.T) {
	f := newSummaryFixture(2, 0, 0)
	// Post-session pain preferred; pre-session used as fallback.
	f.addExerciseLog(intPtr(100), intPtr(8), intPtr(4), intPtr(6), nil)
	f.addExerciseLog(intPtr(100), intPtr(6), nil, intPtr(7), nil)

	if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := f.storedSummary(t)
	if summary.AvgPainScore == nil || *summary.AvgPainScore != 5 {
		t.Fatalf("expected avg pain 5, got %v", summary.AvgPainScore)
	}
	if summary.Metrics["total_exercises"] != 2 {
		t.Errorf("expected total_exercises 2, got %v", summary.Metrics["total_exercises"])
	}
	if summary.Metrics["avg_rpe"] != 6.5 {
		t.Errorf("expected avg_rpe 6.5, got %v", summary.Metrics["avg_rpe"])
	}
}

func TestRecomputeDailySummaryIsIdempotent(t *testing.T) {
	f := newSummaryFixture(2, 0, 0)
	f.addExerciseLog(intPtr(100), nil, nil, nil, nil)

	for i := 0; i < 3; i++ {
		if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
			t.Fatalf("unexpected error on run %d: %v", i, err)
		}
	}

	if len(f.summaryRepo.summaries) != 1 {
		t.Errorf("expected a single summary row, got %d", len(f.summaryRepo.summaries))
	}
	summary := f.storedSummary(t)
	if summary.ExerciseCompletionRate != 50 {
		t.Errorf("expected exercise rate 50, got %d", summary.ExerciseCompletionRate)
	}
}

func TestRecomputeDailySummaryDispatchesRates(t *testing.T) {
	f := newSummaryFixture(1, 1, 0)
	f.addExerciseLog(intPtr(90), nil, nil, nil, nil)
	f.medicationRepo.logs = append(f.medicationRepo.logs,
		models.MedicationLog{UserID: f.userID, Taken: true, TakenAt: f.day.Add(9 * time.Hour)})

	if err := f.service.RecomputeDailySummary(context.Background(), f.userID, f.day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.dispatcher.updates) != 1 {
		t.Fatalf("expected one streak dispatch, got %d", len(f.dispatcher.updates))
	}
	update := f.dispatcher.updates[0]
	if update.UserID != f.userID {
		t.Errorf("dispatched wrong user: %s", update.UserID)
	}
	if !update.Day.Equal(f.day) {
		t.Errorf("dispatched wrong day: %s", update.Day)
	}
	if update.ExerciseRate != 100 || update.MedicationRate != 100 {
		t.Errorf("expected 100/100 rates, got %d/%d", update.ExerciseRate, update.MedicationRate)
	}
}
