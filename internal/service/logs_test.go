package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/models"
)

type logsFixture struct {
	planRepo       *mockPlanRepository
	exerciseRepo   *mockExerciseLogRepository
	medicationRepo *mockMedicationLogRepository
	dietRepo       *mockDietLogRepository
	summaryRepo    *mockDailySummaryRepository
	service        ActivityLogService
	userID         uuid.UUID
}

func newLogsFixture() *logsFixture {
	userID := uuid.New()
	f := &logsFixture{
		planRepo: &mockPlanRepository{
			plan:          &models.RehabPlan{ID: uuid.New(), UserID: userID, Status: models.PlanStatusActive},
			exerciseItems: 1,
		},
		exerciseRepo:   &mockExerciseLogRepository{},
		medicationRepo: &mockMedicationLogRepository{},
		dietRepo:       &mockDietLogRepository{},
		summaryRepo:    newMockDailySummaryRepository(),
		userID:         userID,
	}
	summaries := NewSummaryService(f.planRepo, f.exerciseRepo, f.medicationRepo, f.dietRepo, f.summaryRepo, &recordingDispatcher{})
	f.service = NewActivityLogService(f.planRepo, f.exerciseRepo, f.medicationRepo, f.dietRepo, summaries)
	return f
}

func TestCreateExerciseLogPersistsAndRecomputes(t *testing.T) {
	f := newLogsFixture()
	loggedAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	created, err := f.service.CreateExerciseLog(context.Background(), f.userID, &models.CreateExerciseLogRequest{
		CompletionRate: intPtr(90),
		DurationSec:    intPtr(600),
		LoggedAt:       &loggedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected assigned log ID")
	}
	if f.exerciseRepo.createCalls != 1 {
		t.Errorf("expected one create, got %d", f.exerciseRepo.createCalls)
	}

	summary, err := f.summaryRepo.GetByUserAndDate(context.Background(), f.userID, loggedAt)
	if err != nil {
		t.Fatalf("expected summary for the log's day: %v", err)
	}
	if summary.ExerciseCompletionRate != 100 {
		t.Errorf("expected exercise rate 100, got %d", summary.ExerciseCompletionRate)
	}
}

func TestCreateMedicationLogRecomputesTakenDay(t *testing.T) {
	f := newLogsFixture()
	f.planRepo.medicationItems = 2
	takenAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := f.service.CreateMedicationLog(context.Background(), f.userID, &models.CreateMedicationLogRequest{
		Taken:   true,
		TakenAt: &takenAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := f.summaryRepo.GetByUserAndDate(context.Background(), f.userID, takenAt)
	if err != nil {
		t.Fatalf("expected summary for the log's day: %v", err)
	}
	if summary.MedicationCompletionRate != 50 {
		t.Errorf("expected medication rate 50, got %d", summary.MedicationCompletionRate)
	}
}

func TestCreateDietLogDefaultsToNow(t *testing.T) {
	f := newLogsFixture()
	f.planRepo.dietItems = 1

	created, err := f.service.CreateDietLog(context.Background(), f.userID, &models.CreateDietLogRequest{
		Completed: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.LoggedAt.IsZero() {
		t.Error("expected logged-at defaulted to now")
	}
	if _, err := f.summaryRepo.GetByUserAndDate(context.Background(), f.userID, created.LoggedAt); err != nil {
		t.Errorf("expected summary for today: %v", err)
	}
}

func TestCreateLogRejectedWithoutActivePlan(t *testing.T) {
	f := newLogsFixture()
	f.planRepo.plan = nil

	_, err := f.service.CreateExerciseLog(context.Background(), f.userID, &models.CreateExerciseLogRequest{
		CompletionRate: intPtr(90),
	})
	if !errors.Is(err, ErrNoActivePlan) {
		t.Fatalf("expected ErrNoActivePlan, got: %v", err)
	}
	if f.exerciseRepo.createCalls != 0 {
		t.Errorf("expected no log written, got %d creates", f.exerciseRepo.createCalls)
	}
}

func TestCreateLogSurvivesRecomputeFailure(t *testing.T) {
	f := newLogsFixture()
	f.summaryRepo.upsertErr = errors.New("store unavailable")

	created, err := f.service.CreateExerciseLog(context.Background(), f.userID, &models.CreateExerciseLogRequest{
		CompletionRate: intPtr(90),
	})
	if err != nil {
		t.Fatalf("log write must not fail on recompute errors, got: %v", err)
	}
	if created == nil || created.ID == uuid.Nil {
		t.Error("expected persisted log despite recompute failure")
	}
}
