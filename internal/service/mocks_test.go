package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/models"
	"github.com/mcha311/rehab-backend/internal/repository"
)

// mockPlanRepository is a mock implementation of PlanRepository for testing
type mockPlanRepository struct {
	plan            *models.RehabPlan
	exerciseItems   int64
	medicationItems int64
	dietItems       int64

	planErr  error
	countErr error
}

func (m *mockPlanRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.RehabPlan, error) {
	if m.planErr != nil {
		return nil, m.planErr
	}
	if m.plan == nil {
		return nil, repository.ErrNotFound
	}
	return m.plan, nil
}

func (m *mockPlanRepository) CountExerciseItems(ctx context.Context, planID uuid.UUID) (int64, error) {
	return m.exerciseItems, m.countErr
}

func (m *mockPlanRepository) CountMedicationItems(ctx context.Context, planID uuid.UUID) (int64, error) {
	return m.medicationItems, m.countErr
}

func (m *mockPlanRepository) CountDietItems(ctx context.Context, planID uuid.UUID) (int64, error) {
	return m.dietItems, m.countErr
}

// mockExerciseLogRepository is a mock implementation of ExerciseLogRepository
type mockExerciseLogRepository struct {
	logs        []models.ExerciseLog
	createCalls int
	rangeErr    error
}

func (m *mockExerciseLogRepository) Create(ctx context.Context, log *models.ExerciseLog) (*models.ExerciseLog, error) {
	m.createCalls++
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	m.logs = append(m.logs, *log)
	return log, nil
}

func (m *mockExerciseLogRepository) GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.ExerciseLog, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	var result []models.ExerciseLog
	for _, l := range m.logs {
		if l.UserID == userID && !l.LoggedAt.Before(start) && l.LoggedAt.Before(end) {
			result = append(result, l)
		}
	}
	return result, nil
}

// mockMedicationLogRepository is a mock implementation of MedicationLogRepository
type mockMedicationLogRepository struct {
	logs        []models.MedicationLog
	createCalls int
}

func (m *mockMedicationLogRepository) Create(ctx context.Context, log *models.MedicationLog) (*models.MedicationLog, error) {
	m.createCalls++
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	m.logs = append(m.logs, *log)
	return log, nil
}

func (m *mockMedicationLogRepository) GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.MedicationLog, error) {
	var result []models.MedicationLog
	for _, l := range m.logs {
		if l.UserID == userID && !l.TakenAt.Before(start) && l.TakenAt.Before(end) {
			result = append(result, l)
		}
	}
	return result, nil
}

// mockDietLogRepository is a mock implementation of DietLogRepository
type mockDietLogRepository struct {
	logs        []models.DietLog
	createCalls int
}

func (m *mockDietLogRepository) Create(ctx context.Context, log *models.DietLog) (*models.DietLog, error) {
	m.createCalls++
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	m.logs = append(m.logs, *log)
	return log, nil
}

func (m *mockDietLogRepository) GetByUserAndTimeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.DietLog, error) {
	var result []models.DietLog
	for _, l := range m.logs {
		if l.UserID == userID && !l.LoggedAt.Before(start) && l.LoggedAt.Before(end) {
			result = append(result, l)
		}
	}
	return result, nil
}

// mockDailySummaryRepository is a mock implementation of DailySummaryRepository
type mockDailySummaryRepository struct {
	summaries   map[string]*models.DailySummary // userID|date -> summary
	upsertCalls int
	upsertErr   error
}

func newMockDailySummaryRepository() *mockDailySummaryRepository {
	return &mockDailySummaryRepository{summaries: make(map[string]*models.DailySummary)}
}

func summaryKey(userID uuid.UUID, date time.Time) string {
	return userID.String() + "|" + models.Day(date).Format(models.DateLayout)
}

func (m *mockDailySummaryRepository) Upsert(ctx context.Context, summary *models.DailySummary) (*models.DailySummary, error) {
	m.upsertCalls++
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	summary.Date = models.Day(summary.Date)
	key := summaryKey(summary.UserID, summary.Date)
	if existing, ok := m.summaries[key]; ok {
		summary.ID = existing.ID
		summary.CreatedAt = existing.CreatedAt
	} else if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	stored := *summary
	m.summaries[key] = &stored
	return &stored, nil
}

func (m *mockDailySummaryRepository) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailySummary, error) {
	if summary, ok := m.summaries[summaryKey(userID, date)]; ok {
		return summary, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockDailySummaryRepository) GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.DailySummary, error) {
	var result []models.DailySummary
	for d := models.Day(start); !d.After(models.Day(end)); d = d.AddDate(0, 0, 1) {
		if summary, ok := m.summaries[summaryKey(userID, d)]; ok {
			result = append(result, *summary)
		}
	}
	return result, nil
}

// mockStreakRepository is a mock implementation of StreakRepository
type mockStreakRepository struct {
	streaks   map[uuid.UUID]*models.UserStreak
	saveCalls int
	saveErr   error
	getErr    error
}

func newMockStreakRepository() *mockStreakRepository {
	return &mockStreakRepository{streaks: make(map[uuid.UUID]*models.UserStreak)}
}

func (m *mockStreakRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if streak, ok := m.streaks[userID]; ok {
		copied := *streak
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockStreakRepository) Create(ctx context.Context, streak *models.UserStreak) (*models.UserStreak, error) {
	stored := *streak
	m.streaks[streak.UserID] = &stored
	copied := stored
	return &copied, nil
}

func (m *mockStreakRepository) Save(ctx context.Context, streak *models.UserStreak) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	stored := *streak
	m.streaks[streak.UserID] = &stored
	return nil
}

func (m *mockStreakRepository) FindStale(ctx context.Context, today time.Time) ([]models.UserStreak, error) {
	var result []models.UserStreak
	for _, streak := range m.streaks {
		if models.Day(streak.LastActiveDate).Before(models.Day(today)) && streak.CurrentStreak > 0 {
			result = append(result, *streak)
		}
	}
	return result, nil
}

func (m *mockStreakRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	for _, streak := range m.streaks {
		if streak.CurrentStreak > 0 {
			count++
		}
	}
	return count, nil
}

// recordingDispatcher captures dispatched streak updates
type recordingDispatcher struct {
	updates []StreakUpdate
}

func (d *recordingDispatcher) Dispatch(update StreakUpdate) {
	d.updates = append(d.updates, update)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
