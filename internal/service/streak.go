package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/cache"
	"github.com/mcha311/rehab-backend/internal/logger"
	"github.com/mcha311/rehab-backend/internal/models"
	"github.com/mcha311/rehab-backend/internal/repository"
)

// A day keeps the streak alive when either rehab domain clears its
// threshold. Diet does not participate.
const (
	exerciseStreakThreshold   = 60
	medicationStreakThreshold = 70
)

func qualifiesForStreak(exerciseRate, medicationRate int) bool {
	return exerciseRate >= exerciseStreakThreshold || medicationRate >= medicationStreakThreshold
}

type streakService struct {
	streakRepo  repository.StreakRepository
	summaryRepo repository.DailySummaryRepository
	cache       *cache.StreakCache

	// userLocks serializes read-modify-write streak updates per user.
	userLocks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewStreakService creates a new streak service. cache may be nil when
// redis is not configured.
func NewStreakService(streakRepo repository.StreakRepository, summaryRepo repository.DailySummaryRepository, streakCache *cache.StreakCache) StreakService {
	return &streakService{
		streakRepo:  streakRepo,
		summaryRepo: summaryRepo,
		cache:       streakCache,
	}
}

func (s *streakService) userLock(userID uuid.UUID) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *streakService) AdvanceOrReset(ctx context.Context, userID uuid.UUID, day time.Time, exerciseRate, medicationRate int) error {
	day = models.Day(day)

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	streak, err := s.streakRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		streak, err = s.streakRepo.Create(ctx, &models.UserStreak{
			UserID:         userID,
			LastActiveDate: models.Today(),
		})
	}
	if err != nil {
		return fmt.Errorf("failed to load streak: %w", err)
	}

	last := models.Day(streak.LastActiveDate)
	if day.Before(last) {
		logger.Ctx(ctx).Warn("ignoring streak update for out-of-order day",
			logger.String("user_id", userID.String()),
			logger.Time("day", day),
			logger.Time("last_active_date", last),
		)
		return nil
	}

	if qualifiesForStreak(exerciseRate, medicationRate) {
		switch models.DaysBetween(last, day) {
		case 0:
			// Already counted for this day.
		case 1:
			streak.CurrentStreak++
		default:
			streak.CurrentStreak = 1
		}
		streak.LastActiveDate = day
		if streak.CurrentStreak > streak.MaxStreak {
			streak.MaxStreak = streak.CurrentStreak
		}
	} else {
		if models.SameDay(last, day) {
			return nil
		}
		streak.CurrentStreak = 0
		streak.LastActiveDate = day
	}

	if err := s.streakRepo.Save(ctx, streak); err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *streakService) GetStreak(ctx context.Context, userID uuid.UUID, rangeDays int) (*models.StreakResponse, error) {
	streak, err := s.loadOrZero(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.activityHistory(ctx, userID, rangeDays)
	if err != nil {
		return nil, err
	}
	return models.NewStreakResponse(streak, history), nil
}

func (s *streakService) GetStreakSimple(ctx context.Context, userID uuid.UUID) (*models.StreakResponse, error) {
	if cached, err := s.cache.Get(ctx, userID); err != nil {
		logger.Ctx(ctx).Warn("streak cache read failed", logger.Err(err))
	} else if cached != nil {
		return cached, nil
	}

	streak, err := s.loadOrZero(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := models.NewStreakResponse(streak, nil)

	if err := s.cache.Set(ctx, userID, resp); err != nil {
		logger.Ctx(ctx).Warn("streak cache write failed", logger.Err(err))
	}
	return resp, nil
}

func (s *streakService) CleanupStaleStreaks(ctx context.Context) (int, error) {
	today := models.Today()

	candidates, err := s.streakRepo.FindStale(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to find stale streaks: %w", err)
	}

	reset := 0
	for _, candidate := range candidates {
		ok, err := s.resetIfBroken(ctx, candidate.UserID, today)
		if err != nil {
			logger.Ctx(ctx).Error("failed to reset stale streak",
				logger.String("user_id", candidate.UserID.String()),
				logger.Err(err),
			)
			continue
		}
		if ok {
			reset++
		}
	}

	logger.Ctx(ctx).Info("stale streak sweep finished",
		logger.Int("candidates", len(candidates)),
		logger.Int("reset", reset),
	)
	return reset, nil
}

// resetIfBroken re-reads the streak under the user's lock so a concurrent
// advance between the sweep query and the reset is never overwritten.
func (s *streakService) resetIfBroken(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	streak, err := s.streakRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	// A streak last active yesterday is not broken yet.
	if models.DaysBetween(models.Day(streak.LastActiveDate), today) <= 1 || streak.CurrentStreak == 0 {
		return false, nil
	}

	streak.CurrentStreak = 0
	streak.LastActiveDate = today
	if err := s.streakRepo.Save(ctx, streak); err != nil {
		return false, err
	}
	s.invalidateCache(ctx, userID)
	return true, nil
}

func (s *streakService) CountActiveStreaks(ctx context.Context) (int64, error) {
	return s.streakRepo.CountActive(ctx)
}

// loadOrZero returns the stored streak, or a zero-valued one for users
// who have never generated a summary.
func (s *streakService) loadOrZero(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error) {
	streak, err := s.streakRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.UserStreak{UserID: userID, LastActiveDate: models.Today()}, nil
		}
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	return streak, nil
}

// activityHistory reconstructs the last rangeDays days ending today. Days
// without a summary row are synthesized with zero rates so the client
// always receives exactly rangeDays entries in ascending date order.
func (s *streakService) activityHistory(ctx context.Context, userID uuid.UUID, rangeDays int) ([]models.ActivityHistoryEntry, error) {
	today := models.Today()
	start := today.AddDate(0, 0, -(rangeDays - 1))

	summaries, err := s.summaryRepo.GetByUserAndDateRange(ctx, userID, start, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load summaries for history: %w", err)
	}

	byDay := make(map[string]*models.DailySummary, len(summaries))
	for i := range summaries {
		byDay[summaries[i].Date.Format(models.DateLayout)] = &summaries[i]
	}

	entries := make([]models.ActivityHistoryEntry, 0, rangeDays)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateLayout)
		entry := models.ActivityHistoryEntry{Date: key}
		if summary, ok := byDay[key]; ok {
			entry.ExerciseCompletionRate = summary.ExerciseCompletionRate
			entry.MedicationCompletionRate = summary.MedicationCompletionRate
			entry.IsActive = qualifiesForStreak(summary.ExerciseCompletionRate, summary.MedicationCompletionRate)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *streakService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Ctx(ctx).Warn("streak cache invalidation failed",
			logger.String("user_id", userID.String()), logger.Err(err))
	}
}
