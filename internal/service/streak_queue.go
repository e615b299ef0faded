package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcha311/rehab-backend/internal/logger"
)

// StreakUpdate carries the streak side effect of one summary write.
type StreakUpdate struct {
	UserID         uuid.UUID
	Day            time.Time
	ExerciseRate   int
	MedicationRate int
}

// StreakUpdateQueue applies streak updates asynchronously with bounded
// retries. Dispatch never blocks the summary write: when the buffer is
// full the update is applied inline instead of being dropped.
type StreakUpdateQueue struct {
	streaks StreakService
	updates chan StreakUpdate

	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

// NewStreakUpdateQueue creates a queue with the given buffer size.
func NewStreakUpdateQueue(streaks StreakService, size int) *StreakUpdateQueue {
	if size <= 0 {
		size = 256
	}
	return &StreakUpdateQueue{
		streaks:     streaks,
		updates:     make(chan StreakUpdate, size),
		maxAttempts: 3,
		backoff:     200 * time.Millisecond,
		timeout:     10 * time.Second,
		done:        make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (q *StreakUpdateQueue) Start() {
	q.wg.Add(1)
	go q.run()
}

// Stop drains buffered updates and waits for the worker to exit.
func (q *StreakUpdateQueue) Stop() {
	close(q.done)
	q.wg.Wait()
}

func (q *StreakUpdateQueue) Dispatch(update StreakUpdate) {
	select {
	case q.updates <- update:
	default:
		logger.Warn("streak update queue full, applying synchronously",
			logger.String("user_id", update.UserID.String()),
			logger.Int("queue_depth", len(q.updates)),
		)
		q.apply(update)
	}
}

func (q *StreakUpdateQueue) run() {
	defer q.wg.Done()
	for {
		select {
		case update := <-q.updates:
			q.apply(update)
		case <-q.done:
			for {
				select {
				case update := <-q.updates:
					q.apply(update)
				default:
					return
				}
			}
		}
	}
}

func (q *StreakUpdateQueue) apply(update StreakUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		err = q.streaks.AdvanceOrReset(ctx, update.UserID, update.Day, update.ExerciseRate, update.MedicationRate)
		if err == nil {
			return
		}
		if attempt < q.maxAttempts {
			time.Sleep(q.backoff * time.Duration(attempt))
		}
	}

	logger.Error("streak update failed after retries",
		logger.Err(err),
		logger.String("user_id", update.UserID.String()),
		logger.Time("day", update.Day),
		logger.Int("attempts", q.maxAttempts),
		logger.Int("queue_depth", len(q.updates)),
	)
}
