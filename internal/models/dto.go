package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CreateExerciseLogRequest represents the request to log an exercise session
type CreateExerciseLogRequest struct {
	ExerciseItemID *uuid.UUID `json:"exercise_item_id"`
	CompletionRate *int       `json:"completion_rate" binding:"omitempty,min=0,max=100"`
	PainBefore     *int       `json:"pain_before" binding:"omitempty,min=1,max=10"`
	PainAfter      *int       `json:"pain_after" binding:"omitempty,min=1,max=10"`
	RPE            *int       `json:"rpe" binding:"omitempty,min=1,max=10"`
	DurationSec    *int       `json:"duration_sec" binding:"omitempty,min=0"`
	Notes          *string    `json:"notes"`
	LoggedAt       *time.Time `json:"logged_at"`
}

// CreateMedicationLogRequest represents the request to log a medication intake
type CreateMedicationLogRequest struct {
	MedicationItemID *uuid.UUID `json:"medication_item_id"`
	Taken            bool       `json:"taken"`
	Notes            *string    `json:"notes"`
	TakenAt          *time.Time `json:"taken_at"`
}

// CreateDietLogRequest represents the request to log a meal
type CreateDietLogRequest struct {
	DietItemID      *uuid.UUID `json:"diet_item_id"`
	Completed       *bool      `json:"completed"`
	PortionConsumed *int       `json:"portion_consumed" binding:"omitempty,min=0,max=100"`
	Notes           *string    `json:"notes"`
	LoggedAt        *time.Time `json:"logged_at"`
}

// RecomputeSummaryRequest triggers aggregation for the day containing Timestamp
type RecomputeSummaryRequest struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

// DailySummaryResponse is the read-side shape of a daily summary
type DailySummaryResponse struct {
	ID                       uuid.UUID         `json:"id"`
	UserID                   uuid.UUID         `json:"user_id"`
	Date                     string            `json:"date"` // YYYY-MM-DD
	AllExercisesCompleted    bool              `json:"all_exercises_completed"`
	ExerciseCompletionRate   int               `json:"exercise_completion_rate"`
	AllMedicationsTaken      bool              `json:"all_medications_taken"`
	MedicationCompletionRate int               `json:"medication_completion_rate"`
	AllDietCompleted         bool              `json:"all_diet_completed"`
	DietCompletionRate       int               `json:"diet_completion_rate"`
	AvgPainScore             *int              `json:"avg_pain_score,omitempty"`
	TotalDurationSec         int               `json:"total_duration_sec"`
	Metrics                  datatypes.JSONMap `json:"metrics,omitempty"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// NewDailySummaryResponse converts a stored summary to its response shape
func NewDailySummaryResponse(s *DailySummary) *DailySummaryResponse {
	return &DailySummaryResponse{
		ID:                       s.ID,
		UserID:                   s.UserID,
		Date:                     s.Date.Format(DateLayout),
		AllExercisesCompleted:    s.AllExercisesCompleted,
		ExerciseCompletionRate:   s.ExerciseCompletionRate,
		AllMedicationsTaken:      s.AllMedicationsTaken,
		MedicationCompletionRate: s.MedicationCompletionRate,
		AllDietCompleted:         s.AllDietCompleted,
		DietCompletionRate:       s.DietCompletionRate,
		AvgPainScore:             s.AvgPainScore,
		TotalDurationSec:         s.TotalDurationSec,
		Metrics:                  s.Metrics,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
	}
}

// ActivityHistoryEntry is one day of the gap-filled activity history.
// Days without a daily summary are synthesized with zero rates.
type ActivityHistoryEntry struct {
	Date                     string `json:"date"` // YYYY-MM-DD
	IsActive                 bool   `json:"is_active"`
	ExerciseCompletionRate   int    `json:"exercise_completion_rate"`
	MedicationCompletionRate int    `json:"medication_completion_rate"`
}

// StreakResponse is the streak read model for the home screen and history view
type StreakResponse struct {
	CurrentStreak   int                    `json:"current_streak"`
	MaxStreak       int                    `json:"max_streak"`
	LastActiveDate  string                 `json:"last_active_date"` // YYYY-MM-DD
	ActivityHistory []ActivityHistoryEntry `json:"activity_history,omitempty"`
}

// NewStreakResponse converts a streak row to its response shape
func NewStreakResponse(s *UserStreak, history []ActivityHistoryEntry) *StreakResponse {
	return &StreakResponse{
		CurrentStreak:   s.CurrentStreak,
		MaxStreak:       s.MaxStreak,
		LastActiveDate:  s.LastActiveDate.Format(DateLayout),
		ActivityHistory: history,
	}
}
