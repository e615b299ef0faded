package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rehab plan lifecycle states
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusCancelled = "cancelled"
)

// User represents a user in the system
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RehabPlan represents a prescribed rehabilitation plan. A user has at most
// one plan with status "active"; completion rates are measured against it.
type RehabPlan struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string     `gorm:"not null" json:"name"`
	Status    string     `gorm:"not null;default:active;index" json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p *RehabPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ExercisePlanItem is a single prescribed exercise within a plan
type ExercisePlanItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RehabPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"rehab_plan_id"`
	Name        string    `gorm:"not null" json:"name"`
	Sets        int       `json:"sets"`
	Reps        int       `json:"reps"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *ExercisePlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// MedicationPlanItem is a single prescribed medication within a plan
type MedicationPlanItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RehabPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"rehab_plan_id"`
	Name        string    `gorm:"not null" json:"name"`
	Dosage      string    `json:"dosage"`
	TimesPerDay int       `json:"times_per_day"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *MedicationPlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DietPlanItem is a single prescribed meal within a plan
type DietPlanItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RehabPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"rehab_plan_id"`
	Name        string    `gorm:"not null" json:"name"`
	MealType    string    `json:"meal_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *DietPlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ExerciseLog records one performed exercise session
type ExerciseLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_exercise_log_user_time" json:"user_id"`
	ExerciseItemID *uuid.UUID `gorm:"type:uuid" json:"exercise_item_id,omitempty"`
	CompletionRate *int       `json:"completion_rate,omitempty"`       // self-reported, 0-100
	PainBefore     *int       `json:"pain_before,omitempty"`           // 1-10
	PainAfter      *int       `json:"pain_after,omitempty"`            // 1-10
	RPE            *int       `gorm:"column:rpe" json:"rpe,omitempty"` // perceived exertion, 1-10
	DurationSec    *int       `json:"duration_sec,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	LoggedAt       time.Time  `gorm:"not null;index:idx_exercise_log_user_time" json:"logged_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (l *ExerciseLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// MedicationLog records one medication intake event
type MedicationLog struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_medication_log_user_time" json:"user_id"`
	MedicationItemID *uuid.UUID `gorm:"type:uuid" json:"medication_item_id,omitempty"`
	Taken            bool       `gorm:"not null" json:"taken"`
	Notes            *string    `json:"notes,omitempty"`
	TakenAt          time.Time  `gorm:"not null;index:idx_medication_log_user_time" json:"taken_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (l *MedicationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// DietLog records one meal event
type DietLog struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_diet_log_user_time" json:"user_id"`
	DietItemID      *uuid.UUID `gorm:"type:uuid" json:"diet_item_id,omitempty"`
	Completed       *bool      `json:"completed,omitempty"`
	PortionConsumed *int       `json:"portion_consumed,omitempty"` // percent, 0-100
	Notes           *string    `json:"notes,omitempty"`
	LoggedAt        time.Time  `gorm:"not null;index:idx_diet_log_user_time" json:"logged_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (l *DietLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// DailySummary aggregates one calendar day of activity for a user.
// Unique on (user_id, date); derived fields are fully recomputed and
// overwritten on every log event for that day.
type DailySummary struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_summary_user_date" json:"user_id"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_daily_summary_user_date" json:"date"`

	AllExercisesCompleted    bool `gorm:"not null" json:"all_exercises_completed"`
	ExerciseCompletionRate   int  `gorm:"not null" json:"exercise_completion_rate"`
	AllMedicationsTaken      bool `gorm:"not null" json:"all_medications_taken"`
	MedicationCompletionRate int  `gorm:"not null" json:"medication_completion_rate"`
	AllDietCompleted         bool `gorm:"not null" json:"all_diet_completed"`
	DietCompletionRate       int  `gorm:"not null" json:"diet_completion_rate"`

	AvgPainScore     *int `json:"avg_pain_score,omitempty"` // 1-10, nil when no log reports pain
	TotalDurationSec int  `gorm:"not null" json:"total_duration_sec"`

	// Open-ended metrics, e.g. {"total_exercises": 3, "avg_rpe": 5.0}
	Metrics datatypes.JSONMap `gorm:"type:jsonb" json:"metrics,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *DailySummary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// UserStreak is the per-user streak snapshot: exactly one row per user,
// updated whenever a daily summary is confirmed and by the stale sweep.
type UserStreak struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CurrentStreak  int       `gorm:"not null" json:"current_streak"`
	MaxStreak      int       `gorm:"not null" json:"max_streak"`
	LastActiveDate time.Time `gorm:"not null;index" json:"last_active_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
