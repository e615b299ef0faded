package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcha311/rehab-backend/internal/models"
)

// newTestDB opens an in-memory sqlite database migrated with the full
// schema. A single connection keeps the in-memory database alive for
// the duration of the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.RehabPlan{},
		&models.ExercisePlanItem{},
		&models.MedicationPlanItem{},
		&models.DietPlanItem{},
		&models.ExerciseLog{},
		&models.MedicationLog{},
		&models.DietLog{},
		&models.DailySummary{},
		&models.UserStreak{},
	)
	require.NoError(t, err)

	return gdb
}
