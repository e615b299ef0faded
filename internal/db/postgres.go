// Package db opens and migrates the backing Postgres database.
package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcha311/rehab-backend/internal/logger"
	"github.com/mcha311/rehab-backend/internal/models"
)

// Open connects to Postgres with the given DSN and returns a gorm handle
func Open(dsn string) (*gorm.DB, error) {
	log := logger.Default()

	log.Info("connecting to postgres")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return gdb, nil
}

// AutoMigrate creates or updates the schema for all persisted models
func AutoMigrate(gdb *gorm.DB) error {
	logger.Default().Info("running schema migration")
	return gdb.AutoMigrate(
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
}
