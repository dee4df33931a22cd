package infra

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"angido/internal/config"
	"angido/internal/models/db_models"
)

func InitPostgresql(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("connected to postgres")
	return db, nil
}

// Migrate creates the pgvector extension and brings every table up to date.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}

	return db.AutoMigrate(
		&db_models.Account{},
		&db_models.Province{},
		&db_models.Tag{},
		&db_models.Place{},
		&db_models.PlaceEmbedding{},
		&db_models.Review{},
		&db_models.Itinerary{},
		&db_models.ItineraryDay{},
		&db_models.ItineraryActivity{},
		&db_models.AISuggestion{},
		&db_models.AIUsage{},
		&db_models.Plan{},
		&db_models.Subscription{},
		&db_models.Transaction{},
	)
}

func ClosePostgresql(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func StartTransaction(db *gorm.DB) *gorm.DB {
	tx := db.Begin()
	if tx.Error != nil {
		zap.L().Error("error starting transaction", zap.Error(tx.Error))
	}
	return tx
}

// ReleaseTransaction commits tx when err is nil and rolls it back otherwise.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			zap.L().Error("error rolling back transaction", zap.Error(rollbackErr))
		}
		return err
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		zap.L().Error("error committing transaction", zap.Error(commitErr))
		return commitErr
	}
	return nil
}
