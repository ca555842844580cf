package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/config"
	logging "github.com/Abhishekabysm/dynamic-survey-builder/internal/logging"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

// Init opens the Postgres connection and runs migrations.
func Init(log *zap.Logger) (*gorm.DB, error) {
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logging.NewGormZapLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.")
	if err := runMigrations(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func runMigrations(db *gorm.DB, log *zap.Logger) error {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := db.AutoMigrate(
		&models.User{},
		&models.Survey{},
		&models.Response{},
	)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	// Responses are only ever queried by survey and ordered by submission
	// time, so one composite index covers both list and count.
	responsesIndex := `CREATE INDEX IF NOT EXISTS idx_responses_survey_submitted ON responses (survey_id, submitted_at);`
	if err := db.Exec(responsesIndex).Error; err != nil {
		return fmt.Errorf("failed to create custom index on responses table: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
