package db

import (
	"context"
	"fmt"
	"news-cms/internal/config"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var AppDb *gorm.DB

func ConnectDb() error {
	dsn := fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=disable",
		config.AppConfig.DBHost,
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBName,
		config.AppConfig.DBPort,
	)

	level := logger.Info
	if config.AppConfig.Environment == "production" {
		level = logger.Error
	}
	newLogger := logger.New(
		&log.Logger, // zerolog satisfies logger.Writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,       // Log level
			IgnoreRecordNotFoundError: true,
			Colorful:                  config.AppConfig.Environment == "development",
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("error connecting to db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	AppDb = db
	log.Info().Str("host", config.AppConfig.DBHost).Str("db", config.AppConfig.DBName).Msg("Success connecting to db")

	return nil
}

// Ping checks the database is reachable, used by the health endpoint.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func CloseDb() {
	sqlDB, err := AppDb.DB()
	if err != nil {
		log.Error().Err(err).Msg("failed to get sql db")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close db")
		return
	}
	log.Info().Msg("Closing DB")
}
