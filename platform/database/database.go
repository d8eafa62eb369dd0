// Package database opens the relational store backing profiles and products.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/weavelink/weavelink/config"
	"github.com/weavelink/weavelink/models"
)

// Open connects to postgres through lib/pq and wraps the pool in gorm.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLife)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         NewLogger(log, cfg.DBSlowThreshold),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: gorm: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the profiles and products tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Profile{}, &models.Product{}); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

// NewLogger routes gorm's logging through zap: slow queries and errors only.
func NewLogger(log *zap.Logger, slow time.Duration) logger.Interface {
	if log == nil {
		return logger.Discard
	}
	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
