// Package database opens the PostgreSQL connection and keeps the schema in sync
// with the models.
package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"prono-league/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL. Constraint violations are translated into GORM's
// error values so services can match gorm.ErrDuplicatedKey.
func Open(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         NewLogger(log),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("database connected")
	return db, nil
}

// slowQuery is the duration above which GORM reports a query as slow.
const slowQuery = 200 * time.Millisecond

// NewLogger routes GORM's warnings, errors and slow queries into the service
// logger. Missing records are expected and stay silent.
func NewLogger(log *slog.Logger) logger.Interface {
	return logger.New(slogWriter{log: log.With("component", "gorm")}, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Match{},
		&models.MatchPlayer{},
		&models.Prediction{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
