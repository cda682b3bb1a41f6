package database

import (
	"fmt"

	"calendar-planner-api/internal/logging"
	"calendar-planner-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the SQLite database at path and runs migrations.
// glebarez/sqlite is a pure Go implementation (no CGO required).
func InitDB(path string) error {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel()),
	})
	if err != nil {
		return fmt.Errorf("connect to database %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	logging.Info().Str("path", path).Msg("database connected and migrated")
	return nil
}

// Migrate creates or updates the tables the planner uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}

// gormLogLevel maps the application log level onto gorm's.
func gormLogLevel() logger.LogLevel {
	switch logging.Get().GetLevel() {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return logger.Info
	case zerolog.InfoLevel, zerolog.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
