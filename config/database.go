package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/flashcards-web/models"
)

// Connect opens Postgres when DB_URL is set and a local SQLite file
// otherwise, then migrates the preview slot table.
func Connect(env Environment) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if env.DBURL != "" {
		dialector = postgres.Open(env.DBURL)
	} else {
		dialector = sqlite.Open(env.SQLitePath)
	}
	return Open(dialector, env.IsDevelopment)
}

func Open(dialector gorm.Dialector, verbose bool) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&models.PreviewSlot{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return db, nil
}
