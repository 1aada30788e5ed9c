package database

import (
	"fmt"
	"log"
	"time"

	"price-tracker/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		databaseURL = "data.db"
	}

	db, err := gorm.Open(sqlite.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Migrations: ensure the price_records table exists
	if err := db.AutoMigrate(&models.PriceRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate price_records: %w", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}
