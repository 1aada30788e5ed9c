package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL string
	FeedURL     string
	// Local copy of the downloaded feed, written before parsing so a bad run
	// can be replayed. Empty disables the snapshot.
	FeedSnapshotPath string
	Port             string
	Environment      string
	// RetentionDays prunes observations older than N days after a successful
	// ingestion run. 0 keeps the full history forever.
	RetentionDays int
}

func Load() *Config {
	retention, err := strconv.Atoi(getEnv("RETENTION_DAYS", "0"))
	if err != nil || retention < 0 {
		retention = 0
	}

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "data.db"),
		FeedURL:          getEnv("FEED_URL", "https://www.provence-outillage.fr/csv/marketplace/mp.prices.csv"),
		FeedSnapshotPath: getEnv("FEED_SNAPSHOT_PATH", "mp.prices.csv"),
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		RetentionDays:    retention,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
