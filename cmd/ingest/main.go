package main

import (
	"flag"
	"log"

	"price-tracker/internal/config"
	"price-tracker/internal/database"
	"price-tracker/internal/feed"
	"price-tracker/internal/ingest"
	"price-tracker/internal/store"

	"github.com/joho/godotenv"
)

var (
	feedURL = flag.String("feed", "", "feed URL (overrides FEED_URL)")
	dbURL   = flag.String("db", "", "database path (overrides DATABASE_URL)")
)

// One-shot ingestion job: meant to be invoked by an external scheduler
// (cron). Concurrent runs against the same database are not supported; the
// scheduler has to serialize them.
func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if *feedURL != "" {
		cfg.FeedURL = *feedURL
	}
	if *dbURL != "" {
		cfg.DatabaseURL = *dbURL
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	runner := ingest.NewRunner(
		feed.NewClient(cfg.FeedURL),
		store.New(db),
		cfg.FeedSnapshotPath,
		cfg.RetentionDays,
	)

	result, err := runner.Run()
	if err != nil {
		log.Fatal("Ingestion run failed: ", err)
	}

	log.Printf("Done: %d feed rows, %d records appended, %d pruned (run timestamp %s)",
		result.FeedRows, result.Records, result.Pruned, result.Timestamp.Format("2006-01-02 15:04:05"))
}
