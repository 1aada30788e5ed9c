package ingest

import (
	"fmt"
	"log"
	"os"
	"time"

	"price-tracker/internal/feed"
	"price-tracker/internal/models"
	"price-tracker/internal/store"
)

// Runner executes one ingestion run: download the feed, normalize every
// product row, append the whole batch atomically, then apply the retention
// policy if one is configured. Runs are one-shot; serializing concurrent
// runs is the scheduler's job.
type Runner struct {
	client        *feed.Client
	store         *store.RecordStore
	snapshotPath  string
	retentionDays int
}

func NewRunner(client *feed.Client, st *store.RecordStore, snapshotPath string, retentionDays int) *Runner {
	return &Runner{
		client:        client,
		store:         st,
		snapshotPath:  snapshotPath,
		retentionDays: retentionDays,
	}
}

// Result summarizes one completed ingestion run.
type Result struct {
	Timestamp time.Time `json:"timestamp"`
	FeedRows  int       `json:"feed_rows"`
	Records   int       `json:"records"`
	Pruned    int64     `json:"pruned"`
}

// Run performs a single ingestion run. Download and store failures abort the
// run with nothing committed; malformed feed rows are skipped individually.
func (r *Runner) Run() (*Result, error) {
	raw, err := r.client.Download()
	if err != nil {
		return nil, fmt.Errorf("feed download failed: %w", err)
	}

	if r.snapshotPath != "" {
		if err := os.WriteFile(r.snapshotPath, raw, 0644); err != nil {
			log.Printf("failed to snapshot feed to %s: %v", r.snapshotPath, err)
		}
	}

	rows, err := feed.ParseFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}

	now := time.Now().UTC()
	var batch []models.PriceRecord
	for _, row := range rows {
		batch = append(batch, feed.NormalizeRow(row, now)...)
	}

	if err := r.store.AppendBatch(batch); err != nil {
		return nil, fmt.Errorf("store append failed: %w", err)
	}

	res := &Result{Timestamp: now, FeedRows: len(rows), Records: len(batch)}

	if r.retentionDays > 0 {
		cutoff := now.AddDate(0, 0, -r.retentionDays)
		pruned, err := r.store.PruneOlderThan(cutoff)
		if err != nil {
			// batch already committed; retention can catch up next run
			log.Printf("retention prune failed: %v", err)
		} else {
			res.Pruned = pruned
		}
	}

	log.Printf("ingestion run complete: %d feed rows -> %d records", res.FeedRows, res.Records)
	return res, nil
}
