package store

import (
	"fmt"
	"log"
	"time"

	"price-tracker/internal/models"

	"gorm.io/gorm"
)

// RecordStore persists price observations. Appends happen once per ingestion
// run; everything else is read-only, so concurrent query requests are safe.
type RecordStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// AppendBatch writes one ingestion run's records in a single transaction so a
// failed run never leaves a partial timeline behind. Records missing a sku or
// carrying an unknown platform are dropped individually; they indicate a
// normalizer bug, not a reason to abort the run.
func (s *RecordStore) AppendBatch(records []models.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			r := &records[i]
			if r.SKU == "" || !models.KnownPlatform(r.Platform) {
				log.Printf("dropping malformed record (sku=%q platform=%q)", r.SKU, r.Platform)
				continue
			}
			if err := tx.Create(r).Error; err != nil {
				return fmt.Errorf("failed to insert price record: %w", err)
			}
		}
		return nil
	})
}

// ListSKUs returns the distinct non-empty skus, sorted ascending.
func (s *RecordStore) ListSKUs() ([]string, error) {
	var skus []string
	err := s.db.Model(&models.PriceRecord{}).
		Where("sku <> ''").
		Distinct("sku").
		Order("sku asc").
		Pluck("sku", &skus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	return skus, nil
}

// QueryBySKU returns every observation for sku in timestamp order. All rows
// of one ingestion run share a timestamp, so insertion order breaks ties.
func (s *RecordStore) QueryBySKU(sku string) ([]models.PriceRecord, error) {
	if sku == "" {
		return nil, nil
	}
	var records []models.PriceRecord
	err := s.db.Where("sku = ?", sku).
		Order("timestamp asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query price records: %w", err)
	}
	return records, nil
}

// PruneOlderThan deletes observations whose timestamp predates cutoff and
// returns how many were removed. Only the retention policy calls this; the
// ingestion path itself never deletes.
func (s *RecordStore) PruneOlderThan(cutoff time.Time) (int64, error) {
	res := s.db.Where("timestamp < ?", cutoff).Delete(&models.PriceRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune price records: %w", res.Error)
	}
	return res.RowsAffected, nil
}
