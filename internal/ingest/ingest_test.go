package ingest

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"price-tracker/internal/feed"
	"price-tracker/internal/models"
	"price-tracker/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testFeed = "SKUs;qty;AMZ_FR;AMZ_FR_PrixPromo;AMZ_FR_DateDebut;AMZ_FR_DateFin;Cdiscount\n" +
	"ABC123;5;19.99;;;;18.50\n" +
	"DEF456;2;;9.90;2025-06-01;2025-06-30;\n" +
	"EMPTY1;3;;;;;\n"

func newTestStore(t *testing.T) *store.RecordStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	// :memory: gives every pooled connection its own database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.PriceRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store.New(db)
}

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=windows-1252")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAppendsNormalizedBatch(t *testing.T) {
	srv := feedServer(t, http.StatusOK, testFeed)
	st := newTestStore(t)
	runner := NewRunner(feed.NewClient(srv.URL), st, "", 0)

	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FeedRows != 3 {
		t.Errorf("expected 3 feed rows, got %d", result.FeedRows)
	}
	// ABC123 reports on two platforms, DEF456 on one, EMPTY1 on none
	if result.Records != 3 {
		t.Errorf("expected 3 records, got %d", result.Records)
	}

	records, err := st.QueryBySKU("ABC123")
	if err != nil {
		t.Fatalf("QueryBySKU: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records for ABC123, got %d", len(records))
	}
	for _, r := range records {
		if !r.Timestamp.Equal(result.Timestamp) {
			t.Errorf("expected all records to share the run timestamp, got %v", r.Timestamp)
		}
	}

	records, err = st.QueryBySKU("EMPTY1")
	if err != nil {
		t.Fatalf("QueryBySKU: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records for a sku without platform data, got %d", len(records))
	}
}

func TestRunDownloadFailureWritesNothing(t *testing.T) {
	srv := feedServer(t, http.StatusBadGateway, "oops")
	st := newTestStore(t)
	runner := NewRunner(feed.NewClient(srv.URL), st, "", 0)

	if _, err := runner.Run(); err == nil {
		t.Fatal("expected run to fail on upstream error")
	}
	skus, err := st.ListSKUs()
	if err != nil {
		t.Fatalf("ListSKUs: %v", err)
	}
	if len(skus) != 0 {
		t.Errorf("expected empty store after failed run, got %v", skus)
	}
}

func TestRunWritesFeedSnapshot(t *testing.T) {
	srv := feedServer(t, http.StatusOK, testFeed)
	st := newTestStore(t)
	snapshot := filepath.Join(t.TempDir(), "mp.prices.csv")
	runner := NewRunner(feed.NewClient(srv.URL), st, snapshot, 0)

	if _, err := runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(snapshot)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if string(data) != testFeed {
		t.Error("snapshot does not match downloaded feed bytes")
	}
}
