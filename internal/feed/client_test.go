package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseFeedSemicolonsAndEncoding(t *testing.T) {
	// "Clé à molette" with an 0xE9 cp1252 byte for é
	data := []byte("SKUs;qty;AMZ_FR;AMZ_FR_PrixPromo\nABC123;5;19.99;\nDEF456;2;;9.90\n")
	data = append(data, []byte("Cl\xe9001;1;3.30;\n")...)

	rows, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0]["SKUs"] != "ABC123" || rows[0]["AMZ_FR"] != "19.99" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1]["AMZ_FR"] != "" || rows[1]["AMZ_FR_PrixPromo"] != "9.90" {
		t.Errorf("unexpected second row: %v", rows[1])
	}
	if rows[2]["SKUs"] != "Clé001" {
		t.Errorf("expected cp1252 byte decoded to é, got %q", rows[2]["SKUs"])
	}
}

func TestParseFeedShortLine(t *testing.T) {
	data := []byte("SKUs;qty;AMZ_FR\nABC123;5\n")

	rows, err := ParseFeed(data)
	if err != nil {
		t.Fatalf("ParseFeed error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if _, present := rows[0]["AMZ_FR"]; present {
		t.Error("expected missing trailing column to be absent from the row map")
	}
}

func TestParseFeedEmpty(t *testing.T) {
	rows, err := ParseFeed(nil)
	if err != nil {
		t.Fatalf("ParseFeed error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestClientDownload(t *testing.T) {
	body := "SKUs;qty;AMZ_FR\nABC123;5;19.99\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=windows-1252")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL).Download()
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if string(raw) != body {
		t.Errorf("expected raw bytes passed through untouched, got %q", raw)
	}
}

func TestClientDownloadUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Download(); err == nil {
		t.Fatal("expected error for non-200 upstream response")
	}
}
