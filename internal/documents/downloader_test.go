package documents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/database"
	"github.com/JustJay7/court-case-resolver/internal/store"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

func setupDownloader(t *testing.T) (*Downloader, *store.CaseStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	log, err := logger.NewLogger("error", "json")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	caseStore := store.New(db)
	cfg := &config.Config{
		DownloadDir:     t.TempDir(),
		DownloadTimeout: 5 * time.Second,
		UserAgent:       "test-agent",
	}
	return NewDownloader(caseStore, cfg, log), caseStore
}

func seedOrder(t *testing.T, s *store.CaseStore, pdfURL string) uint {
	t.Helper()

	c := &database.CourtCase{CaseType: "Civil Appeal", CaseNumber: "101", FilingYear: 2024, CourtName: "Delhi High Court"}
	orders := []database.CaseOrder{{OrderTitle: "Order", OrderType: "order", PDFURL: pdfURL}}
	if _, err := s.Save(c, orders); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	return orders[0].ID
}

func TestDownloadFetchesAndMarksCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	d, s := setupDownloader(t)
	orderID := seedOrder(t, s, srv.URL+"/orders/a.pdf")

	localPath, err := d.Download(context.Background(), orderID)
	if err != nil {
		t.Fatalf("Download() failed: %v", err)
	}
	if _, err := os.Stat(localPath); err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}

	order, err := s.GetOrder(orderID)
	if err != nil || order == nil {
		t.Fatalf("GetOrder() failed: %v", err)
	}
	if !order.PDFDownloaded || order.LocalPDFPath != localPath {
		t.Errorf("document not marked cached: %+v", order)
	}
}

func TestDownloadAlreadyCachedShortCircuits(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	d, s := setupDownloader(t)
	orderID := seedOrder(t, s, srv.URL+"/orders/a.pdf")

	first, err := d.Download(context.Background(), orderID)
	if err != nil {
		t.Fatalf("Download() failed: %v", err)
	}
	second, err := d.Download(context.Background(), orderID)
	if err != nil {
		t.Fatalf("repeat Download() failed: %v", err)
	}

	if first != second {
		t.Errorf("paths diverged: %q vs %q", first, second)
	}
	if requests != 1 {
		t.Errorf("server hit %d times, want 1", requests)
	}
}

func TestDownloadMissingLink(t *testing.T) {
	d, s := setupDownloader(t)
	orderID := seedOrder(t, s, "")

	if _, err := d.Download(context.Background(), orderID); err == nil {
		t.Error("Download() accepted a document without a PDF link")
	}
}

func TestDownloadUnknownDocument(t *testing.T) {
	d, _ := setupDownloader(t)

	if _, err := d.Download(context.Background(), 999); err == nil {
		t.Error("Download() accepted an unknown document ID")
	}
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d, s := setupDownloader(t)
	orderID := seedOrder(t, s, srv.URL+"/orders/a.pdf")

	if _, err := d.Download(context.Background(), orderID); err == nil {
		t.Error("Download() succeeded on a 404 response")
	}

	order, _ := s.GetOrder(orderID)
	if order.PDFDownloaded {
		t.Error("failed download marked the document cached")
	}
}
