package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JustJay7/court-case-resolver/internal/cache"
	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/database"
	"github.com/JustJay7/court-case-resolver/internal/documents"
	"github.com/JustJay7/court-case-resolver/internal/ledger"
	"github.com/JustJay7/court-case-resolver/internal/query"
	"github.com/JustJay7/court-case-resolver/internal/resolver"
	"github.com/JustJay7/court-case-resolver/internal/source"
	"github.com/JustJay7/court-case-resolver/internal/store"
	"github.com/JustJay7/court-case-resolver/internal/summary"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

// notFoundAdapter simulates a source with no matching case
type notFoundAdapter struct{}

func (notFoundAdapter) Fetch(ctx context.Context, q *query.CaseQuery) (*source.RawCaseData, error) {
	return nil, source.ErrNotFound
}

type fallbackService struct{}

func (fallbackService) Summarize(ctx context.Context, data *source.RawCaseData) string {
	return summary.Fallback(data)
}

func setupRouter(t *testing.T, adapter source.Adapter) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	queryLedger := ledger.New(db)
	hotCache := cache.New(100, 5*time.Minute)
	res := resolver.New(caseStore, queryLedger, hotCache, adapter, fallbackService{}, log)

	cfg := &config.Config{
		DownloadDir:     t.TempDir(),
		DownloadTimeout: 5 * time.Second,
		UserAgent:       "test-agent",
	}
	downloader := documents.NewDownloader(caseStore, cfg, log)

	router := gin.New()
	SetupRoutes(router, res, caseStore, queryLedger, hotCache, downloader, log)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return w, parsed
}

func searchBody() map[string]string {
	return map[string]string{
		"case_type":   "Civil Appeal",
		"case_number": "101",
		"filing_year": "2024",
		"court_name":  "Delhi High Court",
	}
}

func TestSearchCaseFresh(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	w, resp := doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if resp["success"] != true {
		t.Errorf("success = %v", resp["success"])
	}
	if resp["outcome"] != "fresh" {
		t.Errorf("outcome = %v, want fresh", resp["outcome"])
	}
	if resp["fromCache"] != false {
		t.Errorf("fromCache = %v, want false", resp["fromCache"])
	}
	if resp["summary"] == "" || resp["summary"] == nil {
		t.Error("response missing summary")
	}
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data = %v", resp["data"])
	}
	if data["case_number"] != "101" {
		t.Errorf("case_number = %v", data["case_number"])
	}
}

func TestSearchCaseSecondCallFromCache(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	w, resp := doJSON(t, router, http.MethodPost, "/api/search", searchBody())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp["outcome"] != "cache_hit" {
		t.Errorf("outcome = %v, want cache_hit", resp["outcome"])
	}
	if resp["fromCache"] != true {
		t.Errorf("fromCache = %v, want true", resp["fromCache"])
	}
}

func TestSearchCaseValidationErrors(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	body := map[string]string{
		"case_type":   "Civil Appeal",
		"case_number": "12a",
		"filing_year": "1900",
		"court_name":  "Delhi High Court",
	}
	w, resp := doJSON(t, router, http.MethodPost, "/api/search", body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp["outcome"] != "validation_failed" {
		t.Errorf("outcome = %v", resp["outcome"])
	}
	violations, ok := resp["validation_errors"].([]interface{})
	if !ok || len(violations) != 2 {
		t.Errorf("validation_errors = %v, want 2 entries", resp["validation_errors"])
	}
}

func TestSearchCaseNoData(t *testing.T) {
	router, _ := setupRouter(t, notFoundAdapter{})

	w, resp := doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if resp["outcome"] != "no_data" {
		t.Errorf("outcome = %v", resp["outcome"])
	}
	if resp["error"] != "No case found with the provided details. Please verify the case information." {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestSearchCaseStorageFailureStillCarriesData(t *testing.T) {
	router, db := setupRouter(t, source.NewFixtureAdapter())

	// Persisting the document batch will fail after the fetch succeeds
	if err := db.Exec("DROP TABLE case_orders").Error; err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	w, resp := doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if resp["outcome"] != "failed" {
		t.Errorf("outcome = %v", resp["outcome"])
	}
	if resp["error_kind"] != "storage" {
		t.Errorf("error_kind = %v", resp["error_kind"])
	}

	// The fetched case and summary ride along for display
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data missing from storage-failure response: %v", resp["data"])
	}
	if data["case_number"] != "101" {
		t.Errorf("case_number = %v", data["case_number"])
	}
	if s, ok := resp["summary"].(string); !ok || s == "" {
		t.Error("summary missing from storage-failure response")
	}
}

func TestSearchCaseMalformedBody(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetCase(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	_, resp := doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	data := resp["data"].(map[string]interface{})
	id := int(data["ID"].(float64))

	w, resp := doJSON(t, router, http.MethodGet, "/api/cases/"+strconv.Itoa(id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	parsed, ok := resp["parsed_data"].(map[string]interface{})
	if !ok {
		t.Fatalf("parsed_data = %v", resp["parsed_data"])
	}
	if parsed["case_number"] != "101" {
		t.Errorf("parsed case_number = %v", parsed["case_number"])
	}
}

func TestGetCaseNotFound(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	w, _ := doJSON(t, router, http.MethodGet, "/api/cases/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetCaseInvalidID(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	w, _ := doJSON(t, router, http.MethodGet, "/api/cases/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListCases(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	other := searchBody()
	other["case_number"] = "202"
	doJSON(t, router, http.MethodPost, "/api/search", other)

	w, resp := doJSON(t, router, http.MethodGet, "/api/cases?page=1&limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	cases, ok := resp["data"].([]interface{})
	if !ok || len(cases) != 1 {
		t.Errorf("data = %v, want 1 case per page", resp["data"])
	}
	pagination := resp["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 2 {
		t.Errorf("total = %v, want 2", pagination["total"])
	}
}

func TestHistoryRecordsAttempts(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	doJSON(t, router, http.MethodPost, "/api/search", searchBody())

	w, resp := doJSON(t, router, http.MethodGet, "/api/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	attempts, ok := resp["data"].([]interface{})
	if !ok || len(attempts) != 2 {
		t.Fatalf("data = %v, want 2 attempts", resp["data"])
	}

	statuses := map[string]bool{}
	for _, a := range attempts {
		row := a.(map[string]interface{})
		statuses[row["query_status"].(string)] = true
	}
	if !statuses["success"] || !statuses["cache_hit"] {
		t.Errorf("statuses = %v, want success and cache_hit", statuses)
	}
}

func TestStats(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	doJSON(t, router, http.MethodPost, "/api/search", searchBody())

	w, resp := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	stats := resp["stats"].(map[string]interface{})
	if stats["total_cases"].(float64) != 1 {
		t.Errorf("total_cases = %v", stats["total_cases"])
	}
	byStatus := stats["queries_by_status"].(map[string]interface{})
	if byStatus["success"].(float64) != 1 {
		t.Errorf("queries_by_status = %v", byStatus)
	}
	types, ok := stats["known_case_types"].([]interface{})
	if !ok || len(types) == 0 {
		t.Errorf("known_case_types = %v", stats["known_case_types"])
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	w, resp := doJSON(t, router, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v", resp["status"])
	}
	if resp["database"] != true {
		t.Errorf("database = %v", resp["database"])
	}
}

func TestCacheStatsEndpoint(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	doJSON(t, router, http.MethodPost, "/api/search", searchBody())
	doJSON(t, router, http.MethodPost, "/api/search", searchBody())

	w, resp := doJSON(t, router, http.MethodGet, "/api/cache/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	stats := resp["stats"].(map[string]interface{})
	if stats["hits"].(float64) < 1 {
		t.Errorf("hits = %v, want at least 1", stats["hits"])
	}
}

func TestDownloadDocumentInvalidID(t *testing.T) {
	router, _ := setupRouter(t, source.NewFixtureAdapter())

	w, _ := doJSON(t, router, http.MethodPost, "/api/documents/abc/download", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
