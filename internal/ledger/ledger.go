package ledger

import (
	"fmt"
	"time"

	"github.com/JustJay7/court-case-resolver/internal/database"
	"github.com/JustJay7/court-case-resolver/internal/query"
	"gorm.io/gorm"
)

// Status is the closed set of resolution attempt states.
// in_progress is the only non-terminal state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCacheHit   Status = "cache_hit"
	StatusSuccess    Status = "success"
	StatusNoData     Status = "no_data"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s ends an attempt
func (s Status) Terminal() bool {
	switch s {
	case StatusCacheHit, StatusSuccess, StatusNoData, StatusFailed:
		return true
	}
	return false
}

// RequesterMeta identifies who asked for a resolution
type RequesterMeta struct {
	IP        string
	UserAgent string
}

// Attempt is a handle to one in-flight ledger row
type Attempt struct {
	ID      uint
	started time.Time
}

// Elapsed returns the time since the attempt was opened
func (a *Attempt) Elapsed() time.Duration {
	return time.Since(a.started)
}

// Ledger is the append-only log of resolution attempts
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Begin persists a new attempt in in_progress state. The row must be
// durable before any downstream call, so a crash mid-resolution leaves
// an auditable incomplete record.
func (l *Ledger) Begin(q *query.CaseQuery, meta RequesterMeta) (*Attempt, error) {
	// Clock starts before the insert so response_time_ms covers the
	// whole attempt, the ledger write included
	started := time.Now()

	row := &database.SearchQuery{
		CaseType:    q.CaseType,
		CaseNumber:  q.CaseNumber,
		FilingYear:  q.FilingYear,
		CourtName:   q.CourtName,
		QueryStatus: string(StatusInProgress),
		UserIP:      meta.IP,
		UserAgent:   meta.UserAgent,
		QueryTime:   started,
	}

	if err := l.db.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to open ledger attempt: %w", err)
	}

	return &Attempt{ID: row.ID, started: started}, nil
}

// Complete finalizes an attempt with its terminal status. Called exactly
// once per attempt, on every exit path.
func (l *Ledger) Complete(a *Attempt, status Status, caseID *uint, errText string) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot complete attempt %d with non-terminal status %q", a.ID, status)
	}

	updates := map[string]interface{}{
		"query_status":     string(status),
		"response_time_ms": a.Elapsed().Milliseconds(),
		"error_message":    errText,
	}
	if caseID != nil {
		updates["case_id"] = *caseID
	}

	if err := l.db.Model(&database.SearchQuery{}).Where("id = ?", a.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to complete ledger attempt %d: %w", a.ID, err)
	}
	return nil
}

// Recent returns the newest attempts, newest first
func (l *Ledger) Recent(limit int) ([]database.SearchQuery, error) {
	var rows []database.SearchQuery
	err := l.db.Order("query_time DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// CountByStatus returns attempt counts keyed by terminal status
func (l *Ledger) CountByStatus() (map[string]int64, error) {
	type bucket struct {
		QueryStatus string
		Total       int64
	}
	var buckets []bucket
	err := l.db.Model(&database.SearchQuery{}).
		Select("query_status, COUNT(*) as total").
		Group("query_status").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.QueryStatus] = b.Total
	}
	return counts, nil
}
