package source

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/JustJay7/court-case-resolver/internal/query"
)

// Adapter retrieves raw case data from wherever it actually lives.
// Implementations signal "not found" with ErrNotFound and everything
// else with *Error; the resolver treats the adapter as opaque.
type Adapter interface {
	Fetch(ctx context.Context, q *query.CaseQuery) (*RawCaseData, error)
}

// ErrNotFound means the source has no such case
var ErrNotFound = errors.New("no case found for the given details")

// ErrorKind classifies source failures into caller-facing categories
type ErrorKind string

const (
	KindConnectivity ErrorKind = "connectivity"
	KindTimeout      ErrorKind = "timeout"
	KindGeneric      ErrorKind = "generic"
)

// Error is a source failure with its classification
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source error (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps err as a *Error, deriving its kind
func Classify(err error) *Error {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr
	}

	kind := KindGeneric
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.As(err, &netErr):
		kind = KindConnectivity
	}

	return &Error{Kind: kind, Err: err}
}

// Document describes one linked document as reported by the source
type Document struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
	Date  string `json:"date"` // YYYY-MM-DD, may be empty or unparseable
}

// RawCaseData is the normalized payload returned by an adapter
type RawCaseData struct {
	// Query identity echoed back by the source
	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number"`
	FilingYear int    `json:"filing_year"`
	CourtName  string `json:"court_name"`

	CaseTitle          string `json:"case_title"`
	PetitionerName     string `json:"petitioner_name"`
	RespondentName     string `json:"respondent_name"`
	CaseStatus         string `json:"case_status"`
	JudgeName          string `json:"judge_name"`
	AdvocatePetitioner string `json:"advocate_petitioner"`
	AdvocateRespondent string `json:"advocate_respondent"`

	// Source-format dates, YYYY-MM-DD where known
	FilingDate       string `json:"filing_date"`
	RegistrationDate string `json:"registration_date"`
	NextHearingDate  string `json:"next_hearing_date"`

	Documents []Document `json:"orders"`

	SourceURL string `json:"source_url"`
	Method    string `json:"scraping_method"`
	RawHTML   string `json:"-"`
}

// Map flattens the payload into the key->value mapping persisted as the
// case's parsed data
func (d *RawCaseData) Map() map[string]interface{} {
	docs := make([]interface{}, 0, len(d.Documents))
	for _, doc := range d.Documents {
		docs = append(docs, map[string]interface{}{
			"title": doc.Title,
			"url":   doc.URL,
			"type":  doc.Type,
			"date":  doc.Date,
		})
	}

	return map[string]interface{}{
		"case_type":           d.CaseType,
		"case_number":         d.CaseNumber,
		"filing_year":         d.FilingYear,
		"court_name":          d.CourtName,
		"case_title":          d.CaseTitle,
		"petitioner_name":     d.PetitionerName,
		"respondent_name":     d.RespondentName,
		"case_status":         d.CaseStatus,
		"judge_name":          d.JudgeName,
		"advocate_petitioner": d.AdvocatePetitioner,
		"advocate_respondent": d.AdvocateRespondent,
		"filing_date":         d.FilingDate,
		"registration_date":   d.RegistrationDate,
		"next_hearing_date":   d.NextHearingDate,
		"orders":              docs,
		"source_url":          d.SourceURL,
		"scraping_method":     d.Method,
	}
}
