package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CaseQuery is a validated, canonical case identifier. The four fields
// together form the fingerprint used for deduplication.
type CaseQuery struct {
	CaseType   string
	CaseNumber string
	FilingYear int
	CourtName  string
}

// Fingerprint returns the canonical dedup key for the query
func (q CaseQuery) Fingerprint() string {
	return fmt.Sprintf("case:%s:%s:%d:%s", q.CaseType, q.CaseNumber, q.FilingYear, q.CourtName)
}

func (q CaseQuery) String() string {
	return fmt.Sprintf("%s/%s/%d", q.CaseType, q.CaseNumber, q.FilingYear)
}

// Raw holds unvalidated request fields as received from the caller
type Raw struct {
	CaseType   string `json:"case_type" form:"case_type"`
	CaseNumber string `json:"case_number" form:"case_number"`
	FilingYear string `json:"filing_year" form:"filing_year"`
	CourtName  string `json:"court_name" form:"court_name"`
}

// ValidationError carries every violated rule, in field order, so the
// caller can present a complete correction list in one pass.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid case query: " + strings.Join(e.Messages, "; ")
}

// Filing years earlier than Indian independence are rejected.
const minFilingYear = 1947

const maxCaseNumberLen = 10

// CaseTypes returns the known case types for Indian courts
func CaseTypes() []string {
	return []string{
		"Civil Appeal",
		"Criminal Appeal",
		"Writ Petition",
		"Civil Writ Petition",
		"Criminal Writ Petition",
		"Civil Suit",
		"Criminal Case",
		"Matrimonial",
		"Company Petition",
		"Arbitration",
		"Execution",
		"Misc. Application",
		"Review Petition",
		"Special Leave Petition",
		"Contempt Petition",
	}
}

// FilingYears returns selectable filing years, newest first
func FilingYears() []int {
	current := time.Now().Year()
	years := make([]int, 0, current-minFilingYear+1)
	for year := current; year >= minFilingYear; year-- {
		years = append(years, year)
	}
	return years
}

func isKnownCaseType(caseType string) bool {
	for _, t := range CaseTypes() {
		if t == caseType {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Normalize validates raw request fields and produces a canonical
// CaseQuery. It accumulates all violations instead of failing fast.
// Pure function: no I/O, no side effects.
func Normalize(raw Raw) (*CaseQuery, *ValidationError) {
	caseType := strings.TrimSpace(raw.CaseType)
	caseNumber := strings.TrimSpace(raw.CaseNumber)
	filingYear := strings.TrimSpace(raw.FilingYear)
	courtName := strings.TrimSpace(raw.CourtName)

	var errs []string

	if caseType == "" {
		errs = append(errs, "Case Type is required")
	} else if !isKnownCaseType(caseType) {
		errs = append(errs, "Invalid Case Type selected")
	}

	if caseNumber == "" {
		errs = append(errs, "Case Number is required")
	} else if !isDigits(caseNumber) {
		errs = append(errs, "Case Number must contain only numbers (e.g., 123)")
	} else if len(caseNumber) > maxCaseNumberLen {
		errs = append(errs, fmt.Sprintf("Case Number is too long (maximum %d digits)", maxCaseNumberLen))
	}

	var year int
	if filingYear == "" {
		errs = append(errs, "Filing Year is required")
	} else {
		parsed, err := strconv.Atoi(filingYear)
		switch {
		case err != nil:
			errs = append(errs, "Filing Year must be a valid number")
		case parsed < minFilingYear:
			errs = append(errs, fmt.Sprintf("Filing Year cannot be before %d", minFilingYear))
		case parsed > time.Now().Year():
			errs = append(errs, fmt.Sprintf("Filing Year cannot be in the future (current year: %d)", time.Now().Year()))
		default:
			year = parsed
		}
	}

	if courtName == "" {
		errs = append(errs, "Court Name is required")
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	return &CaseQuery{
		CaseType:   caseType,
		CaseNumber: caseNumber,
		FilingYear: year,
		CourtName:  courtName,
	}, nil
}
