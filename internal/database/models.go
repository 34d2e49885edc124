package database

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// CourtCase is a resolved case. Its identity is the fingerprint
// (CaseType, CaseNumber, FilingYear, CourtName); at most one row exists
// per fingerprint under normal operation, enforced by lookup-before-insert.
type CourtCase struct {
	gorm.Model

	// Fingerprint fields
	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number" gorm:"index"`
	FilingYear int    `json:"filing_year"`
	CourtName  string `json:"court_name"`

	// Case details
	CaseTitle          string `json:"case_title" gorm:"type:text"`
	PetitionerName     string `json:"petitioner_name"`
	RespondentName     string `json:"respondent_name"`
	CaseStatus         string `json:"case_status"`
	JudgeName          string `json:"judge_name"`
	AdvocatePetitioner string `json:"advocate_petitioner"`
	AdvocateRespondent string `json:"advocate_respondent"`

	// Important dates; nil when the source omitted them or they failed to parse
	FilingDate       *time.Time `json:"filing_date"`
	RegistrationDate *time.Time `json:"registration_date"`
	NextHearingDate  *time.Time `json:"next_hearing_date"`

	// Raw data and processing
	RawResponse string `json:"raw_response" gorm:"type:text"`
	ParsedData  string `json:"parsed_data" gorm:"type:text"`
	AISummary   string `json:"ai_summary" gorm:"type:text"`

	// Provenance
	SourceURL    string `json:"source_url"`
	SourceMethod string `json:"source_method"`

	Orders []CaseOrder `json:"orders" gorm:"foreignKey:CaseID"`
}

// CaseOrder is a document (order, judgment, notice) linked to a case
type CaseOrder struct {
	gorm.Model
	CaseID uint `json:"case_id" gorm:"index"`

	OrderDate  *time.Time `json:"order_date" gorm:"index"`
	OrderType  string     `json:"order_type"`
	OrderTitle string     `json:"order_title"`

	PDFURL        string `json:"pdf_url"`
	PDFDownloaded bool   `json:"pdf_downloaded"`
	LocalPDFPath  string `json:"local_pdf_path"`

	// Set when this order was the only document in its batch
	IsLatest bool `json:"is_latest"`
}

// SearchQuery is one resolution attempt. Rows are append-only: created
// in_progress, finalized exactly once, never deleted.
type SearchQuery struct {
	gorm.Model

	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number"`
	FilingYear int    `json:"filing_year"`
	CourtName  string `json:"court_name"`

	QueryStatus    string `json:"query_status" gorm:"index"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	ErrorMessage   string `json:"error_message" gorm:"type:text"`

	// Linked case, when the attempt resolved one
	CaseID *uint `json:"case_id"`

	// Requester metadata
	UserIP    string    `json:"user_ip"`
	UserAgent string    `json:"user_agent"`
	QueryTime time.Time `json:"query_time" gorm:"index"`
}

func (CourtCase) TableName() string {
	return "court_cases"
}

func (CaseOrder) TableName() string {
	return "case_orders"
}

func (SearchQuery) TableName() string {
	return "search_queries"
}

// SetParsedData serializes the normalized payload mapping
func (c *CourtCase) SetParsedData(data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.ParsedData = string(raw)
	return nil
}

// GetParsedData returns the normalized payload mapping, or an empty map
// when none was stored or the stored text is unreadable
func (c *CourtCase) GetParsedData() map[string]interface{} {
	if c.ParsedData == "" {
		return map[string]interface{}{}
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(c.ParsedData), &data); err != nil {
		return map[string]interface{}{}
	}
	return data
}
