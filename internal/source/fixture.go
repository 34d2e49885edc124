package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JustJay7/court-case-resolver/internal/query"
)

// FixtureAdapter serves deterministic synthetic case data derived from
// the query. It stands in for the live portal in development and tests;
// identical queries always produce identical payloads.
type FixtureAdapter struct{}

func NewFixtureAdapter() *FixtureAdapter {
	return &FixtureAdapter{}
}

var (
	fixturePetitioners = []string{"Rajesh Kumar", "Priya Sharma", "ABC Corporation Ltd.", "Municipal Corporation", "John Doe"}
	fixtureRespondents = []string{"State of Delhi", "Union of India", "XYZ Private Ltd.", "Delhi Development Authority", "Revenue Department"}
	fixtureJudges      = []string{"Hon. Justice A.K. Sharma", "Hon. Justice Meera Gupta", "Hon. Justice R.K. Singh", "Hon. Justice S. Verma"}
	fixtureAdvocatesP  = []string{"Adv. Rajesh Kumar", "Adv. Priya Mishra", "Adv. S.K. Jain", "Adv. Meera Agarwal"}
	fixtureAdvocatesR  = []string{"State Counsel", "Government Advocate", "Adv. A.K. Gupta", "Adv. Corporate Legal"}
)

func (a *FixtureAdapter) Fetch(_ context.Context, q *query.CaseQuery) (*RawCaseData, error) {
	idx := 0
	if n, err := strconv.Atoi(q.CaseNumber); err == nil {
		idx = n % len(fixturePetitioners)
	}

	title, status, docs := fixtureCaseDetails(q)

	host := strings.ToLower(strings.ReplaceAll(q.CourtName, " ", ""))

	return &RawCaseData{
		CaseType:           q.CaseType,
		CaseNumber:         q.CaseNumber,
		FilingYear:         q.FilingYear,
		CourtName:          q.CourtName,
		CaseTitle:          title,
		PetitionerName:     fixturePetitioners[idx],
		RespondentName:     fixtureRespondents[idx],
		CaseStatus:         status,
		JudgeName:          fixtureJudges[idx%len(fixtureJudges)],
		AdvocatePetitioner: fixtureAdvocatesP[idx%len(fixtureAdvocatesP)],
		AdvocateRespondent: fixtureAdvocatesR[idx%len(fixtureAdvocatesR)],
		FilingDate:         fmt.Sprintf("%d-03-15", q.FilingYear),
		RegistrationDate:   fmt.Sprintf("%d-03-20", q.FilingYear),
		NextHearingDate:    "2025-02-15",
		Documents:          docs,
		SourceURL:          fmt.Sprintf("https://%s.nic.in/case/%s", host, q.CaseNumber),
		Method:             "fixture",
		RawHTML:            fmt.Sprintf("<div>Demo HTML content for %s %s/%d</div>", q.CaseType, q.CaseNumber, q.FilingYear),
	}, nil
}

func fixtureCaseDetails(q *query.CaseQuery) (title, status string, docs []Document) {
	n := q.CaseNumber
	switch q.CaseType {
	case "Civil Appeal":
		return fmt.Sprintf("Civil Appeal No. %s of %d - Property Dispute", n, q.FilingYear),
			"Arguments Concluded",
			[]Document{
				{Title: "Judgment dated 2024-12-10", URL: fmt.Sprintf("/orders/civil_judgment_%s.pdf", n), Type: "judgment", Date: "2024-12-10"},
				{Title: "Order dated 2024-11-25", URL: fmt.Sprintf("/orders/civil_order_%s.pdf", n), Type: "order", Date: "2024-11-25"},
			}
	case "Criminal Appeal":
		return fmt.Sprintf("Criminal Appeal No. %s of %d - Appeals against Conviction", n, q.FilingYear),
			"Under Hearing",
			[]Document{
				{Title: "Bail Order dated 2024-12-05", URL: fmt.Sprintf("/orders/criminal_bail_%s.pdf", n), Type: "order", Date: "2024-12-05"},
				{Title: "Notice to State dated 2024-11-30", URL: fmt.Sprintf("/orders/criminal_notice_%s.pdf", n), Type: "notice", Date: "2024-11-30"},
			}
	case "Writ Petition":
		return fmt.Sprintf("Writ Petition (Civil) No. %s of %d - Public Interest Litigation", n, q.FilingYear),
			"Notice Issued",
			[]Document{
				{Title: "Notice to Respondents dated 2024-12-12", URL: fmt.Sprintf("/orders/writ_notice_%s.pdf", n), Type: "notice", Date: "2024-12-12"},
				{Title: "Admission Order dated 2024-12-01", URL: fmt.Sprintf("/orders/writ_admission_%s.pdf", n), Type: "order", Date: "2024-12-01"},
			}
	case "Company Petition":
		return fmt.Sprintf("Company Petition No. %s of %d - Corporate Insolvency", n, q.FilingYear),
			"Under Consideration",
			[]Document{
				{Title: "Interim Order dated 2024-12-08", URL: fmt.Sprintf("/orders/company_interim_%s.pdf", n), Type: "order", Date: "2024-12-08"},
			}
	default:
		return fmt.Sprintf("%s No. %s of %d", q.CaseType, n, q.FilingYear),
			"Pending",
			[]Document{
				{Title: "Order dated 2024-12-01", URL: fmt.Sprintf("/orders/general_order_%s.pdf", n), Type: "order", Date: "2024-12-01"},
			}
	}
}
