package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/JustJay7/court-case-resolver/internal/source"
)

// Service produces a prose summary of case data. Summarize is total: it
// never returns an error, degrading to a rule-based summary on any
// internal failure so the resolution pipeline never blocks on it.
type Service interface {
	Summarize(ctx context.Context, data *source.RawCaseData) string
}

// Fallback builds a deterministic rule-based summary from fields
// already present in the payload. Identical input always yields
// identical output.
func Fallback(data *source.RawCaseData) string {
	if data == nil {
		return "Unable to generate summary for the provided court data."
	}

	var parts []string

	caseNum := data.CaseNumber
	if caseNum == "" {
		caseNum = "Unknown"
	}
	court := data.CourtName
	if court == "" {
		court = "Unknown Court"
	}
	title := data.CaseTitle
	if title == "" {
		title = "Case details not available"
	}
	status := data.CaseStatus
	if status == "" {
		status = "Status unknown"
	}

	parts = append(parts, fmt.Sprintf("Case Summary for %s:", caseNum))
	parts = append(parts, fmt.Sprintf("This case titled '%s' is being heard in %s.", title, court))
	parts = append(parts, fmt.Sprintf("Current Status: %s", status))

	if data.FilingDate != "" {
		parts = append(parts, fmt.Sprintf("Filed on: %s", data.FilingDate))
	}
	if data.NextHearingDate != "" {
		parts = append(parts, fmt.Sprintf("Next hearing scheduled for: %s", data.NextHearingDate))
	}
	if data.PetitionerName != "" || data.RespondentName != "" {
		petitioner := data.PetitionerName
		if petitioner == "" {
			petitioner = "Unknown"
		}
		respondent := data.RespondentName
		if respondent == "" {
			respondent = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("Parties involved: %s vs %s", petitioner, respondent))
	}
	if len(data.Documents) > 0 {
		parts = append(parts, fmt.Sprintf("Latest order: %s", data.Documents[len(data.Documents)-1].Title))
	}

	return strings.Join(parts, " ")
}

// prompt formats the payload into the model input
func prompt(data *source.RawCaseData) string {
	var lines []string
	lines = append(lines, "Please provide a comprehensive summary of the following court case information:", "")

	add := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", label, value))
		}
	}

	add("Case Number", data.CaseNumber)
	add("Court", data.CourtName)
	add("Case Title", data.CaseTitle)
	add("Filing Date", data.FilingDate)
	add("Status", data.CaseStatus)
	add("Next Hearing", data.NextHearingDate)
	add("Petitioner", data.PetitionerName)
	add("Respondent", data.RespondentName)
	add("Judge", data.JudgeName)
	add("Advocate for Petitioner", data.AdvocatePetitioner)
	add("Advocate for Respondent", data.AdvocateRespondent)

	if len(data.Documents) > 0 {
		lines = append(lines, "Recent Orders:")
		for _, doc := range data.Documents {
			date := doc.Date
			if date == "" {
				date = "N/A"
			}
			lines = append(lines, fmt.Sprintf("  - %s: %s", date, doc.Title))
		}
	}

	lines = append(lines, "", "Please provide a clear, professional summary focusing on key legal details:")
	return strings.Join(lines, "\n")
}
