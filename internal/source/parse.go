package source

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date formats seen across Indian court systems
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"02-Jan-2006",
	"02-January-2006",
	"02 Jan 2006",
	"02 January 2006",
	"Jan 02, 2006",
	"January 02, 2006",
}

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	dayNameRe = regexp.MustCompile(`(?i)(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?\s*`)
)

// ParseDate parses the date formats used by Indian court sites
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = spaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	// Retry with day names stripped
	dateStr = dayNameRe.ReplaceAllString(dateStr, "")
	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// normalizeDate rewrites a source date into YYYY-MM-DD, or returns ""
// when it cannot be read
func normalizeDate(dateStr string) string {
	date, err := ParseDate(dateStr)
	if err != nil {
		return ""
	}
	return date.Format("2006-01-02")
}

// applyLabel maps an e-Courts label/value pair onto the payload
func applyLabel(data *RawCaseData, label, value string) {
	label = strings.ToLower(strings.TrimSpace(label))
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch {
	case strings.Contains(label, "case title") || strings.Contains(label, "cause title"):
		data.CaseTitle = value
	case strings.Contains(label, "petitioner") && strings.Contains(label, "advocate"):
		data.AdvocatePetitioner = value
	case strings.Contains(label, "respondent") && strings.Contains(label, "advocate"):
		data.AdvocateRespondent = value
	case strings.Contains(label, "petitioner"):
		data.PetitionerName = value
	case strings.Contains(label, "respondent"):
		data.RespondentName = value
	case strings.Contains(label, "filing date") || strings.Contains(label, "date of filing"):
		data.FilingDate = normalizeDate(value)
	case strings.Contains(label, "registration date"):
		data.RegistrationDate = normalizeDate(value)
	case strings.Contains(label, "next date") || strings.Contains(label, "next hearing"):
		data.NextHearingDate = normalizeDate(value)
	case strings.Contains(label, "stage") || strings.Contains(label, "status"):
		data.CaseStatus = value
	case strings.Contains(label, "judge") || strings.Contains(label, "coram"):
		data.JudgeName = value
	}
}

var noDataPhrases = []string{
	"no record",
	"no records found",
	"not found",
	"invalid case",
	"no data available",
}

// looksLikeNoData reports whether page text is a "no such case" response
func looksLikeNoData(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range noDataPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// makeAbsoluteURL resolves a relative document link against the page URL
func makeAbsoluteURL(pageURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	parts := strings.Split(pageURL, "/")
	if len(parts) < 3 {
		return href
	}

	if strings.HasPrefix(href, "/") {
		return strings.Join(parts[:3], "/") + href
	}
	return strings.Join(parts[:len(parts)-1], "/") + "/" + href
}
