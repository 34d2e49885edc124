package summary

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/source"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

func sampleData() *source.RawCaseData {
	return &source.RawCaseData{
		CaseType:        "Civil Appeal",
		CaseNumber:      "101",
		FilingYear:      2024,
		CourtName:       "Delhi High Court",
		CaseTitle:       "Civil Appeal No. 101 of 2024 - Property Dispute",
		PetitionerName:  "Rajesh Kumar",
		RespondentName:  "State of Delhi",
		CaseStatus:      "Arguments Concluded",
		FilingDate:      "2024-03-15",
		NextHearingDate: "2025-02-15",
		Documents: []source.Document{
			{Title: "Order dated 2024-11-25", URL: "/orders/a.pdf", Type: "order", Date: "2024-11-25"},
		},
	}
}

func TestFallbackDeterministic(t *testing.T) {
	first := Fallback(sampleData())
	second := Fallback(sampleData())

	if first != second {
		t.Errorf("fallback summary is not reproducible:\n%s\nvs\n%s", first, second)
	}
}

func TestFallbackContent(t *testing.T) {
	got := Fallback(sampleData())

	for _, want := range []string{
		"Case Summary for 101:",
		"Delhi High Court",
		"Current Status: Arguments Concluded",
		"Filed on: 2024-03-15",
		"Next hearing scheduled for: 2025-02-15",
		"Rajesh Kumar vs State of Delhi",
		"Latest order: Order dated 2024-11-25",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("fallback summary missing %q:\n%s", want, got)
		}
	}
}

func TestFallbackSparseData(t *testing.T) {
	got := Fallback(&source.RawCaseData{})
	if !strings.Contains(got, "Case Summary for Unknown:") {
		t.Errorf("sparse fallback wrong: %s", got)
	}
	if !strings.Contains(got, "Status unknown") {
		t.Errorf("sparse fallback wrong: %s", got)
	}
}

func TestFallbackNilData(t *testing.T) {
	if got := Fallback(nil); got != "Unable to generate summary for the provided court data." {
		t.Errorf("nil fallback = %q", got)
	}
}

func TestGroqSummarizerWithoutKeyUsesFallback(t *testing.T) {
	log, err := logger.NewLogger("error", "json")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	cfg := &config.Config{GroqAPIKey: "", GroqModel: "llama-3.1-8b-instant", SummaryTimeout: time.Second}
	s := NewGroqSummarizer(cfg, log)

	data := sampleData()
	got := s.Summarize(context.Background(), data)
	if got != Fallback(data) {
		t.Errorf("expected fallback summary, got: %s", got)
	}
}

func TestPromptIncludesFields(t *testing.T) {
	got := prompt(sampleData())

	for _, want := range []string{
		"Case Number: 101",
		"Court: Delhi High Court",
		"Status: Arguments Concluded",
		"Recent Orders:",
		"2024-11-25: Order dated 2024-11-25",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}
