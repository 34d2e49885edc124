package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/JustJay7/court-case-resolver/internal/cache"
	"github.com/JustJay7/court-case-resolver/internal/database"
	"github.com/JustJay7/court-case-resolver/internal/ledger"
	"github.com/JustJay7/court-case-resolver/internal/query"
	"github.com/JustJay7/court-case-resolver/internal/source"
	"github.com/JustJay7/court-case-resolver/internal/store"
	"github.com/JustJay7/court-case-resolver/internal/summary"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

// Kind discriminates resolution outcomes
type Kind string

const (
	KindValidationFailed Kind = "validation_failed"
	KindCacheHit         Kind = "cache_hit"
	KindFresh            Kind = "fresh"
	KindNoData           Kind = "no_data"
	KindFailed           Kind = "failed"
)

// Failure kinds surfaced on KindFailed results
const (
	FailureConnectivity = "connectivity"
	FailureTimeout      = "timeout"
	FailureGeneric      = "generic"
	FailureStorage      = "storage"
)

// Request is one inbound resolution request
type Request struct {
	Fields query.Raw
	Meta   ledger.RequesterMeta
}

// Result is the discriminated outcome of a resolution.
//
// KindFailed with FailureStorage still carries the fetched case and
// summary: the data was retrieved but could not be cached, and the
// caller gets it anyway.
type Result struct {
	Kind    Kind
	Case    *database.CourtCase
	Summary string

	// Human-readable message for non-success outcomes
	Message string

	// All violated rules, set on KindValidationFailed
	Violations []string

	// Failure classification, set on KindFailed
	FailureKind string
}

// Resolver composes the store, ledger, cache, source adapter and
// summarizer into the end-to-end case resolution pipeline. All
// collaborators are injected; tests substitute fixtures freely.
type Resolver struct {
	store      *store.CaseStore
	ledger     *ledger.Ledger
	cache      cache.Cache
	source     source.Adapter
	summarizer summary.Service
	logger     *logger.Logger
}

func New(
	caseStore *store.CaseStore,
	queryLedger *ledger.Ledger,
	hotCache cache.Cache,
	adapter source.Adapter,
	summarizer summary.Service,
	log *logger.Logger,
) *Resolver {
	return &Resolver{
		store:      caseStore,
		ledger:     queryLedger,
		cache:      hotCache,
		source:     adapter,
		summarizer: summarizer,
		logger:     log,
	}
}

// Resolve runs the pipeline: normalize, open a ledger attempt, look up
// the fingerprint, fetch on miss, summarize, persist, and finalize the
// attempt. Every exit path completes the ledger exactly once; only
// validation failures bypass it entirely.
func (r *Resolver) Resolve(ctx context.Context, req Request) *Result {
	q, verr := query.Normalize(req.Fields)
	if verr != nil {
		return &Result{
			Kind:       KindValidationFailed,
			Message:    "Please fix the following errors",
			Violations: verr.Messages,
		}
	}

	attempt, err := r.ledger.Begin(q, req.Meta)
	if err != nil {
		r.logger.Error("Failed to open ledger attempt", "case", q.String(), "error", err)
		return &Result{
			Kind:        KindFailed,
			FailureKind: FailureStorage,
			Message:     "Database error occurred. Please try again.",
		}
	}

	result := r.resolve(ctx, q, attempt)

	r.logger.Info("Resolution finished",
		"case", q.String(),
		"court", q.CourtName,
		"outcome", string(result.Kind),
		"elapsed", attempt.Elapsed().String(),
	)
	return result
}

func (r *Resolver) resolve(ctx context.Context, q *query.CaseQuery, attempt *ledger.Attempt) *Result {
	key := q.Fingerprint()

	// Hot cache, then the durable store. Either hit is authoritative
	// and is never re-validated against the source.
	if cached, found := r.cache.Get(key); found {
		r.complete(attempt, ledger.StatusCacheHit, &cached.ID, "")
		return &Result{Kind: KindCacheHit, Case: cached, Summary: cached.AISummary}
	}

	existing, err := r.store.FindByFingerprint(q)
	if err != nil {
		r.complete(attempt, ledger.StatusFailed, nil, err.Error())
		return &Result{
			Kind:        KindFailed,
			FailureKind: FailureStorage,
			Message:     "Database error occurred. Please try again.",
		}
	}
	if existing != nil {
		r.cache.Set(key, existing)
		r.complete(attempt, ledger.StatusCacheHit, &existing.ID, "")
		return &Result{Kind: KindCacheHit, Case: existing, Summary: existing.AISummary}
	}

	// Cache miss: go to the source
	data, err := r.source.Fetch(ctx, q)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			msg := "No data found for the given case details"
			r.complete(attempt, ledger.StatusNoData, nil, msg)
			return &Result{
				Kind:    KindNoData,
				Message: "No case found with the provided details. Please verify the case information.",
			}
		}

		srcErr := source.Classify(err)
		r.complete(attempt, ledger.StatusFailed, nil, srcErr.Error())
		return &Result{
			Kind:        KindFailed,
			FailureKind: string(srcErr.Kind),
			Message:     failureMessage(srcErr.Kind),
		}
	}

	// Summarize is total; it falls back internally rather than failing
	summaryText := r.summarizer.Summarize(ctx, data)

	newCase, orders := buildCase(q, data, summaryText)
	caseID, err := r.store.Save(newCase, orders)
	if err != nil {
		r.logger.Error("Failed to persist resolved case", "case", q.String(), "error", err)
		r.complete(attempt, ledger.StatusFailed, nil, err.Error())
		// The fetch succeeded; hand the data back even though it was
		// not cached. A retry will fetch again.
		return &Result{
			Kind:        KindFailed,
			FailureKind: FailureStorage,
			Message:     "Database error occurred. Please try again.",
			Case:        newCase,
			Summary:     summaryText,
		}
	}

	r.cache.Set(key, newCase)
	r.complete(attempt, ledger.StatusSuccess, &caseID, "")
	return &Result{Kind: KindFresh, Case: newCase, Summary: summaryText}
}

// complete finalizes the ledger attempt, logging rather than failing
// the resolution if the ledger write itself errors
func (r *Resolver) complete(attempt *ledger.Attempt, status ledger.Status, caseID *uint, errText string) {
	if err := r.ledger.Complete(attempt, status, caseID, errText); err != nil {
		r.logger.Error("Failed to complete ledger attempt", "attempt", attempt.ID, "status", string(status), "error", err)
	}
}

func failureMessage(kind source.ErrorKind) string {
	switch kind {
	case source.KindConnectivity:
		return "Unable to connect to court website. Please try again later."
	case source.KindTimeout:
		return "Request timed out. The court website may be busy. Please try again."
	default:
		return "An unexpected error occurred while processing your request."
	}
}

// buildCase maps a source payload onto the persistent case and its
// document batch
func buildCase(q *query.CaseQuery, data *source.RawCaseData, summaryText string) (*database.CourtCase, []database.CaseOrder) {
	c := &database.CourtCase{
		CaseType:           q.CaseType,
		CaseNumber:         q.CaseNumber,
		FilingYear:         q.FilingYear,
		CourtName:          q.CourtName,
		CaseTitle:          data.CaseTitle,
		PetitionerName:     data.PetitionerName,
		RespondentName:     data.RespondentName,
		CaseStatus:         data.CaseStatus,
		JudgeName:          data.JudgeName,
		AdvocatePetitioner: data.AdvocatePetitioner,
		AdvocateRespondent: data.AdvocateRespondent,
		FilingDate:         parseOptionalDate(data.FilingDate),
		RegistrationDate:   parseOptionalDate(data.RegistrationDate),
		NextHearingDate:    parseOptionalDate(data.NextHearingDate),
		RawResponse:        data.RawHTML,
		AISummary:          summaryText,
		SourceURL:          data.SourceURL,
		SourceMethod:       data.Method,
	}
	if err := c.SetParsedData(data.Map()); err != nil {
		// Parsed payload is supplementary; the case still persists
		c.ParsedData = ""
	}

	// A sole document in the batch is marked latest; batches with
	// several documents get no marker.
	soleDocument := len(data.Documents) == 1

	orders := make([]database.CaseOrder, 0, len(data.Documents))
	for _, doc := range data.Documents {
		orderType := doc.Type
		if orderType == "" {
			orderType = "order"
		}
		orders = append(orders, database.CaseOrder{
			OrderDate:  parseOptionalDate(doc.Date),
			OrderType:  orderType,
			OrderTitle: doc.Title,
			PDFURL:     doc.URL,
			IsLatest:   soleDocument,
		})
	}

	return c, orders
}

// parseOptionalDate returns nil for dates that are missing or
// unreadable; a bad date never blocks the pipeline
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	date, err := source.ParseDate(s)
	if err != nil {
		return nil
	}
	return &date
}
