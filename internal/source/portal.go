package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/query"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

// PortalAdapter drives the court portal in a headless browser and
// extracts case data from the result pages. It carries its own timeout
// (cfg.SourceTimeout); failures surface as *Error, never as panics.
type PortalAdapter struct {
	cfg     *config.Config
	browser *rod.Browser
	logger  *logger.Logger
	mu      sync.Mutex
}

// NewPortalAdapter launches the browser
func NewPortalAdapter(cfg *config.Config, log *logger.Logger) (*PortalAdapter, error) {
	l := launcher.New().
		Headless(cfg.HeadlessMode).
		Set("user-agent", cfg.UserAgent).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")

	if cfg.BrowserPath != "" {
		l = l.Bin(cfg.BrowserPath)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &PortalAdapter{cfg: cfg, browser: browser, logger: log}, nil
}

// Close shuts the browser down
func (a *PortalAdapter) Close() error {
	return a.browser.Close()
}

// Fetch submits the case-status form and parses the result page
func (a *PortalAdapter) Fetch(ctx context.Context, q *query.CaseQuery) (*RawCaseData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.SourceTimeout)
	defer cancel()

	data, err := a.fetch(fetchCtx, q)
	if err != nil {
		if err == ErrNotFound {
			return nil, err
		}
		return nil, Classify(err)
	}
	return data, nil
}

func (a *PortalAdapter) fetch(ctx context.Context, q *query.CaseQuery) (*RawCaseData, error) {
	page, err := a.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080, DeviceScaleFactor: 1}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	searchURL := a.cfg.CourtBaseURL + "/app/get-case-type-status"
	a.logger.Info("Navigating to court portal", "url", searchURL)
	if err := page.Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load failed: %w", err)
	}

	if err := a.submitForm(page, q); err != nil {
		return nil, err
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("results did not load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read results page: %w", err)
	}

	body, err := page.Element("body")
	if err != nil {
		return nil, fmt.Errorf("results page has no body: %w", err)
	}
	bodyText, err := body.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to read results text: %w", err)
	}
	if looksLikeNoData(bodyText) {
		return nil, ErrNotFound
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read page info: %w", err)
	}

	data := &RawCaseData{
		CaseType:   q.CaseType,
		CaseNumber: q.CaseNumber,
		FilingYear: q.FilingYear,
		CourtName:  q.CourtName,
		SourceURL:  info.URL,
		Method:     "portal",
		RawHTML:    html,
	}

	if err := a.parseDetails(page, data); err != nil {
		return nil, err
	}
	a.parseDocuments(page, info.URL, data)

	return data, nil
}

// submitForm fills the case-status search form
func (a *PortalAdapter) submitForm(page *rod.Page, q *query.CaseQuery) error {
	caseTypeSelect, err := page.Element("#case_type")
	if err != nil {
		return fmt.Errorf("case type select not found: %w", err)
	}
	if err := caseTypeSelect.Select([]string{q.CaseType}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("failed to select case type: %w", err)
	}

	caseNumberInput, err := page.Element("#case_number")
	if err != nil {
		return fmt.Errorf("case number input not found: %w", err)
	}
	if err := caseNumberInput.Input(q.CaseNumber); err != nil {
		return fmt.Errorf("failed to enter case number: %w", err)
	}

	yearSelect, err := page.Element("#case_year")
	if err != nil {
		return fmt.Errorf("year select not found: %w", err)
	}
	if err := yearSelect.Select([]string{strconv.Itoa(q.FilingYear)}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("failed to select year: %w", err)
	}

	submitBtn, err := page.Element("#search")
	if err != nil {
		return fmt.Errorf("submit button not found: %w", err)
	}
	if err := submitBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to submit form: %w", err)
	}

	return nil
}

// parseDetails walks the case-details table rows
func (a *PortalAdapter) parseDetails(page *rod.Page, data *RawCaseData) error {
	table, err := page.Element("table.table, table#case_details, div.case-info table")
	if err != nil {
		return fmt.Errorf("no results table found: %w", err)
	}

	rows, err := table.Elements("tr")
	if err != nil {
		return fmt.Errorf("failed to read result rows: %w", err)
	}

	for _, row := range rows {
		cells, err := row.Elements("td, th")
		if err != nil || len(cells) < 2 {
			continue
		}
		label, err := cells[0].Text()
		if err != nil {
			continue
		}
		value, err := cells[1].Text()
		if err != nil {
			continue
		}
		applyLabel(data, label, value)
	}

	if data.CaseTitle == "" && data.PetitionerName != "" && data.RespondentName != "" {
		data.CaseTitle = data.PetitionerName + " vs " + data.RespondentName
	}

	if data.CaseStatus == "" && data.CaseTitle == "" {
		return fmt.Errorf("failed to extract case details from results page")
	}
	return nil
}

// parseDocuments collects order/judgment rows; absence of an orders
// table is not an error
func (a *PortalAdapter) parseDocuments(page *rod.Page, pageURL string, data *RawCaseData) {
	tables, err := page.Elements("table")
	if err != nil {
		return
	}

	var ordersTable *rod.Element
	for _, table := range tables {
		text, err := table.Text()
		if err != nil {
			continue
		}
		lower := strings.ToLower(text)
		if strings.Contains(lower, "order") && (strings.Contains(lower, "pdf") || strings.Contains(lower, "download")) {
			ordersTable = table
			break
		}
	}
	if ordersTable == nil {
		return
	}

	rows, err := ordersTable.Elements("tr")
	if err != nil {
		return
	}

	for i := 1; i < len(rows); i++ { // skip header
		cells, err := rows[i].Elements("td")
		if err != nil || len(cells) < 2 {
			continue
		}

		doc := Document{Type: "order"}

		if dateStr, err := cells[0].Text(); err == nil {
			doc.Date = normalizeDate(dateStr)
		}
		if title, err := cells[1].Text(); err == nil {
			doc.Title = strings.TrimSpace(title)
		}
		if strings.Contains(strings.ToLower(doc.Title), "judgment") ||
			strings.Contains(strings.ToLower(doc.Title), "judgement") {
			doc.Type = "judgment"
		}

		for _, cell := range cells {
			links, err := cell.Elements("a")
			if err != nil {
				continue
			}
			for _, link := range links {
				href, err := link.Attribute("href")
				if err != nil || href == nil {
					continue
				}
				lower := strings.ToLower(*href)
				if strings.Contains(lower, "pdf") || strings.Contains(lower, "download") || strings.Contains(lower, "order") {
					doc.URL = makeAbsoluteURL(pageURL, *href)
					break
				}
			}
			if doc.URL != "" {
				break
			}
		}

		if doc.Title != "" {
			data.Documents = append(data.Documents, doc)
		}
	}

	if len(data.Documents) > 0 {
		a.logger.Debug("Parsed linked documents", "count", len(data.Documents))
	}
}
