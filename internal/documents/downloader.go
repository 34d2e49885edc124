package documents

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/database"
	"github.com/JustJay7/court-case-resolver/internal/store"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

// Downloader fetches linked documents onto local storage after a case
// has been resolved. Downloading is independently idempotent: marking a
// document cached is a one-way transition and safe to repeat.
type Downloader struct {
	store     *store.CaseStore
	logger    *logger.Logger
	savePath  string
	userAgent string
	client    *http.Client
}

func NewDownloader(caseStore *store.CaseStore, cfg *config.Config, log *logger.Logger) *Downloader {
	return &Downloader{
		store:     caseStore,
		logger:    log,
		savePath:  cfg.DownloadDir,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.DownloadTimeout,
		},
	}
}

// Download retrieves one document's PDF to local storage and marks it
// cached. Returns the local path; a document already downloaded is
// returned as-is.
func (d *Downloader) Download(ctx context.Context, orderID uint) (string, error) {
	order, err := d.store.GetOrder(orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", fmt.Errorf("document %d not found", orderID)
	}
	if order.PDFURL == "" {
		return "", fmt.Errorf("document %d has no PDF link", orderID)
	}

	if order.PDFDownloaded && order.LocalPDFPath != "" {
		if _, err := os.Stat(order.LocalPDFPath); err == nil {
			return order.LocalPDFPath, nil
		}
		// Stale marker; re-download below
	}

	localPath, err := d.fetchPDF(ctx, order)
	if err != nil {
		return "", err
	}

	if err := d.store.MarkDocumentCached(order.ID, localPath); err != nil {
		return "", err
	}

	return localPath, nil
}

// DownloadPending sweeps all documents that have a PDF link but no
// local copy yet
func (d *Downloader) DownloadPending(ctx context.Context) error {
	orders, err := d.store.PendingDownloads()
	if err != nil {
		return fmt.Errorf("failed to fetch pending downloads: %w", err)
	}

	d.logger.Info("Found documents to download", "count", len(orders))

	for i := range orders {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, err := d.Download(ctx, orders[i].ID); err != nil {
			d.logger.Error("Failed to download document", "orderID", orders[i].ID, "error", err)
			continue
		}

		// Rate limiting against the court site
		time.Sleep(2 * time.Second)
	}

	return nil
}

// fetchPDF downloads a single PDF file into pdfs/YYYY/MM/
func (d *Downloader) fetchPDF(ctx context.Context, order *database.CaseOrder) (string, error) {
	now := time.Now()
	dirPath := filepath.Join(d.savePath, "pdfs",
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()))

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dateTag := "undated"
	if order.OrderDate != nil {
		dateTag = strings.ReplaceAll(order.OrderDate.Format("2006-01-02"), "-", "")
	}
	filename := fmt.Sprintf("order_%d_%s.pdf", order.ID, dateTag)
	fullPath := filepath.Join(dirPath, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, order.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, resp.Body)
	if err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	d.logger.Info("PDF downloaded successfully",
		"orderID", order.ID,
		"size", size,
		"path", fullPath)

	return fullPath, nil
}
