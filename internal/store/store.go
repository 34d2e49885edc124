package store

import (
	"fmt"

	"github.com/JustJay7/court-case-resolver/internal/database"
	"github.com/JustJay7/court-case-resolver/internal/query"
	"gorm.io/gorm"
)

// CaseStore is the durable keyed storage for resolved cases and their
// linked documents. Writes only; no network I/O.
type CaseStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *CaseStore {
	return &CaseStore{db: db}
}

// FindByFingerprint looks up a case by exact match on the four
// fingerprint fields. Returns (nil, nil) when absent.
func (s *CaseStore) FindByFingerprint(q *query.CaseQuery) (*database.CourtCase, error) {
	var c database.CourtCase
	err := s.db.Preload("Orders").
		Where("case_type = ? AND case_number = ? AND filing_year = ? AND court_name = ?",
			q.CaseType, q.CaseNumber, q.FilingYear, q.CourtName).
		First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fingerprint lookup failed: %w", err)
	}
	return &c, nil
}

// Save persists a case together with its document batch in a single
// transaction: either everything persists or nothing does.
func (s *CaseStore) Save(c *database.CourtCase, orders []database.CaseOrder) (uint, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		for i := range orders {
			orders[i].CaseID = c.ID
			if err := tx.Create(&orders[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save case: %w", err)
	}
	c.Orders = orders
	return c.ID, nil
}

// GetByID fetches a case with its documents
func (s *CaseStore) GetByID(id uint) (*database.CourtCase, error) {
	var c database.CourtCase
	if err := s.db.Preload("Orders").First(&c, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("case lookup failed: %w", err)
	}
	return &c, nil
}

// GetOrder fetches a single document
func (s *CaseStore) GetOrder(id uint) (*database.CaseOrder, error) {
	var o database.CaseOrder
	if err := s.db.First(&o, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("order lookup failed: %w", err)
	}
	return &o, nil
}

// MarkDocumentCached records a completed download. Idempotent and
// monotonic: uncached -> cached, repeat calls just rewrite the path.
func (s *CaseStore) MarkDocumentCached(orderID uint, localPath string) error {
	err := s.db.Model(&database.CaseOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"pdf_downloaded": true,
			"local_pdf_path": localPath,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark document %d cached: %w", orderID, err)
	}
	return nil
}

// PendingDownloads lists documents with a PDF link and no local copy
func (s *CaseStore) PendingDownloads() ([]database.CaseOrder, error) {
	var orders []database.CaseOrder
	err := s.db.Where("pdf_url != ? AND pdf_downloaded = ?", "", false).Find(&orders).Error
	return orders, err
}

// List returns stored cases, newest first, with pagination
func (s *CaseStore) List(page, limit int) ([]database.CourtCase, int64, error) {
	var total int64
	if err := s.db.Model(&database.CourtCase{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []database.CourtCase
	err := s.db.Preload("Orders").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").
		Find(&cases).Error
	return cases, total, err
}

// Count returns the number of stored cases
func (s *CaseStore) Count() (int64, error) {
	var total int64
	err := s.db.Model(&database.CourtCase{}).Count(&total).Error
	return total, err
}
