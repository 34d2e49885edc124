package database

import (
	"gorm.io/gorm"
)

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Fingerprint lookup. Deliberately not UNIQUE: concurrent first
	// resolutions of the same fingerprint may each insert a row, and
	// callers tolerate that (reads take the first match).
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_court_cases_fingerprint
		ON court_cases(case_type, case_number, filing_year, court_name)
	`).Error; err != nil {
		return err
	}

	// Index for query history
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_search_queries_time
		ON search_queries(query_time)
	`).Error; err != nil {
		return err
	}

	// Index for orders by date
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_case_orders_date
		ON case_orders(order_date)
	`).Error; err != nil {
		return err
	}

	return nil
}
