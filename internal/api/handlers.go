package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JustJay7/court-case-resolver/internal/cache"
	"github.com/JustJay7/court-case-resolver/internal/documents"
	"github.com/JustJay7/court-case-resolver/internal/ledger"
	"github.com/JustJay7/court-case-resolver/internal/query"
	"github.com/JustJay7/court-case-resolver/internal/resolver"
	"github.com/JustJay7/court-case-resolver/internal/store"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	resolver   *resolver.Resolver
	store      *store.CaseStore
	ledger     *ledger.Ledger
	cache      cache.Cache
	downloader *documents.Downloader
	logger     *logger.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	res *resolver.Resolver,
	caseStore *store.CaseStore,
	queryLedger *ledger.Ledger,
	hotCache cache.Cache,
	downloader *documents.Downloader,
	log *logger.Logger,
) *Handlers {
	return &Handlers{
		resolver:   res,
		store:      caseStore,
		ledger:     queryLedger,
		cache:      hotCache,
		downloader: downloader,
		logger:     log,
	}
}

// SearchCase resolves a case query through the pipeline
func (h *Handlers) SearchCase(c *gin.Context) {
	var raw query.Raw
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	result := h.resolver.Resolve(c.Request.Context(), resolver.Request{
		Fields: raw,
		Meta: ledger.RequesterMeta{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		},
	})

	switch result.Kind {
	case resolver.KindValidationFailed:
		c.JSON(http.StatusBadRequest, gin.H{
			"success":           false,
			"outcome":           string(result.Kind),
			"error":             result.Message,
			"validation_errors": result.Violations,
		})

	case resolver.KindCacheHit:
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"outcome":   string(result.Kind),
			"fromCache": true,
			"data":      result.Case,
			"summary":   result.Summary,
		})

	case resolver.KindFresh:
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"outcome":   string(result.Kind),
			"fromCache": false,
			"data":      result.Case,
			"summary":   result.Summary,
		})

	case resolver.KindNoData:
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"outcome": string(result.Kind),
			"error":   result.Message,
		})

	default: // resolver.KindFailed
		status := http.StatusBadGateway
		if result.FailureKind == resolver.FailureStorage {
			status = http.StatusInternalServerError
		}
		body := gin.H{
			"success":    false,
			"outcome":    string(result.Kind),
			"error_kind": result.FailureKind,
			"error":      result.Message,
		}
		// A storage failure after a successful fetch still carries the
		// fetched case for display
		if result.Case != nil {
			body["data"] = result.Case
			body["summary"] = result.Summary
		}
		c.JSON(status, body)
	}
}

// GetCase returns a stored case with its documents
func (h *Handlers) GetCase(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid case ID"})
		return
	}

	courtCase, err := h.store.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load case"})
		return
	}
	if courtCase == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Case not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        courtCase,
		"parsed_data": courtCase.GetParsedData(),
	})
}

// ListCases returns stored cases with pagination
func (h *Handlers) ListCases(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	cases, total, err := h.store.List(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list cases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cases,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// DownloadDocument fetches a document's PDF to local storage
func (h *Handlers) DownloadDocument(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid document ID"})
		return
	}

	localPath, err := h.downloader.Download(c.Request.Context(), uint(id))
	if err != nil {
		h.logger.Error("Document download failed", "documentID", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to download document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"local_path": localPath,
	})
}

// History returns recent resolution attempts from the ledger
func (h *Handlers) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 200 {
		limit = 20
	}

	attempts, err := h.ledger.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    attempts,
	})
}

// Stats returns resolution and storage statistics
func (h *Handlers) Stats(c *gin.Context) {
	byStatus, err := h.ledger.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load stats"})
		return
	}

	totalCases, err := h.store.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total_cases":       totalCases,
			"queries_by_status": byStatus,
			"cache":             h.cache.Stats(),
			"known_case_types":  query.CaseTypes(),
		},
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	_, err := h.store.Count()

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": err == nil,
		"cache":    h.cache.Stats(),
		"time":     time.Now().Unix(),
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.cache.Stats(),
	})
}
