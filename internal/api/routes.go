package api

import (
	"github.com/gin-gonic/gin"

	"github.com/JustJay7/court-case-resolver/internal/cache"
	"github.com/JustJay7/court-case-resolver/internal/documents"
	"github.com/JustJay7/court-case-resolver/internal/ledger"
	"github.com/JustJay7/court-case-resolver/internal/resolver"
	"github.com/JustJay7/court-case-resolver/internal/store"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	router *gin.Engine,
	res *resolver.Resolver,
	caseStore *store.CaseStore,
	queryLedger *ledger.Ledger,
	hotCache cache.Cache,
	downloader *documents.Downloader,
	log *logger.Logger,
) {
	h := NewHandlers(res, caseStore, queryLedger, hotCache, downloader, log)

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", h.HealthCheck)

		// Case resolution and retrieval
		api.POST("/search", h.SearchCase)
		api.GET("/cases", h.ListCases)
		api.GET("/cases/:id", h.GetCase)

		// Document retrieval to local storage
		api.POST("/documents/:id/download", h.DownloadDocument)

		// Ledger surfaces
		api.GET("/history", h.History)
		api.GET("/stats", h.Stats)

		// Cache stats
		api.GET("/cache/stats", h.CacheStats)
	}
}
