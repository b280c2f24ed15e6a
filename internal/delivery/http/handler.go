package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pozmatch/backend/internal/domain"
	"github.com/pozmatch/backend/internal/usecase"
)

// subscriptionHeader is set by the upstream auth gateway after it verifies
// the caller's subscription state; this service never checks identity or
// billing itself.
const subscriptionHeader = "X-Subscription-Active"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matchService *usecase.MatchService
	adminService *usecase.AdminService
	cache        domain.CatalogCache
}

// NewHandler creates a new HTTP handler
func NewHandler(matchService *usecase.MatchService, adminService *usecase.AdminService, cache domain.CatalogCache) *Handler {
	return &Handler{
		matchService: matchService,
		adminService: adminService,
		cache:        cache,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pozmatch-backend",
		"version": "1.0.0",
	})
}

// matchRequest is the JSON body for MatchLines
type matchRequest struct {
	Text string `json:"text"`
}

// MatchLines matches an uploaded bill-of-quantities text against the catalog
func (h *Handler) MatchLines(c *gin.Context) {
	text, ok := h.readMatchText(c)
	if !ok {
		return
	}

	hasActiveSubscription := c.GetHeader(subscriptionHeader) == "true"

	results, err := h.matchService.MatchLines(c.Request.Context(), text, hasActiveSubscription)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// readMatchText accepts either a JSON body {"text": ...} or a raw text body.
func (h *Handler) readMatchText(c *gin.Context) (string, bool) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req matchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return "", false
		}
		return req.Text, true
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return "", false
	}
	return string(body), true
}

// ListCatalog returns the current catalog snapshot with price gating applied
func (h *Handler) ListCatalog(c *gin.Context) {
	hasActiveSubscription := c.GetHeader(subscriptionHeader) == "true"

	snapshot := h.cache.Snapshot()
	items := make([]domain.CatalogItem, len(snapshot))
	copy(items, snapshot)

	if !hasActiveSubscription {
		for i := range items {
			items[i].UnitPrice = 0
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// ReloadCatalog forces a synchronous catalog reload
func (h *Handler) ReloadCatalog(c *gin.Context) {
	count, err := h.cache.Reload(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// UpsertItem creates or replaces one catalog item
func (h *Handler) UpsertItem(c *gin.Context) {
	var item domain.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid catalog item"})
		return
	}

	if err := h.adminService.UpsertItem(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bulkUpsertRequest is the JSON body for BulkUpsert
type bulkUpsertRequest struct {
	Items []domain.CatalogItem `json:"items"`
}

// BulkUpsert applies a batch of catalog items keyed by code
func (h *Handler) BulkUpsert(c *gin.Context) {
	var req bulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bulk payload"})
		return
	}

	added, err := h.adminService.BulkUpsert(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "addedCount": added})
}

// DeleteItem removes one catalog item by code
func (h *Handler) DeleteItem(c *gin.Context) {
	code := c.Param("code")

	if err := h.adminService.DeleteItem(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCatalog), errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreWriteFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
