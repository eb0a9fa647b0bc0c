package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisonService *usecase.ComparisonService
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisonService *usecase.ComparisonService) *Handler {
	return &Handler{
		comparisonService: comparisonService,
	}
}

// markupRequest carries a caller-supplied shop page
type markupRequest struct {
	HTML    string `json:"html" binding:"required"`
	BaseURL string `json:"baseUrl"`
	Query   string `json:"query"`
}

// textRequest carries caller-supplied snippet text
type textRequest struct {
	Text  string `json:"text" binding:"required"`
	Query string `json:"query"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// SearchPrices handles price comparison requests
func (h *Handler) SearchPrices(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	report, err := h.comparisonService.Compare(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExtractMarkup runs structured extraction on a posted HTML document
func (h *Handler) ExtractMarkup(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req markupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.comparisonService.ExtractMarkup(req.HTML, req.BaseURL, req.Query))
}

// ExtractText runs free-text extraction on posted snippet text
func (h *Handler) ExtractText(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.comparisonService.ExtractText(req.Text, req.Query))
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.comparisonService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Price service not configured",
		})
		return false
	}
	return true
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query must contain searchable text",
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "Price lookup timed out",
		})
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		c.Status(499)
	default:
		log.Printf("[HANDLER] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
