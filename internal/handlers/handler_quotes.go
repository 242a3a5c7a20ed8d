package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
	"github.com/hero710690/worthy-backend/internal/dto"
	"github.com/hero710690/worthy-backend/internal/middleware"
)

// quotesHandler handles HTTP requests related to market quotes.
type quotesHandler struct {
	quoteService portssvc.QuoteSvcFacade
}

// newQuotesHandler creates a new quotesHandler.
func newQuotesHandler(qs portssvc.QuoteSvcFacade) *quotesHandler {
	return &quotesHandler{
		quoteService: qs,
	}
}

// registerQuotesRoutes registers routes related to market quotes.
func registerQuotesRoutes(rg *gin.RouterGroup, quoteService portssvc.QuoteSvcFacade) {
	h := newQuotesHandler(quoteService)

	quotes := rg.Group("/quotes")
	{
		quotes.GET("/:symbol", h.getQuote)
	}
}

// getQuote godoc
// @Summary Get the current quote for a symbol
// @Description Returns the cached or freshly fetched quote; mock data is served when the provider is unavailable
// @Tags quotes
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} map[string]string "No quote available"
// @Router /quotes/{symbol} [get]
func (h *quotesHandler) getQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	symbol := strings.ToUpper(c.Param("symbol"))

	quote := h.quoteService.Quote(c.Request.Context(), symbol)
	if quote == nil {
		logger.Warn("No quote available", slog.String("symbol", symbol))
		c.JSON(http.StatusNotFound, gin.H{"error": "No quote available for " + symbol})
		return
	}

	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}
