package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
	"github.com/hero710690/worthy-backend/internal/dto"
	"github.com/hero710690/worthy-backend/internal/middleware"
)

// portfolioHandler handles HTTP requests for portfolio valuation and returns.
type portfolioHandler struct {
	portfolioAPI     clients.PortfolioAPI
	valuationService portssvc.ValuationSvcFacade
	returnsService   portssvc.ReturnsSvcFacade
	defaultCurrency  string
}

// newPortfolioHandler creates a new portfolioHandler.
func newPortfolioHandler(portfolioAPI clients.PortfolioAPI, vs portssvc.ValuationSvcFacade, rs portssvc.ReturnsSvcFacade, defaultCurrency string) *portfolioHandler {
	return &portfolioHandler{
		portfolioAPI:     portfolioAPI,
		valuationService: vs,
		returnsService:   rs,
		defaultCurrency:  defaultCurrency,
	}
}

// registerPortfolioRoutes registers routes related to portfolio calculations.
func registerPortfolioRoutes(rg *gin.RouterGroup, portfolioAPI clients.PortfolioAPI, vs portssvc.ValuationSvcFacade, rs portssvc.ReturnsSvcFacade, defaultCurrency string) {
	h := newPortfolioHandler(portfolioAPI, vs, rs, defaultCurrency)

	portfolio := rg.Group("/portfolio")
	{
		portfolio.GET("/valuation", h.getValuation)
		portfolio.GET("/returns", h.getReturns)
		portfolio.GET("/performance", h.getPerformance)
	}
}

// baseCurrency resolves the requested base currency, defaulting to the
// configured pivot.
func (h *portfolioHandler) baseCurrency(c *gin.Context) string {
	base := strings.ToUpper(c.Query("base"))
	if len(base) != 3 {
		return h.defaultCurrency
	}
	return base
}

// getValuation godoc
// @Summary Get the current portfolio valuation
// @Description Values every holding at current market prices, converted to the base currency, with allocation breakdowns
// @Tags portfolio
// @Produce json
// @Param base query string false "Base currency code (3 letters)" default(USD)
// @Success 200 {object} dto.PortfolioValuationResponse
// @Failure 503 {object} map[string]string "Upstream holdings unavailable"
// @Router /portfolio/valuation [get]
func (h *portfolioHandler) getValuation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := h.baseCurrency(c)

	holdings, err := h.portfolioAPI.ListHoldings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch holdings", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No portfolio data available"})
		return
	}

	valuation := h.valuationService.ValuatePortfolio(c.Request.Context(), holdings, base)
	c.JSON(http.StatusOK, dto.ToPortfolioValuationResponse(valuation))
}

// getReturns godoc
// @Summary Get portfolio performance figures
// @Description Computes capital contributed, total and annualized returns, dividends and risk metrics from transaction ledgers
// @Tags portfolio
// @Produce json
// @Param base query string false "Base currency code (3 letters)" default(USD)
// @Success 200 {object} dto.PortfolioReturnsResponse
// @Failure 503 {object} map[string]string "Upstream holdings unavailable"
// @Router /portfolio/returns [get]
func (h *portfolioHandler) getReturns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := h.baseCurrency(c)

	holdings, err := h.portfolioAPI.ListHoldings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch holdings", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No portfolio data available"})
		return
	}

	returns, err := h.returnsService.CalculatePortfolioReturns(c.Request.Context(), holdings, base)
	if err != nil {
		logger.Error("Failed to calculate portfolio returns", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate portfolio returns"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioReturnsResponse(returns))
}

// getPerformance godoc
// @Summary Get the monthly performance trajectory
// @Description Returns the upstream performance summary when available, otherwise a trajectory approximated from the aggregate annualized return
// @Tags portfolio
// @Produce json
// @Param period query int false "Window length in months" default(12)
// @Param base query string false "Base currency code (3 letters)" default(USD)
// @Success 200 {array} dto.PerformancePointResponse
// @Failure 503 {object} map[string]string "Upstream holdings unavailable"
// @Router /portfolio/performance [get]
func (h *portfolioHandler) getPerformance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := h.baseCurrency(c)

	months, err := strconv.Atoi(c.DefaultQuery("period", "12"))
	if err != nil || months <= 0 {
		months = 12
	}

	// Prefer the upstream summary; it is served verbatim. The local
	// approximation only covers for deployments without the reporting
	// endpoint.
	summary, err := h.portfolioAPI.PerformanceSummary(c.Request.Context(), months)
	if err == nil {
		c.Data(http.StatusOK, "application/json", summary)
		return
	}
	logger.Debug("Upstream performance summary unavailable, approximating locally",
		slog.String("error", err.Error()))

	holdings, err := h.portfolioAPI.ListHoldings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch holdings", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No portfolio data available"})
		return
	}

	points, err := h.returnsService.PerformanceTrajectory(c.Request.Context(), holdings, base, months)
	if err != nil {
		logger.Error("Failed to build performance trajectory", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build performance trajectory"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPerformancePointResponses(points))
}
