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

// ratesHandler handles HTTP requests related to exchange rates.
type ratesHandler struct {
	rateService portssvc.RateSvcFacade
}

// newRatesHandler creates a new ratesHandler.
func newRatesHandler(rs portssvc.RateSvcFacade) *ratesHandler {
	return &ratesHandler{
		rateService: rs,
	}
}

// registerRatesRoutes registers routes related to exchange rates.
func registerRatesRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newRatesHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.GET("/convert", h.convert)
		rates.GET("/:from/:to", h.getRate)
	}
}

// getRate godoc
// @Summary Get an exchange rate
// @Description Retrieves the current exchange rate for a currency pair. Unsupported currencies yield a 1.0 no-op rate.
// @Tags rates
// @Produce json
// @Param from path string true "From Currency Code (3 letters)"
// @Param to path string true "To Currency Code (3 letters)"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Router /rates/{from}/{to} [get]
func (h *ratesHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := strings.ToUpper(c.Param("from"))
	to := strings.ToUpper(c.Param("to"))
	if len(from) != 3 || len(to) != 3 {
		logger.Warn("Invalid currency pair", slog.String("from", from), slog.String("to", to))
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency codes must be 3 letters"})
		return
	}

	table := h.rateService.RefreshIfStale(c.Request.Context())
	c.JSON(http.StatusOK, dto.RateResponse{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             table.Rate(from, to),
		Provenance:       string(table.Provenance),
		RefreshedAt:      table.RefreshedAt,
	})
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount using the current rate table
// @Tags rates
// @Produce json
// @Param amount query number true "Amount to convert"
// @Param from query string true "From Currency Code (3 letters)"
// @Param to query string true "To Currency Code (3 letters)"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Router /rates/convert [get]
func (h *ratesHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	from := strings.ToUpper(req.From)
	to := strings.ToUpper(req.To)

	table := h.rateService.RefreshIfStale(c.Request.Context())
	c.JSON(http.StatusOK, dto.ConvertResponse{
		Amount:           req.Amount,
		Converted:        table.Convert(req.Amount, from, to),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             table.Rate(from, to),
		Provenance:       string(table.Provenance),
	})
}
