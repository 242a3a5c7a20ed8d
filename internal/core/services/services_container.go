package services

import (
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
	"github.com/hero710690/worthy-backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. Services are constructed once at process start
// and passed by reference; there is no hidden global state.
func NewServiceContainer(cfg *config.Config, rateSource clients.RateSource, quoteSource clients.QuoteSource, portfolioAPI clients.PortfolioAPI) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Providers first since the engines depend on them
	container.Rates = NewRateService(rateSource, cfg.BaseCurrency, cfg.RateCacheTTL)
	container.Quotes = NewQuoteService(quoteSource, cfg.QuoteCacheTTL, cfg.QuoteMinInterval)

	container.Valuation = NewValuationService(container.Rates, container.Quotes)
	container.Returns = NewReturnsService(
		portfolioAPI,
		container.Rates,
		container.Valuation,
		cfg.TxnCacheTTL,
		cfg.ReturnsCacheTTL,
		WithRiskFreeRate(cfg.RiskFreeRatePercent),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RateSvcFacade      = (*rateService)(nil)
	_ portssvc.QuoteSvcFacade     = (*quoteService)(nil)
	_ portssvc.ValuationSvcFacade = (*valuationService)(nil)
	_ portssvc.ReturnsSvcFacade   = (*returnsService)(nil)
)
