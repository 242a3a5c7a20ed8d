package services

import (
	"context"

	"github.com/hero710690/worthy-backend/internal/core/domain"
)

// ValuationSvcFacade combines current prices, cost basis and currency
// conversion into market values and unrealized gain/loss.
type ValuationSvcFacade interface {
	// ValuateOne values a single holding against a quote (or its cost basis
	// when quote is nil) and the given rate table.
	ValuateOne(ctx context.Context, holding domain.Holding, quote *domain.Quote, table domain.RateTable, baseCurrency string) domain.AssetValuation

	// ValuatePortfolio refreshes rates, batch-resolves quotes and values
	// every holding. A failure on one holding degrades that entry to its
	// cost basis instead of aborting the batch.
	ValuatePortfolio(ctx context.Context, holdings []domain.Holding, baseCurrency string) domain.PortfolioValuation
}
