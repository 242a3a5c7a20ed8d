package services

import (
	"context"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateReaderSvc defines read operations against the current rate table.
type RateReaderSvc interface {
	// Rate returns how many 'to' units one 'from' unit buys. Unsupported
	// currencies yield 1.0 (degrade-not-fail).
	Rate(ctx context.Context, from, to string) float64

	// Convert converts an amount between currencies at the current rate.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal

	// Table returns a copy of the current rate table.
	Table(ctx context.Context) domain.RateTable
}

// RateRefresherSvc defines the refresh operation on the rate table.
type RateRefresherSvc interface {
	// RefreshIfStale re-fetches the table when it is older than its TTL.
	// Fetch failures are absorbed: the previous table is retained and
	// returned with its provenance unchanged.
	RefreshIfStale(ctx context.Context) domain.RateTable
}

// RateSvcFacade combines all rate-related service interfaces.
type RateSvcFacade interface {
	RateReaderSvc
	RateRefresherSvc
}

// QuoteSvcFacade defines quote lookup operations.
type QuoteSvcFacade interface {
	// Quote returns the current quote for symbol, from cache when fresh.
	// A nil result means no quote is available anywhere (live or mock);
	// callers fall back to cost basis.
	Quote(ctx context.Context, symbol string) *domain.Quote

	// QuotesFor resolves each symbol sequentially through Quote. Symbols
	// with no quote available are absent from the result map.
	QuotesFor(ctx context.Context, symbols []string) map[string]*domain.Quote
}
