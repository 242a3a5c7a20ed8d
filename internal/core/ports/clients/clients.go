package clients

import (
	"context"
	"encoding/json"

	"github.com/hero710690/worthy-backend/internal/core/domain"
)

// RateSource fetches a full exchange-rate table relative to the pivot
// currency from an external provider.
type RateSource interface {
	// FetchRates retrieves the current rate table for the given pivot.
	FetchRates(ctx context.Context, pivot string) (*domain.RateTable, error)
}

// QuoteSource fetches the current market quote for one symbol from an
// external provider. Implementations do not pace calls; pacing is the quote
// service's responsibility.
type QuoteSource interface {
	// FetchQuote retrieves the latest quote for symbol.
	FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// PortfolioAPI is the upstream asset/transaction CRUD service. This engine
// only reads from it.
type PortfolioAPI interface {
	// ListHoldings retrieves all holdings.
	ListHoldings(ctx context.Context) ([]domain.Holding, error)

	// ListTransactions retrieves the normalized transaction ledger for one
	// holding.
	ListTransactions(ctx context.Context, holdingID string) ([]domain.Transaction, error)

	// PerformanceSummary retrieves the server-computed performance summary
	// for the given period in months, passed through untouched.
	PerformanceSummary(ctx context.Context, periodMonths int) (json.RawMessage, error)
}
