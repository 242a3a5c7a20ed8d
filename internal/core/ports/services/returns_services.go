package services

import (
	"context"

	"github.com/hero710690/worthy-backend/internal/core/domain"
)

// ReturnsSvcFacade computes transaction-based performance figures.
type ReturnsSvcFacade interface {
	// CalculatePortfolioReturns computes per-asset and aggregate returns for
	// the given holdings. Results are memoized for a short TTL under a
	// fingerprint of (baseCurrency, holding id + update-timestamp pairs), so
	// any holding mutation invalidates the cache implicitly.
	CalculatePortfolioReturns(ctx context.Context, holdings []domain.Holding, baseCurrency string) (*domain.PortfolioReturns, error)

	// PerformanceTrajectory approximates a monthly value trajectory over the
	// given window from the portfolio's single annualized-return figure.
	PerformanceTrajectory(ctx context.Context, holdings []domain.Holding, baseCurrency string, months int) ([]domain.PerformancePoint, error)
}
