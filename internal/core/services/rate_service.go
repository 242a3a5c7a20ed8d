package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// fallbackRates is the static rate table used before the first successful
// live fetch and whenever the provider is unreachable. Relative to USD.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.50,
	"CHF": 0.88,
	"CAD": 1.36,
	"AUD": 1.52,
	"CNY": 7.24,
	"HKD": 7.81,
	"TWD": 31.50,
	"SGD": 1.34,
	"KRW": 1330.0,
	"INR": 83.10,
}

// rateService implements the CurrencyRateProvider: a pivot-relative exchange
// rate table refreshed from an external source under a TTL, degrading to the
// static fallback table when the source is unavailable.
type rateService struct {
	BaseService
	source clients.RateSource
	pivot  string
	ttl    time.Duration

	// mu guards table. Refresh holds it across the fetch so at most one
	// refresh is ever in flight and readers never observe a partial table.
	mu    sync.Mutex
	table domain.RateTable

	now func() time.Time
}

// RateServiceOption is a functional option for configuring the rate service
type RateServiceOption func(*rateService)

// WithRateClock overrides the service's time source, for tests.
func WithRateClock(now func() time.Time) RateServiceOption {
	return func(s *rateService) {
		s.now = now
	}
}

// NewRateService creates a new rate service seeded with the static fallback
// table. The first call after construction attempts a live fetch.
func NewRateService(source clients.RateSource, pivot string, ttl time.Duration, options ...RateServiceOption) portssvc.RateSvcFacade {
	pivot = strings.ToUpper(pivot)

	rates := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		rates[code] = rate
	}
	if _, ok := rates[pivot]; !ok {
		rates[pivot] = 1.0
	}

	svc := &rateService{
		source: source,
		pivot:  pivot,
		ttl:    ttl,
		now:    time.Now,
		table: domain.RateTable{
			Base:       pivot,
			Rates:      rates,
			Provenance: domain.ProvenanceFallback,
			// RefreshedAt stays zero so the first caller triggers a fetch.
		},
	}

	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// Rate returns how many 'to' units one 'from' unit buys, from the current
// table. Unsupported currencies yield 1.0 (degrade-not-fail).
func (s *rateService) Rate(ctx context.Context, from, to string) float64 {
	return s.Table(ctx).Rate(from, to)
}

// Convert converts an amount between currencies at the current rate.
func (s *rateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	return s.Table(ctx).Convert(amount, from, to)
}

// Table returns a copy of the current rate table.
func (s *rateService) Table(_ context.Context) domain.RateTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTable(s.table)
}

// RefreshIfStale re-fetches the table when it is older than the TTL. Fetch
// failures are logged and absorbed: the previous table (live or fallback)
// stays in place with its provenance unchanged, and the stale timestamp is
// kept so the next caller retries.
func (s *rateService) RefreshIfStale(ctx context.Context) domain.RateTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Sub(s.table.RefreshedAt) <= s.ttl {
		return copyTable(s.table)
	}

	fetched, err := s.source.FetchRates(ctx, s.pivot)
	if err != nil {
		s.LogWarn(ctx, "Exchange rate refresh failed, retaining previous table",
			slog.String("pivot", s.pivot),
			slog.String("provenance", string(s.table.Provenance)),
			slog.String("error", err.Error()))
		return copyTable(s.table)
	}

	fetched.Rates[s.pivot] = 1.0
	s.table = *fetched
	s.LogInfo(ctx, "Exchange rate table refreshed",
		slog.String("pivot", s.pivot),
		slog.Int("currencies", len(fetched.Rates)))
	return copyTable(s.table)
}

func copyTable(t domain.RateTable) domain.RateTable {
	rates := make(map[string]float64, len(t.Rates))
	for code, rate := range t.Rates {
		rates[code] = rate
	}
	t.Rates = rates
	return t
}
