package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
	"github.com/hero710690/worthy-backend/internal/utils/timedcache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// mockPrices are static fallback quotes for well-known symbols, used when
// the live provider fails. Denominated in USD.
var mockPrices = map[string]float64{
	"AAPL":  195.50,
	"MSFT":  420.30,
	"GOOGL": 175.20,
	"AMZN":  185.40,
	"NVDA":  128.75,
	"TSLA":  248.90,
	"TSM":   184.60,
	"VOO":   520.10,
	"VT":    110.85,
	"QQQ":   480.25,
	"BND":   72.40,
}

// quoteService implements the PriceProvider: a per-symbol quote cache with a
// short TTL, live fetches serialized under a minimum inter-call spacing, and
// static mock fallbacks. Fetches are deliberately sequential; the provider
// enforces a per-minute call ceiling, so a deferred call beats a rejected one.
type quoteService struct {
	BaseService
	source  clients.QuoteSource
	cache   *timedcache.Cache[string, domain.Quote]
	limiter *rate.Limiter
}

// NewQuoteService creates a new quote service. minInterval is the minimum
// spacing between consecutive provider calls.
func NewQuoteService(source clients.QuoteSource, cacheTTL, minInterval time.Duration) portssvc.QuoteSvcFacade {
	return &quoteService{
		source:  source,
		cache:   timedcache.New[string, domain.Quote](cacheTTL),
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

var _ portssvc.QuoteSvcFacade = (*quoteService)(nil)

// Quote returns the current quote for symbol. Cache hit within TTL short-
// circuits; otherwise one live fetch is attempted under the pacing limiter.
// On failure the static mock table is consulted; a nil return means no quote
// exists anywhere and the caller should value at cost basis.
func (s *quoteService) Quote(ctx context.Context, symbol string) *domain.Quote {
	symbol = strings.ToUpper(symbol)

	if cached, ok := s.cache.Get(symbol); ok {
		return &cached
	}

	// Defer rather than reject: Wait blocks until the limiter grants a slot.
	if err := s.limiter.Wait(ctx); err != nil {
		s.LogWarn(ctx, "Quote pacing wait aborted", slog.String("symbol", symbol), slog.String("error", err.Error()))
		return s.mockQuote(ctx, symbol)
	}

	quote, err := s.source.FetchQuote(ctx, symbol)
	if err != nil {
		s.LogWarn(ctx, "Quote fetch failed, falling back",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		return s.mockQuote(ctx, symbol)
	}

	s.cache.Set(symbol, *quote)
	return quote
}

// QuotesFor resolves each symbol sequentially through Quote. Not parallel,
// by design: pacing compliance requires serialized calls.
func (s *quoteService) QuotesFor(ctx context.Context, symbols []string) map[string]*domain.Quote {
	quotes := make(map[string]*domain.Quote, len(symbols))
	for _, symbol := range symbols {
		if quote := s.Quote(ctx, symbol); quote != nil {
			quotes[strings.ToUpper(symbol)] = quote
		}
	}
	return quotes
}

// mockQuote returns a static quote for known symbols, nil otherwise. Mock
// quotes are not cached, so the next request past the TTL retries live.
func (s *quoteService) mockQuote(ctx context.Context, symbol string) *domain.Quote {
	price, ok := mockPrices[symbol]
	if !ok {
		s.LogDebug(ctx, "No mock quote available", slog.String("symbol", symbol))
		return nil
	}
	return &domain.Quote{
		Symbol:       symbol,
		Price:        decimal.NewFromFloat(price),
		CurrencyCode: "USD",
		RefreshedAt:  time.Now(),
		Provenance:   domain.ProvenanceMock,
	}
}
