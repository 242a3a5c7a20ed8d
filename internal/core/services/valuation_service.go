package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
)

// valuationService implements the ValuationEngine: it combines current
// prices, cost basis and currency conversion into market values and
// unrealized gain/loss, degrading per asset on any provider failure.
type valuationService struct {
	BaseService
	rates  portssvc.RateSvcFacade
	quotes portssvc.QuoteSvcFacade
}

// NewValuationService creates a new valuation service.
func NewValuationService(rates portssvc.RateSvcFacade, quotes portssvc.QuoteSvcFacade) portssvc.ValuationSvcFacade {
	return &valuationService{
		rates:  rates,
		quotes: quotes,
	}
}

var _ portssvc.ValuationSvcFacade = (*valuationService)(nil)

// ValuateOne values a single holding. Unit price comes from the quote when
// present, else the holding's average cost basis: no quote means we assume no
// unrealized change rather than failing.
func (s *valuationService) ValuateOne(_ context.Context, holding domain.Holding, quote *domain.Quote, table domain.RateTable, baseCurrency string) domain.AssetValuation {
	v := domain.AssetValuation{
		HoldingID:    holding.HoldingID,
		Symbol:       holding.Symbol,
		AssetClass:   holding.AssetClass,
		CurrencyCode: holding.CurrencyCode,
		TotalUnits:   holding.TotalUnits,
	}

	if quote != nil {
		v.UnitPrice = quote.Price
		v.PriceCurrency = quote.CurrencyCode
		v.Provenance = quote.Provenance
	} else {
		v.UnitPrice = holding.AvgCostBasis
		v.PriceCurrency = holding.CurrencyCode
		v.Provenance = domain.ProvenanceCostBasis
	}

	v.PriceInBase = table.Convert(v.UnitPrice, v.PriceCurrency, baseCurrency)
	v.MarketValue = holding.TotalUnits.Mul(v.UnitPrice)
	v.MarketValueBase = table.Convert(v.MarketValue, v.PriceCurrency, baseCurrency)
	v.CostBasisBase = table.Convert(holding.CostBasisTotal(), holding.CurrencyCode, baseCurrency)
	v.GainLoss = v.MarketValueBase.Sub(v.CostBasisBase)
	if v.CostBasisBase.IsZero() {
		v.GainLossPercent = 0
	} else {
		v.GainLossPercent = v.GainLoss.Div(v.CostBasisBase).InexactFloat64() * 100
	}
	return v
}

// ValuatePortfolio refreshes the rate table, batch-resolves quotes for all
// non-cash symbols, and values every holding. One bad symbol must not break
// the portfolio view: a per-holding failure degrades that entry to its cost
// basis with zero gain/loss.
func (s *valuationService) ValuatePortfolio(ctx context.Context, holdings []domain.Holding, baseCurrency string) domain.PortfolioValuation {
	table := s.rates.RefreshIfStale(ctx)

	symbols := make([]string, 0, len(holdings))
	seen := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		if h.AssetClass.IsCash() || seen[h.Symbol] {
			continue
		}
		seen[h.Symbol] = true
		symbols = append(symbols, h.Symbol)
	}
	quotes := s.quotes.QuotesFor(ctx, symbols)

	result := domain.PortfolioValuation{
		BaseCurrency:    baseCurrency,
		Assets:          make([]domain.AssetValuation, 0, len(holdings)),
		ByClass:         make(map[domain.AssetClass]domain.AllocationSlice),
		ByCurrency:      make(map[string]domain.AllocationSlice),
		RatesProvenance: table.Provenance,
		AsOf:            time.Now(),
	}

	for _, holding := range holdings {
		var quote *domain.Quote
		if !holding.AssetClass.IsCash() {
			quote = quotes[holding.Symbol]
		}

		v := s.safeValuateOne(ctx, holding, quote, table, baseCurrency)
		if v.Provenance != domain.ProvenanceLive && !holding.AssetClass.IsCash() {
			result.QuotesDegraded = true
		}

		result.Assets = append(result.Assets, v)
		result.TotalValue = result.TotalValue.Add(v.MarketValueBase)
		result.TotalCostBasis = result.TotalCostBasis.Add(v.CostBasisBase)
		result.TotalGainLoss = result.TotalGainLoss.Add(v.GainLoss)
	}

	// Percent fields derive from aggregates only, never from per-item
	// percentages, to avoid compounding rounding error.
	if !result.TotalCostBasis.IsZero() {
		result.TotalGainLossPercent = result.TotalGainLoss.Div(result.TotalCostBasis).InexactFloat64() * 100
	}

	for _, v := range result.Assets {
		byClass := result.ByClass[v.AssetClass]
		byClass.Value = byClass.Value.Add(v.MarketValueBase)
		result.ByClass[v.AssetClass] = byClass

		byCurrency := result.ByCurrency[v.CurrencyCode]
		byCurrency.Value = byCurrency.Value.Add(v.MarketValueBase)
		result.ByCurrency[v.CurrencyCode] = byCurrency
	}
	if result.TotalValue.IsPositive() {
		for class, slice := range result.ByClass {
			slice.Percentage = slice.Value.Div(result.TotalValue).InexactFloat64() * 100
			result.ByClass[class] = slice
		}
		for code, slice := range result.ByCurrency {
			slice.Percentage = slice.Value.Div(result.TotalValue).InexactFloat64() * 100
			result.ByCurrency[code] = slice
		}
	}

	s.LogInfo(ctx, "Portfolio valuated",
		slog.String("base_currency", baseCurrency),
		slog.Int("assets", len(result.Assets)),
		slog.Bool("quotes_degraded", result.QuotesDegraded),
		slog.String("rates_provenance", string(table.Provenance)))
	return result
}

// safeValuateOne isolates per-holding failures: any panic inside the value
// math degrades that holding to a cost-basis valuation with zero gain/loss
// instead of aborting the whole batch.
func (s *valuationService) safeValuateOne(ctx context.Context, holding domain.Holding, quote *domain.Quote, table domain.RateTable, baseCurrency string) (v domain.AssetValuation) {
	defer func() {
		if r := recover(); r != nil {
			s.LogError(ctx, fmt.Errorf("valuation panic: %v", r), "Holding valuation failed, substituting cost basis",
				slog.String("holding_id", holding.HoldingID),
				slog.String("symbol", holding.Symbol))
			v = s.costBasisFallback(holding, table, baseCurrency)
		}
	}()
	return s.ValuateOne(ctx, holding, quote, table, baseCurrency)
}

func (s *valuationService) costBasisFallback(holding domain.Holding, table domain.RateTable, baseCurrency string) domain.AssetValuation {
	costBase := table.Convert(holding.CostBasisTotal(), holding.CurrencyCode, baseCurrency)
	return domain.AssetValuation{
		HoldingID:       holding.HoldingID,
		Symbol:          holding.Symbol,
		AssetClass:      holding.AssetClass,
		CurrencyCode:    holding.CurrencyCode,
		TotalUnits:      holding.TotalUnits,
		UnitPrice:       holding.AvgCostBasis,
		PriceCurrency:   holding.CurrencyCode,
		PriceInBase:     table.Convert(holding.AvgCostBasis, holding.CurrencyCode, baseCurrency),
		MarketValue:     holding.CostBasisTotal(),
		MarketValueBase: costBase,
		CostBasisBase:   costBase,
		Provenance:      domain.ProvenanceCostBasis,
	}
}
