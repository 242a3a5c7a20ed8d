package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hero710690/worthy-backend/internal/apperrors"
	"github.com/hero710690/worthy-backend/internal/core/domain"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
	"github.com/hero710690/worthy-backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock QuoteSvcFacade ---
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Quote(ctx context.Context, symbol string) *domain.Quote {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Quote)
}

func (m *MockQuoteService) QuotesFor(ctx context.Context, symbols []string) map[string]*domain.Quote {
	args := m.Called(ctx, symbols)
	return args.Get(0).(map[string]*domain.Quote)
}

func holding(id, symbol string, class domain.AssetClass, currency string, units, costBasis float64) domain.Holding {
	return domain.Holding{
		HoldingID:    id,
		Symbol:       symbol,
		AssetClass:   class,
		CurrencyCode: currency,
		TotalUnits:   decimal.NewFromFloat(units),
		AvgCostBasis: decimal.NewFromFloat(costBasis),
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- Test Suite ---
type ValuationServiceTestSuite struct {
	suite.Suite
	mockRateSource *MockRateSource
	mockQuotes     *MockQuoteService
	rates          portssvc.RateSvcFacade
	service        portssvc.ValuationSvcFacade
}

func (suite *ValuationServiceTestSuite) SetupTest() {
	// Rate provider with an unreachable source: conversions run off the
	// static fallback table, which is all these tests need.
	suite.mockRateSource = new(MockRateSource)
	suite.mockRateSource.On("FetchRates", mock.Anything, "USD").Return(nil, apperrors.ErrProviderUnavailable)
	suite.rates = services.NewRateService(suite.mockRateSource, "USD", time.Hour)

	suite.mockQuotes = new(MockQuoteService)
	suite.service = services.NewValuationService(suite.rates, suite.mockQuotes)
}

func (suite *ValuationServiceTestSuite) table() domain.RateTable {
	return suite.rates.Table(context.Background())
}

func (suite *ValuationServiceTestSuite) TestValuateOneWithLiveQuote() {
	h := holding("h1", "AAPL", domain.AssetClassStock, "USD", 10, 100)
	quote := liveQuote("AAPL", 120)

	v := suite.service.ValuateOne(context.Background(), h, quote, suite.table(), "USD")

	suite.True(v.MarketValueBase.Equal(decimal.NewFromInt(1200)), "market value, got %s", v.MarketValueBase)
	suite.True(v.GainLoss.Equal(decimal.NewFromInt(200)), "gain/loss, got %s", v.GainLoss)
	suite.InDelta(20.0, v.GainLossPercent, 1e-9)
	suite.Equal(domain.ProvenanceLive, v.Provenance)
}

func (suite *ValuationServiceTestSuite) TestValuateOneWithoutQuoteUsesCostBasis() {
	h := holding("h1", "AAPL", domain.AssetClassStock, "USD", 10, 100)

	v := suite.service.ValuateOne(context.Background(), h, nil, suite.table(), "USD")

	suite.True(v.MarketValueBase.Equal(decimal.NewFromInt(1000)))
	suite.True(v.GainLoss.IsZero(), "no quote means no unrealized change")
	suite.Zero(v.GainLossPercent)
	suite.Equal(domain.ProvenanceCostBasis, v.Provenance)
}

func (suite *ValuationServiceTestSuite) TestValuateOneZeroCostBasisYieldsZeroPercent() {
	h := holding("h1", "FREE", domain.AssetClassStock, "USD", 10, 0)
	quote := liveQuote("FREE", 5)

	v := suite.service.ValuateOne(context.Background(), h, quote, suite.table(), "USD")

	suite.True(v.MarketValueBase.Equal(decimal.NewFromInt(50)))
	suite.Zero(v.GainLossPercent)
}

func (suite *ValuationServiceTestSuite) TestValuateOneConvertsHoldingCurrency() {
	// Fallback table carries EUR at 0.92 per USD.
	h := holding("h1", "SAP", domain.AssetClassStock, "EUR", 10, 92)

	v := suite.service.ValuateOne(context.Background(), h, nil, suite.table(), "USD")

	suite.InDelta(1000.0, v.MarketValueBase.InexactFloat64(), 1e-6)
	suite.True(v.MarketValue.Equal(decimal.NewFromInt(920)), "original-currency value stays in EUR")
}

func (suite *ValuationServiceTestSuite) TestValuatePortfolioScenario() {
	ctx := context.Background()
	holdings := []domain.Holding{
		holding("h1", "AAPL", domain.AssetClassStock, "USD", 10, 100),
		holding("h2", "VOO", domain.AssetClassETF, "USD", 2, 400),
	}
	suite.mockQuotes.On("QuotesFor", mock.Anything, []string{"AAPL", "VOO"}).Return(map[string]*domain.Quote{
		"AAPL": liveQuote("AAPL", 120),
		"VOO":  liveQuote("VOO", 500),
	})

	result := suite.service.ValuatePortfolio(ctx, holdings, "USD")

	suite.Len(result.Assets, 2)
	suite.True(result.TotalValue.Equal(decimal.NewFromInt(2200)), "1200 + 1000, got %s", result.TotalValue)
	suite.True(result.TotalCostBasis.Equal(decimal.NewFromInt(1800)))
	suite.True(result.TotalGainLoss.Equal(decimal.NewFromInt(400)))
	suite.InDelta(400.0/1800.0*100, result.TotalGainLossPercent, 1e-9)
	suite.False(result.QuotesDegraded)
}

func (suite *ValuationServiceTestSuite) TestOneFailedSymbolDoesNotBreakThePortfolio() {
	ctx := context.Background()
	holdings := []domain.Holding{
		holding("h1", "AAPL", domain.AssetClassStock, "USD", 10, 100),
		holding("h2", "MSFT", domain.AssetClassStock, "USD", 1, 300),
		holding("h3", "BAD", domain.AssetClassStock, "USD", 5, 50),
		holding("h4", "VOO", domain.AssetClassETF, "USD", 2, 400),
		holding("h5", "TSM", domain.AssetClassStock, "USD", 3, 150),
	}
	suite.mockQuotes.On("QuotesFor", mock.Anything, mock.Anything).Return(map[string]*domain.Quote{
		"AAPL": liveQuote("AAPL", 120),
		"MSFT": liveQuote("MSFT", 400),
		"VOO":  liveQuote("VOO", 500),
		"TSM":  liveQuote("TSM", 180),
		// BAD has no quote: its fetch failed and no mock exists.
	})

	result := suite.service.ValuatePortfolio(ctx, holdings, "USD")

	suite.Len(result.Assets, 5, "a failed symbol must still produce a valuation entry")

	var bad domain.AssetValuation
	for _, v := range result.Assets {
		if v.Symbol == "BAD" {
			bad = v
		}
	}
	suite.Equal(domain.ProvenanceCostBasis, bad.Provenance)
	suite.True(bad.MarketValueBase.Equal(decimal.NewFromInt(250)), "cost basis fallback")
	suite.True(bad.GainLoss.IsZero())
	suite.True(result.QuotesDegraded)

	// Aggregate equals the sum of constituents.
	sum := decimal.Zero
	for _, v := range result.Assets {
		sum = sum.Add(v.MarketValueBase)
	}
	suite.True(result.TotalValue.Equal(sum))
}

func (suite *ValuationServiceTestSuite) TestCashHoldingsAreNeverPriced() {
	ctx := context.Background()
	holdings := []domain.Holding{
		holding("h1", "AAPL", domain.AssetClassStock, "USD", 10, 100),
		holding("h2", "CASH-USD", domain.AssetClassCash, "USD", 5000, 1),
	}
	suite.mockQuotes.On("QuotesFor", mock.Anything, []string{"AAPL"}).Return(map[string]*domain.Quote{
		"AAPL": liveQuote("AAPL", 120),
	})

	result := suite.service.ValuatePortfolio(ctx, holdings, "USD")

	suite.Len(result.Assets, 2)
	suite.False(result.QuotesDegraded, "cash at cost basis is not a degraded quote")
	suite.mockQuotes.AssertCalled(suite.T(), "QuotesFor", mock.Anything, []string{"AAPL"})
}

func (suite *ValuationServiceTestSuite) TestAllocationPercentagesSumToHundred() {
	ctx := context.Background()
	holdings := []domain.Holding{
		holding("h1", "AAPL", domain.AssetClassStock, "USD", 10, 100),
		holding("h2", "SAP", domain.AssetClassStock, "EUR", 10, 92),
		holding("h3", "CASH-USD", domain.AssetClassCash, "USD", 500, 1),
	}
	suite.mockQuotes.On("QuotesFor", mock.Anything, mock.Anything).Return(map[string]*domain.Quote{
		"AAPL": liveQuote("AAPL", 120),
	})

	result := suite.service.ValuatePortfolio(ctx, holdings, "USD")

	var classSum, currencySum float64
	for _, slice := range result.ByClass {
		classSum += slice.Percentage
	}
	for _, slice := range result.ByCurrency {
		currencySum += slice.Percentage
	}
	suite.InDelta(100.0, classSum, 0.01)
	suite.InDelta(100.0, currencySum, 0.01)
}

func (suite *ValuationServiceTestSuite) TestEmptyPortfolioHasZeroTotalsAndPercentages() {
	suite.mockQuotes.On("QuotesFor", mock.Anything, mock.Anything).Return(map[string]*domain.Quote{})

	result := suite.service.ValuatePortfolio(context.Background(), nil, "USD")

	suite.Empty(result.Assets)
	suite.True(result.TotalValue.IsZero())
	suite.Zero(result.TotalGainLossPercent)
	suite.Empty(result.ByClass)
}

func TestValuationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ValuationServiceTestSuite))
}
