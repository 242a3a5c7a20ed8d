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

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context, pivot string) (*domain.RateTable, error) {
	args := m.Called(ctx, pivot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}

// --- Test Suite ---
type RateServiceTestSuite struct {
	suite.Suite
	mockSource *MockRateSource
	now        time.Time
	service    portssvc.RateSvcFacade
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockSource = new(MockRateSource)
	suite.now = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewRateService(
		suite.mockSource, "USD", time.Hour,
		services.WithRateClock(func() time.Time { return suite.now }),
	)
}

func (suite *RateServiceTestSuite) liveTable() *domain.RateTable {
	return &domain.RateTable{
		Base: "USD",
		Rates: map[string]float64{
			"USD": 1.0,
			"EUR": 0.90,
			"JPY": 150.0,
		},
		RefreshedAt: suite.now,
		Provenance:  domain.ProvenanceLive,
	}
}

func (suite *RateServiceTestSuite) TestInitialStateIsFallback() {
	table := suite.service.Table(context.Background())
	suite.Equal(domain.ProvenanceFallback, table.Provenance)
	suite.Equal(1.0, table.Rates["USD"], "pivot must map to 1.0")
}

func (suite *RateServiceTestSuite) TestRefreshIfStaleFlipsProvenanceToLive() {
	ctx := context.Background()
	suite.mockSource.On("FetchRates", ctx, "USD").Return(suite.liveTable(), nil).Once()

	table := suite.service.RefreshIfStale(ctx)

	suite.Equal(domain.ProvenanceLive, table.Provenance)
	suite.Equal(0.90, table.Rates["EUR"])
	suite.Equal(1.0, table.Rates["USD"])
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestRefreshIsSkippedWhileFresh() {
	ctx := context.Background()
	suite.mockSource.On("FetchRates", ctx, "USD").Return(suite.liveTable(), nil).Once()

	suite.service.RefreshIfStale(ctx)
	suite.now = suite.now.Add(30 * time.Minute)
	suite.service.RefreshIfStale(ctx)

	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRates", 1)
}

func (suite *RateServiceTestSuite) TestRefreshRetriesOncePastTTL() {
	ctx := context.Background()
	suite.mockSource.On("FetchRates", ctx, "USD").Return(suite.liveTable(), nil).Twice()

	suite.service.RefreshIfStale(ctx)
	suite.now = suite.now.Add(61 * time.Minute)
	suite.service.RefreshIfStale(ctx)

	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRates", 2)
}

func (suite *RateServiceTestSuite) TestRefreshFailureRetainsFallbackTable() {
	ctx := context.Background()
	suite.mockSource.On("FetchRates", ctx, "USD").Return(nil, apperrors.ErrProviderUnavailable)

	table := suite.service.RefreshIfStale(ctx)

	suite.Equal(domain.ProvenanceFallback, table.Provenance)
	suite.Equal(1.0, table.Rates["USD"])
	suite.NotEmpty(table.Rates["EUR"], "fallback rates must survive a failed refresh")
}

func (suite *RateServiceTestSuite) TestRefreshFailureRetainsPreviousLiveTable() {
	ctx := context.Background()
	suite.mockSource.On("FetchRates", ctx, "USD").Return(suite.liveTable(), nil).Once()
	suite.service.RefreshIfStale(ctx)

	suite.now = suite.now.Add(2 * time.Hour)
	suite.mockSource.On("FetchRates", ctx, "USD").Return(nil, apperrors.ErrProviderUnavailable)
	table := suite.service.RefreshIfStale(ctx)

	suite.Equal(domain.ProvenanceLive, table.Provenance)
	suite.Equal(0.90, table.Rates["EUR"])
}

func (suite *RateServiceTestSuite) TestRateSameCurrencyIsIdentity() {
	suite.Equal(1.0, suite.service.Rate(context.Background(), "EUR", "EUR"))
}

func (suite *RateServiceTestSuite) TestRateUnsupportedCurrencyDegradesToNoOp() {
	suite.Equal(1.0, suite.service.Rate(context.Background(), "USD", "XXX"))
	suite.Equal(1.0, suite.service.Rate(context.Background(), "XXX", "USD"))
}

func (suite *RateServiceTestSuite) TestConvertRoundTripIsStable() {
	ctx := context.Background()
	amount := decimal.NewFromInt(250)

	for _, pair := range [][2]string{{"USD", "EUR"}, {"EUR", "JPY"}, {"TWD", "GBP"}} {
		there := suite.service.Convert(ctx, amount, pair[0], pair[1])
		back := suite.service.Convert(ctx, there, pair[1], pair[0])
		diff := back.Sub(amount).Abs().InexactFloat64()
		suite.Less(diff, 1e-6, "convert(%s->%s->%s) must round-trip", pair[0], pair[1], pair[0])
	}
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
