package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
	portssvc "github.com/hero710690/worthy-backend/internal/core/ports/services"
	"github.com/hero710690/worthy-backend/internal/utils/timedcache"
	"github.com/shopspring/decimal"
)

const (
	daysPerYear = 365.25

	// Holding periods shorter than this are reported as-is: extrapolating
	// an annual figure from a few weeks of observation is meaningless.
	shortWindowDays = 90

	linearClampMinPercent = -95
	linearClampMaxPercent = 200
	cagrClampMaxPercent   = 500

	// Value ratios at or above this skip the geometric computation and pin
	// the annualized figure at the clamp ceiling, guarding against precision
	// loss on huge ratios.
	extremeGainRatio = 100
)

// returnsService implements the ReturnsEngine: capital contributed, total and
// tiered annualized returns per asset, capital-weighted portfolio aggregation
// and the derived risk metrics. Transaction ledgers and full results are
// memoized in short-TTL caches.
type returnsService struct {
	BaseService
	portfolio clients.PortfolioAPI
	rates     portssvc.RateSvcFacade
	valuation portssvc.ValuationSvcFacade

	txnCache    *timedcache.Cache[string, []domain.Transaction]
	resultCache *timedcache.Cache[string, domain.PortfolioReturns]

	riskFreeRatePercent float64
	now                 func() time.Time
}

// ReturnsServiceOption is a functional option for configuring the returns service
type ReturnsServiceOption func(*returnsService)

// WithReturnsClock overrides the service's time source, for tests.
func WithReturnsClock(now func() time.Time) ReturnsServiceOption {
	return func(s *returnsService) {
		s.now = now
	}
}

// WithRiskFreeRate sets the annual risk-free rate (in percent) used by the
// Sharpe proxy.
func WithRiskFreeRate(percent float64) ReturnsServiceOption {
	return func(s *returnsService) {
		s.riskFreeRatePercent = percent
	}
}

// NewReturnsService creates a new returns service.
func NewReturnsService(portfolio clients.PortfolioAPI, rates portssvc.RateSvcFacade, valuation portssvc.ValuationSvcFacade, txnTTL, resultTTL time.Duration, options ...ReturnsServiceOption) portssvc.ReturnsSvcFacade {
	svc := &returnsService{
		portfolio:           portfolio,
		rates:               rates,
		valuation:           valuation,
		txnCache:            timedcache.New[string, []domain.Transaction](txnTTL),
		resultCache:         timedcache.New[string, domain.PortfolioReturns](resultTTL),
		riskFreeRatePercent: 2.0,
		now:                 time.Now,
	}

	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReturnsSvcFacade = (*returnsService)(nil)

// CalculatePortfolioReturns computes per-asset and aggregate returns for the
// given holdings. Cash holdings are excluded entirely; holdings without
// transactions are skipped.
func (s *returnsService) CalculatePortfolioReturns(ctx context.Context, holdings []domain.Holding, baseCurrency string) (*domain.PortfolioReturns, error) {
	fp := fingerprint(baseCurrency, holdings)
	if cached, ok := s.resultCache.Get(fp); ok {
		s.LogDebug(ctx, "Portfolio returns served from cache", slog.String("fingerprint", fp))
		return &cached, nil
	}

	valuation := s.valuation.ValuatePortfolio(ctx, holdings, baseCurrency)
	valuationByID := make(map[string]domain.AssetValuation, len(valuation.Assets))
	for _, v := range valuation.Assets {
		valuationByID[v.HoldingID] = v
	}

	table := s.rates.Table(ctx)
	now := s.now()

	result := domain.PortfolioReturns{
		BaseCurrency: baseCurrency,
		Assets:       make([]domain.AssetReturn, 0, len(holdings)),
		ComputedAt:   now,
	}

	var weightedYearsNumerator float64
	for _, holding := range holdings {
		if holding.AssetClass.IsCash() {
			continue
		}

		txns, err := s.transactions(ctx, holding.HoldingID)
		if err != nil {
			s.LogWarn(ctx, "Transaction fetch failed, skipping asset returns",
				slog.String("holding_id", holding.HoldingID),
				slog.String("symbol", holding.Symbol),
				slog.String("error", err.Error()))
			continue
		}
		if len(txns) == 0 {
			continue
		}

		ar := s.assetReturn(holding, txns, valuationByID[holding.HoldingID], table, baseCurrency, now)
		result.Assets = append(result.Assets, ar)

		result.TotalCapital = result.TotalCapital.Add(ar.CapitalContributed)
		result.TotalValue = result.TotalValue.Add(ar.CurrentValue)
		result.TotalDividends = result.TotalDividends.Add(ar.DividendsReceived)
		weightedYearsNumerator += ar.HoldingPeriodYears * ar.CapitalContributed.InexactFloat64()
	}

	result.TotalReturn = result.TotalValue.Sub(result.TotalCapital)
	totalCapitalF := result.TotalCapital.InexactFloat64()
	if totalCapitalF > 0 {
		result.TotalReturnPercent = result.TotalReturn.Div(result.TotalCapital).InexactFloat64() * 100
		// Capital-weighted, not asset-count-weighted: larger positions
		// dominate the period estimate.
		result.WeightedHoldingYears = weightedYearsNumerator / totalCapitalF
	}

	result.AnnualizedReturnPercent = tieredAnnualizedPercent(
		result.TotalReturnPercent,
		result.TotalValue.InexactFloat64(),
		totalCapitalF,
		result.WeightedHoldingYears*daysPerYear,
	)
	result.AnnualizedReturn = result.TotalCapital.Mul(decimal.NewFromFloat(result.AnnualizedReturnPercent / 100))
	result.Metrics = s.advancedMetrics(result)

	s.resultCache.Set(fp, result)
	s.LogInfo(ctx, "Portfolio returns calculated",
		slog.String("base_currency", baseCurrency),
		slog.Int("assets", len(result.Assets)),
		slog.Float64("annualized_percent", result.AnnualizedReturnPercent))
	return &result, nil
}

// PerformanceTrajectory approximates a monthly value trajectory over the
// given window by compounding the portfolio's single annualized-return figure
// backwards from the current total value. This is not a historical series.
func (s *returnsService) PerformanceTrajectory(ctx context.Context, holdings []domain.Holding, baseCurrency string, months int) ([]domain.PerformancePoint, error) {
	if months <= 0 {
		months = 12
	}

	returns, err := s.CalculatePortfolioReturns(ctx, holdings, baseCurrency)
	if err != nil {
		return nil, err
	}

	monthlyFactor := math.Pow(1+returns.AnnualizedReturnPercent/100, 1.0/12)
	if monthlyFactor <= 0 || math.IsNaN(monthlyFactor) {
		monthlyFactor = 1
	}

	now := s.now()
	points := make([]domain.PerformancePoint, 0, months+1)
	for i := 0; i <= months; i++ {
		stepsBack := months - i
		value := returns.TotalValue.Div(decimal.NewFromFloat(math.Pow(monthlyFactor, float64(stepsBack))))
		points = append(points, domain.PerformancePoint{
			Month: i,
			Label: now.AddDate(0, -stepsBack, 0).Format("2006-01"),
			Value: value.Round(2),
		})
	}
	return points, nil
}

// transactions returns the ledger for one holding, cached per holding id.
func (s *returnsService) transactions(ctx context.Context, holdingID string) ([]domain.Transaction, error) {
	return s.txnCache.GetOrCompute(holdingID, func() ([]domain.Transaction, error) {
		return s.portfolio.ListTransactions(ctx, holdingID)
	})
}

// assetReturn computes the per-asset figures from the holding's ledger and
// its current valuation.
//
// Capital contributed converts each purchase at the rate prevailing at
// calculation time, not the transaction-date rate. This is a documented
// approximation carried over from the original behavior: changing it would
// silently move every historical return figure.
func (s *returnsService) assetReturn(holding domain.Holding, txns []domain.Transaction, valuation domain.AssetValuation, table domain.RateTable, baseCurrency string, now time.Time) domain.AssetReturn {
	ar := domain.AssetReturn{
		HoldingID:    holding.HoldingID,
		Symbol:       holding.Symbol,
		CurrentValue: valuation.MarketValueBase,
	}

	first := txns[0].DateEffective
	for _, txn := range txns {
		if txn.DateEffective.Before(first) {
			first = txn.DateEffective
		}
		switch {
		case txn.Type.IsPurchase():
			ar.CapitalContributed = ar.CapitalContributed.Add(table.Convert(txn.TotalAmount, txn.CurrencyCode, baseCurrency))
		case txn.Type == domain.TxnDividend:
			ar.DividendsReceived = ar.DividendsReceived.Add(table.Convert(txn.TotalAmount, txn.CurrencyCode, baseCurrency))
		}
	}
	ar.FirstTransactionAt = first

	ar.TotalReturn = ar.CurrentValue.Sub(ar.CapitalContributed)
	if ar.CapitalContributed.IsPositive() {
		ar.TotalReturnPercent = ar.TotalReturn.Div(ar.CapitalContributed).InexactFloat64() * 100
	}

	days := now.Sub(first).Hours() / 24
	if days < 1 {
		days = 1
	}
	ar.HoldingPeriodDays = days
	ar.HoldingPeriodYears = days / daysPerYear

	ar.AnnualizedReturnPercent = tieredAnnualizedPercent(
		ar.TotalReturnPercent,
		ar.CurrentValue.InexactFloat64(),
		ar.CapitalContributed.InexactFloat64(),
		days,
	)
	ar.AnnualizedReturn = ar.CapitalContributed.Mul(decimal.NewFromFloat(ar.AnnualizedReturnPercent / 100))
	return ar
}

// tieredAnnualizedPercent selects the annualization policy by holding-period
// length. The tiering prevents nonsensical extrapolation from very short
// observation windows:
//
//   - under 90 days: the total return percent, unchanged;
//   - 90 days to under a year: linear scale-up, clamped to [-95, +200];
//   - a year or more: geometric CAGR, clamped to [-95, +500], with an
//     extreme-gain guard pinning ratios >= 100 at exactly +500.
func tieredAnnualizedPercent(totalReturnPercent, currentValue, capital, days float64) float64 {
	if days < shortWindowDays {
		return totalReturnPercent
	}

	if days < daysPerYear {
		scaled := totalReturnPercent * (daysPerYear / days)
		return clamp(scaled, linearClampMinPercent, linearClampMaxPercent)
	}

	if capital <= 0 {
		return clamp(totalReturnPercent, linearClampMinPercent, 0)
	}
	ratio := currentValue / capital
	if ratio >= extremeGainRatio {
		return cagrClampMaxPercent
	}
	if ratio <= 0 {
		return clamp(totalReturnPercent, linearClampMinPercent, 0)
	}

	years := days / daysPerYear
	cagr := (math.Pow(ratio, 1/years) - 1) * 100
	return clamp(cagr, linearClampMinPercent, cagrClampMaxPercent)
}

// advancedMetrics derives the risk figures. All are explicit approximations:
// with no historical series, volatility is proxied as 30% of the magnitude of
// the annualized return.
func (s *returnsService) advancedMetrics(r domain.PortfolioReturns) domain.AdvancedMetrics {
	m := domain.AdvancedMetrics{
		VolatilityPercent: math.Abs(r.AnnualizedReturnPercent) * 0.3,
		PerformanceGrade:  performanceGrade(r.AnnualizedReturnPercent),
	}

	if m.VolatilityPercent != 0 {
		m.SharpeRatio = (r.AnnualizedReturnPercent - s.riskFreeRatePercent) / m.VolatilityPercent
	}

	if r.TotalCapital.IsPositive() {
		if r.TotalReturn.IsNegative() {
			m.MaxDrawdownPercent = math.Abs(r.TotalReturn.Div(r.TotalCapital).InexactFloat64()) * 100
		}
		m.DividendYieldPercent = r.TotalDividends.Div(r.TotalCapital).InexactFloat64() * 100
	}

	for i, ar := range r.Assets {
		if m.BestPerformer == nil || ar.AnnualizedReturnPercent > m.BestPerformer.AnnualizedReturnPercent {
			m.BestPerformer = &domain.PerformerRef{Symbol: r.Assets[i].Symbol, AnnualizedReturnPercent: ar.AnnualizedReturnPercent}
		}
		if m.WorstPerformer == nil || ar.AnnualizedReturnPercent < m.WorstPerformer.AnnualizedReturnPercent {
			m.WorstPerformer = &domain.PerformerRef{Symbol: r.Assets[i].Symbol, AnnualizedReturnPercent: ar.AnnualizedReturnPercent}
		}
	}
	return m
}

func performanceGrade(annualizedPercent float64) string {
	switch {
	case annualizedPercent >= 15:
		return "A+"
	case annualizedPercent >= 10:
		return "A"
	case annualizedPercent >= 7:
		return "B+"
	case annualizedPercent >= 5:
		return "B"
	case annualizedPercent >= 0:
		return "C"
	default:
		return "D"
	}
}

// fingerprint builds the deterministic cache key: any holding mutation bumps
// its update timestamp and implicitly invalidates the cached result.
func fingerprint(baseCurrency string, holdings []domain.Holding) string {
	pairs := make([]string, 0, len(holdings))
	for _, h := range holdings {
		pairs = append(pairs, fmt.Sprintf("%s:%d", h.HoldingID, h.UpdatedAt.Unix()))
	}
	sort.Strings(pairs)
	return baseCurrency + "|" + strings.Join(pairs, ",")
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
