package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetReturn is the transaction-based performance view of one non-cash
// holding.
type AssetReturn struct {
	HoldingID               string          `json:"holdingID"`
	Symbol                  string          `json:"symbol"`
	CapitalContributed      decimal.Decimal `json:"capitalContributed"` // base currency
	CurrentValue            decimal.Decimal `json:"currentValue"`
	TotalReturn             decimal.Decimal `json:"totalReturn"`
	TotalReturnPercent      float64         `json:"totalReturnPercent"`
	AnnualizedReturn        decimal.Decimal `json:"annualizedReturn"`
	AnnualizedReturnPercent float64         `json:"annualizedReturnPercent"`
	HoldingPeriodDays       float64         `json:"holdingPeriodDays"`
	HoldingPeriodYears      float64         `json:"holdingPeriodYears"`
	DividendsReceived       decimal.Decimal `json:"dividendsReceived"`
	FirstTransactionAt      time.Time       `json:"firstTransactionAt"`
}

// PerformerRef points at the best or worst holding by annualized return.
type PerformerRef struct {
	Symbol                  string  `json:"symbol"`
	AnnualizedReturnPercent float64 `json:"annualizedReturnPercent"`
}

// AdvancedMetrics carries the risk-adjusted figures. All of them are
// documented approximations: without a true historical series, volatility is
// proxied from the annualized return itself.
type AdvancedMetrics struct {
	SharpeRatio          float64       `json:"sharpeRatio"`
	VolatilityPercent    float64       `json:"volatilityPercent"`
	MaxDrawdownPercent   float64       `json:"maxDrawdownPercent"`
	DividendYieldPercent float64       `json:"dividendYieldPercent"`
	PerformanceGrade     string        `json:"performanceGrade"`
	BestPerformer        *PerformerRef `json:"bestPerformer,omitempty"`
	WorstPerformer       *PerformerRef `json:"worstPerformer,omitempty"`
}

// PortfolioReturns aggregates AssetReturn entries. Cash holdings are excluded
// entirely; no transaction-based return is meaningful for them.
type PortfolioReturns struct {
	BaseCurrency            string          `json:"baseCurrency"`
	Assets                  []AssetReturn   `json:"assets"`
	TotalCapital            decimal.Decimal `json:"totalCapital"`
	TotalValue              decimal.Decimal `json:"totalValue"`
	TotalReturn             decimal.Decimal `json:"totalReturn"`
	TotalReturnPercent      float64         `json:"totalReturnPercent"`
	WeightedHoldingYears    float64         `json:"weightedHoldingYears"`
	AnnualizedReturn        decimal.Decimal `json:"annualizedReturn"`
	AnnualizedReturnPercent float64         `json:"annualizedReturnPercent"`
	TotalDividends          decimal.Decimal `json:"totalDividends"`
	Metrics                 AdvancedMetrics `json:"metrics"`
	ComputedAt              time.Time       `json:"computedAt"`
}

// PerformancePoint is one step of the approximated monthly value trajectory.
type PerformancePoint struct {
	Month int             `json:"month"` // 0 = start of window
	Label string          `json:"label"` // "2026-08"
	Value decimal.Decimal `json:"value"`
}
