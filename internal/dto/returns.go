package dto

import (
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssetReturnResponse is the API shape of one holding's performance figures.
type AssetReturnResponse struct {
	HoldingID               string          `json:"holdingID"`
	Symbol                  string          `json:"symbol"`
	CapitalContributed      decimal.Decimal `json:"capitalContributed"`
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

// PerformerResponse names the best or worst holding by annualized return.
type PerformerResponse struct {
	Symbol                  string  `json:"symbol"`
	AnnualizedReturnPercent float64 `json:"annualizedReturnPercent"`
}

// AdvancedMetricsResponse carries the approximated risk figures.
type AdvancedMetricsResponse struct {
	SharpeRatio          float64            `json:"sharpeRatio"`
	VolatilityPercent    float64            `json:"volatilityPercent"`
	MaxDrawdownPercent   float64            `json:"maxDrawdownPercent"`
	DividendYieldPercent float64            `json:"dividendYieldPercent"`
	PerformanceGrade     string             `json:"performanceGrade"`
	BestPerformer        *PerformerResponse `json:"bestPerformer,omitempty"`
	WorstPerformer       *PerformerResponse `json:"worstPerformer,omitempty"`
}

// PortfolioReturnsResponse is the API shape of the full returns calculation.
type PortfolioReturnsResponse struct {
	BaseCurrency            string                  `json:"baseCurrency"`
	Assets                  []AssetReturnResponse   `json:"assets"`
	TotalCapital            decimal.Decimal         `json:"totalCapital"`
	TotalValue              decimal.Decimal         `json:"totalValue"`
	TotalReturn             decimal.Decimal         `json:"totalReturn"`
	TotalReturnPercent      float64                 `json:"totalReturnPercent"`
	WeightedHoldingYears    float64                 `json:"weightedHoldingYears"`
	AnnualizedReturn        decimal.Decimal         `json:"annualizedReturn"`
	AnnualizedReturnPercent float64                 `json:"annualizedReturnPercent"`
	TotalDividends          decimal.Decimal         `json:"totalDividends"`
	Metrics                 AdvancedMetricsResponse `json:"metrics"`
	ComputedAt              time.Time               `json:"computedAt"`
}

// PerformancePointResponse is one step of the approximated trajectory.
type PerformancePointResponse struct {
	Month int             `json:"month"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// ToPortfolioReturnsResponse converts a domain.PortfolioReturns to its
// response DTO.
func ToPortfolioReturnsResponse(r *domain.PortfolioReturns) PortfolioReturnsResponse {
	assets := make([]AssetReturnResponse, 0, len(r.Assets))
	for _, a := range r.Assets {
		assets = append(assets, AssetReturnResponse{
			HoldingID:               a.HoldingID,
			Symbol:                  a.Symbol,
			CapitalContributed:      a.CapitalContributed,
			CurrentValue:            a.CurrentValue,
			TotalReturn:             a.TotalReturn,
			TotalReturnPercent:      a.TotalReturnPercent,
			AnnualizedReturn:        a.AnnualizedReturn,
			AnnualizedReturnPercent: a.AnnualizedReturnPercent,
			HoldingPeriodDays:       a.HoldingPeriodDays,
			HoldingPeriodYears:      a.HoldingPeriodYears,
			DividendsReceived:       a.DividendsReceived,
			FirstTransactionAt:      a.FirstTransactionAt,
		})
	}

	metrics := AdvancedMetricsResponse{
		SharpeRatio:          r.Metrics.SharpeRatio,
		VolatilityPercent:    r.Metrics.VolatilityPercent,
		MaxDrawdownPercent:   r.Metrics.MaxDrawdownPercent,
		DividendYieldPercent: r.Metrics.DividendYieldPercent,
		PerformanceGrade:     r.Metrics.PerformanceGrade,
	}
	if r.Metrics.BestPerformer != nil {
		metrics.BestPerformer = &PerformerResponse{
			Symbol:                  r.Metrics.BestPerformer.Symbol,
			AnnualizedReturnPercent: r.Metrics.BestPerformer.AnnualizedReturnPercent,
		}
	}
	if r.Metrics.WorstPerformer != nil {
		metrics.WorstPerformer = &PerformerResponse{
			Symbol:                  r.Metrics.WorstPerformer.Symbol,
			AnnualizedReturnPercent: r.Metrics.WorstPerformer.AnnualizedReturnPercent,
		}
	}

	return PortfolioReturnsResponse{
		BaseCurrency:            r.BaseCurrency,
		Assets:                  assets,
		TotalCapital:            r.TotalCapital,
		TotalValue:              r.TotalValue,
		TotalReturn:             r.TotalReturn,
		TotalReturnPercent:      r.TotalReturnPercent,
		WeightedHoldingYears:    r.WeightedHoldingYears,
		AnnualizedReturn:        r.AnnualizedReturn,
		AnnualizedReturnPercent: r.AnnualizedReturnPercent,
		TotalDividends:          r.TotalDividends,
		Metrics:                 metrics,
		ComputedAt:              r.ComputedAt,
	}
}

// ToPerformancePointResponses converts trajectory points to response DTOs.
func ToPerformancePointResponses(points []domain.PerformancePoint) []PerformancePointResponse {
	out := make([]PerformancePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, PerformancePointResponse{Month: p.Month, Label: p.Label, Value: p.Value})
	}
	return out
}
