package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetValuation is the derived market view of one holding. It is recomputed
// on every request and never persisted.
type AssetValuation struct {
	HoldingID       string          `json:"holdingID"`
	Symbol          string          `json:"symbol"`
	AssetClass      AssetClass      `json:"assetClass"`
	CurrencyCode    string          `json:"currencyCode"` // holding's own currency
	TotalUnits      decimal.Decimal `json:"totalUnits"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`   // in PriceCurrency
	PriceCurrency   string          `json:"priceCurrency"`
	PriceInBase     decimal.Decimal `json:"priceInBase"`
	MarketValue     decimal.Decimal `json:"marketValue"`     // in PriceCurrency
	MarketValueBase decimal.Decimal `json:"marketValueBase"` // in base currency
	CostBasisBase   decimal.Decimal `json:"costBasisBase"`
	GainLoss        decimal.Decimal `json:"gainLoss"` // base currency
	GainLossPercent float64         `json:"gainLossPercent"`
	Provenance      Provenance      `json:"provenance"`
}

// AllocationSlice is one bucket of the portfolio allocation breakdown.
type AllocationSlice struct {
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

// PortfolioValuation aggregates per-asset valuations. Invariant: TotalValue
// equals the sum of constituent MarketValueBase figures.
type PortfolioValuation struct {
	BaseCurrency         string                         `json:"baseCurrency"`
	Assets               []AssetValuation               `json:"assets"`
	TotalValue           decimal.Decimal                `json:"totalValue"`
	TotalCostBasis       decimal.Decimal                `json:"totalCostBasis"`
	TotalGainLoss        decimal.Decimal                `json:"totalGainLoss"`
	TotalGainLossPercent float64                        `json:"totalGainLossPercent"`
	ByClass              map[AssetClass]AllocationSlice `json:"byClass"`
	ByCurrency           map[string]AllocationSlice     `json:"byCurrency"`
	RatesProvenance      Provenance                     `json:"ratesProvenance"`
	QuotesDegraded       bool                           `json:"quotesDegraded"`
	AsOf                 time.Time                      `json:"asOf"`
}
