package dto

import (
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssetValuationResponse is the API shape of one valued holding.
type AssetValuationResponse struct {
	HoldingID       string          `json:"holdingID"`
	Symbol          string          `json:"symbol"`
	AssetClass      string          `json:"assetClass"`
	CurrencyCode    string          `json:"currencyCode"`
	TotalUnits      decimal.Decimal `json:"totalUnits"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	PriceCurrency   string          `json:"priceCurrency"`
	PriceInBase     decimal.Decimal `json:"priceInBase"`
	MarketValue     decimal.Decimal `json:"marketValue"`
	MarketValueBase decimal.Decimal `json:"marketValueBase"`
	GainLoss        decimal.Decimal `json:"gainLoss"`
	GainLossPercent float64         `json:"gainLossPercent"`
	Provenance      string          `json:"provenance"`
}

// AllocationSliceResponse is one allocation bucket with its share of total.
type AllocationSliceResponse struct {
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

// PortfolioValuationResponse is the API shape of a full portfolio valuation.
type PortfolioValuationResponse struct {
	BaseCurrency         string                             `json:"baseCurrency"`
	Assets               []AssetValuationResponse           `json:"assets"`
	TotalValue           decimal.Decimal                    `json:"totalValue"`
	TotalCostBasis       decimal.Decimal                    `json:"totalCostBasis"`
	TotalGainLoss        decimal.Decimal                    `json:"totalGainLoss"`
	TotalGainLossPercent float64                            `json:"totalGainLossPercent"`
	ByClass              map[string]AllocationSliceResponse `json:"byClass"`
	ByCurrency           map[string]AllocationSliceResponse `json:"byCurrency"`
	RatesProvenance      string                             `json:"ratesProvenance"`
	QuotesDegraded       bool                               `json:"quotesDegraded"`
	AsOf                 time.Time                          `json:"asOf"`
}

// ToPortfolioValuationResponse converts a domain.PortfolioValuation to its
// response DTO.
func ToPortfolioValuationResponse(v domain.PortfolioValuation) PortfolioValuationResponse {
	assets := make([]AssetValuationResponse, 0, len(v.Assets))
	for _, a := range v.Assets {
		assets = append(assets, AssetValuationResponse{
			HoldingID:       a.HoldingID,
			Symbol:          a.Symbol,
			AssetClass:      string(a.AssetClass),
			CurrencyCode:    a.CurrencyCode,
			TotalUnits:      a.TotalUnits,
			UnitPrice:       a.UnitPrice,
			PriceCurrency:   a.PriceCurrency,
			PriceInBase:     a.PriceInBase,
			MarketValue:     a.MarketValue,
			MarketValueBase: a.MarketValueBase,
			GainLoss:        a.GainLoss,
			GainLossPercent: a.GainLossPercent,
			Provenance:      string(a.Provenance),
		})
	}

	byClass := make(map[string]AllocationSliceResponse, len(v.ByClass))
	for class, slice := range v.ByClass {
		byClass[string(class)] = AllocationSliceResponse{Value: slice.Value, Percentage: slice.Percentage}
	}
	byCurrency := make(map[string]AllocationSliceResponse, len(v.ByCurrency))
	for code, slice := range v.ByCurrency {
		byCurrency[code] = AllocationSliceResponse{Value: slice.Value, Percentage: slice.Percentage}
	}

	return PortfolioValuationResponse{
		BaseCurrency:         v.BaseCurrency,
		Assets:               assets,
		TotalValue:           v.TotalValue,
		TotalCostBasis:       v.TotalCostBasis,
		TotalGainLoss:        v.TotalGainLoss,
		TotalGainLossPercent: v.TotalGainLossPercent,
		ByClass:              byClass,
		ByCurrency:           byCurrency,
		RatesProvenance:      string(v.RatesProvenance),
		QuotesDegraded:       v.QuotesDegraded,
		AsOf:                 v.AsOf,
	}
}
