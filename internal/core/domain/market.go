package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Provenance marks where a rate, quote or valuation figure came from. It is
// the caller-visible signal that the engine degraded rather than failed.
type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceFallback  Provenance = "fallback"
	ProvenanceMock      Provenance = "mock"
	ProvenanceCostBasis Provenance = "cost_basis"
)

// RateTable maps currency code to exchange rate relative to the pivot
// currency. Invariant: Rates[Base] == 1.0.
type RateTable struct {
	Base        string             `json:"base"`
	Rates       map[string]float64 `json:"rates"`
	RefreshedAt time.Time          `json:"refreshedAt"`
	Provenance  Provenance         `json:"provenance"`
}

// Supports reports whether the table carries a rate for the given currency.
func (t RateTable) Supports(code string) bool {
	_, ok := t.Rates[strings.ToUpper(code)]
	return ok
}

// Rate returns how many 'to' units one 'from' unit buys. Unsupported
// currencies yield 1.0 so that conversion degrades to a no-op instead of
// failing the whole valuation.
func (t RateTable) Rate(from, to string) float64 {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return 1.0
	}
	fromRate, okFrom := t.Rates[from]
	toRate, okTo := t.Rates[to]
	if !okFrom || !okTo || fromRate == 0 {
		return 1.0
	}
	return toRate / fromRate
}

// Convert converts an amount between currencies using the table.
func (t RateTable) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	r := t.Rate(from, to)
	if r == 1.0 {
		return amount
	}
	return amount.Mul(decimal.NewFromFloat(r))
}

// Quote is the normalized current market quote for one symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	CurrencyCode  string          `json:"currencyCode"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent float64         `json:"changePercent"`
	RefreshedAt   time.Time       `json:"refreshedAt"`
	Provenance    Provenance      `json:"provenance"`
}
