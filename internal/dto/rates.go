package dto

import (
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateResponse is the API shape of one currency-pair rate lookup.
type RateResponse struct {
	FromCurrencyCode string    `json:"fromCurrencyCode"`
	ToCurrencyCode   string    `json:"toCurrencyCode"`
	Rate             float64   `json:"rate"`
	Provenance       string    `json:"provenance"`
	RefreshedAt      time.Time `json:"refreshedAt"`
}

// ConvertRequest binds the query parameters of a conversion request.
type ConvertRequest struct {
	Amount decimal.Decimal `form:"amount" binding:"required"`
	From   string          `form:"from" binding:"required,len=3"`
	To     string          `form:"to" binding:"required,len=3"`
}

// ConvertResponse is the API shape of a currency conversion.
type ConvertResponse struct {
	Amount           decimal.Decimal `json:"amount"`
	Converted        decimal.Decimal `json:"converted"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             float64         `json:"rate"`
	Provenance       string          `json:"provenance"`
}

// QuoteResponse is the API shape of one symbol quote.
type QuoteResponse struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	CurrencyCode  string          `json:"currencyCode"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent float64         `json:"changePercent"`
	RefreshedAt   time.Time       `json:"refreshedAt"`
	Provenance    string          `json:"provenance"`
}

// ToQuoteResponse converts a domain.Quote to its response DTO.
func ToQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		Symbol:        q.Symbol,
		Price:         q.Price,
		CurrencyCode:  q.CurrencyCode,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		RefreshedAt:   q.RefreshedAt,
		Provenance:    string(q.Provenance),
	}
}
