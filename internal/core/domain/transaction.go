package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags a transaction. Only the two purchase types count
// toward capital contributed; only dividends count toward income.
type TransactionType string

const (
	TxnPurchaseLumpSum   TransactionType = "PURCHASE_LUMP_SUM"
	TxnPurchaseRecurring TransactionType = "PURCHASE_RECURRING"
	TxnDividend          TransactionType = "DIVIDEND"
	TxnOther             TransactionType = "OTHER"
)

// IsPurchase reports whether the type contributes to invested capital.
func (t TransactionType) IsPurchase() bool {
	return t == TxnPurchaseLumpSum || t == TxnPurchaseRecurring
}

// Transaction is the normalized form of one ledger entry for a holding.
// TotalAmount is always populated: units x price for purchases, the full
// dividend amount for dividends.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	HoldingID     string          `json:"holdingID"`
	Type          TransactionType `json:"type"`
	Units         decimal.Decimal `json:"units"`
	PricePerUnit  decimal.Decimal `json:"pricePerUnit"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CurrencyCode  string          `json:"currencyCode"`
	DateEffective time.Time       `json:"dateEffective"`
}

// RawTransaction is the wire shape delivered by the asset API. Dividend rows
// carry either a total amount or a per-share amount; purchase rows carry
// units and price. Normalization resolves these variants exactly once, at the
// ingestion boundary.
type RawTransaction struct {
	TransactionID       string           `json:"transaction_id"`
	AssetID             string           `json:"asset_id"`
	Type                string           `json:"transaction_type"`
	Units               decimal.Decimal  `json:"units"`
	PricePerUnit        decimal.Decimal  `json:"price_per_unit"`
	DividendPerShare    *decimal.Decimal `json:"dividend_per_share,omitempty"`
	TotalDividendAmount *decimal.Decimal `json:"total_dividend_amount,omitempty"`
	CurrencyCode        string           `json:"currency"`
	Date                time.Time        `json:"date"`
}

// NormalizeTransaction converts a wire transaction into its tagged, fully
// populated domain form.
func NormalizeTransaction(raw RawTransaction) (Transaction, error) {
	txnType := parseTransactionType(raw.Type)

	txn := Transaction{
		TransactionID: raw.TransactionID,
		HoldingID:     raw.AssetID,
		Type:          txnType,
		Units:         raw.Units,
		PricePerUnit:  raw.PricePerUnit,
		CurrencyCode:  strings.ToUpper(raw.CurrencyCode),
		DateEffective: raw.Date,
	}

	switch txnType {
	case TxnPurchaseLumpSum, TxnPurchaseRecurring:
		txn.TotalAmount = raw.Units.Mul(raw.PricePerUnit)
	case TxnDividend:
		switch {
		case raw.TotalDividendAmount != nil:
			txn.TotalAmount = *raw.TotalDividendAmount
		case raw.DividendPerShare != nil:
			txn.TotalAmount = raw.DividendPerShare.Mul(raw.Units)
		default:
			return Transaction{}, fmt.Errorf("dividend transaction %s has neither total_dividend_amount nor dividend_per_share", raw.TransactionID)
		}
	default:
		txn.TotalAmount = raw.Units.Mul(raw.PricePerUnit)
	}

	return txn, nil
}

// parseTransactionType maps the asset API's loosely-specified type strings
// onto the closed domain set. Unknown types degrade to TxnOther, which the
// engine ignores for both capital and income.
func parseTransactionType(s string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchase", "buy", "lump_sum", "purchase_lump_sum":
		return TxnPurchaseLumpSum
	case "recurring_purchase", "recurring", "purchase_recurring", "sip":
		return TxnPurchaseRecurring
	case "dividend", "dividends":
		return TxnDividend
	default:
		return TxnOther
	}
}
