package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass categorizes a holding. The set is closed; Cash is special-cased
// throughout the engine (never priced, excluded from returns).
type AssetClass string

const (
	AssetClassStock  AssetClass = "Stock"
	AssetClassETF    AssetClass = "ETF"
	AssetClassBond   AssetClass = "Bond"
	AssetClassCrypto AssetClass = "Crypto"
	AssetClassCash   AssetClass = "Cash"
	AssetClassOther  AssetClass = "Other"
)

// IsCash reports whether the class is the pricing-exempt cash class.
func (a AssetClass) IsCash() bool {
	return a == AssetClassCash
}

// Holding represents one position in the portfolio. Holdings are owned by the
// upstream asset API; this service only reads them.
type Holding struct {
	HoldingID    string          `json:"holdingID"`
	Symbol       string          `json:"symbol"`
	AssetClass   AssetClass      `json:"assetClass"`
	CurrencyCode string          `json:"currencyCode"` // e.g. "USD"
	TotalUnits   decimal.Decimal `json:"totalUnits"`
	AvgCostBasis decimal.Decimal `json:"avgCostBasis"` // per unit, in CurrencyCode
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CostBasisTotal is the total amount paid for the position at average cost,
// in the holding's own currency.
func (h Holding) CostBasisTotal() decimal.Decimal {
	return h.TotalUnits.Mul(h.AvgCostBasis)
}
