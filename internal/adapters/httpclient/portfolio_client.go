package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hero710690/worthy-backend/internal/apperrors"
	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
	"github.com/shopspring/decimal"
)

// PortfolioClient reads holdings and transaction ledgers from the upstream
// asset CRUD API. Payloads are validated and normalized here, once, so
// downstream services only ever see well-formed domain values.
type PortfolioClient struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// NewPortfolioClient creates a client against the upstream portfolio API.
func NewPortfolioClient(baseURL string, httpClient *http.Client) *PortfolioClient {
	return &PortfolioClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		validate: validator.New(),
	}
}

var _ clients.PortfolioAPI = (*PortfolioClient)(nil)

// assetPayload is the wire shape of one holding.
type assetPayload struct {
	AssetID      string          `json:"asset_id" validate:"required"`
	Symbol       string          `json:"symbol" validate:"required"`
	AssetClass   string          `json:"asset_class" validate:"required"`
	Currency     string          `json:"currency" validate:"required,len=3"`
	TotalUnits   decimal.Decimal `json:"total_units"`
	AvgCostBasis decimal.Decimal `json:"avg_cost_basis"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Some deployments embed the ledger in the asset detail payload.
	Transactions []domain.RawTransaction `json:"transactions,omitempty"`
}

// ListHoldings retrieves all holdings.
func (c *PortfolioClient) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	var payload []assetPayload
	if err := getJSON(ctx, c.http, c.baseURL+"/assets", &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNoData, err)
	}

	holdings := make([]domain.Holding, 0, len(payload))
	for _, asset := range payload {
		if err := c.validate.Struct(asset); err != nil {
			return nil, fmt.Errorf("%w: asset %s: %v", apperrors.ErrValidation, asset.AssetID, err)
		}
		holdings = append(holdings, toHolding(asset))
	}
	return holdings, nil
}

// ListTransactions retrieves the normalized ledger for one holding. When the
// dedicated transactions endpoint is missing it falls back to the
// transactions embedded in the asset detail payload.
func (c *PortfolioClient) ListTransactions(ctx context.Context, holdingID string) ([]domain.Transaction, error) {
	var raw []domain.RawTransaction
	err := getJSON(ctx, c.http, fmt.Sprintf("%s/assets/%s/transactions", c.baseURL, holdingID), &raw)
	if err != nil {
		var detail assetPayload
		if detailErr := getJSON(ctx, c.http, fmt.Sprintf("%s/assets/%s", c.baseURL, holdingID), &detail); detailErr != nil {
			return nil, err
		}
		raw = detail.Transactions
	}

	txns := make([]domain.Transaction, 0, len(raw))
	for _, r := range raw {
		if r.AssetID == "" {
			r.AssetID = holdingID
		}
		txn, err := domain.NormalizeTransaction(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// PerformanceSummary retrieves the server-computed performance summary,
// passed through untouched to the reporting path.
func (c *PortfolioClient) PerformanceSummary(ctx context.Context, periodMonths int) (json.RawMessage, error) {
	var payload json.RawMessage
	url := fmt.Sprintf("%s/portfolio/performance?period=%d", c.baseURL, periodMonths)
	if err := getJSON(ctx, c.http, url, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func toHolding(asset assetPayload) domain.Holding {
	return domain.Holding{
		HoldingID:    asset.AssetID,
		Symbol:       asset.Symbol,
		AssetClass:   parseAssetClass(asset.AssetClass),
		CurrencyCode: strings.ToUpper(asset.Currency),
		TotalUnits:   asset.TotalUnits,
		AvgCostBasis: asset.AvgCostBasis,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
}

func parseAssetClass(s string) domain.AssetClass {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock", "equity":
		return domain.AssetClassStock
	case "etf", "fund":
		return domain.AssetClassETF
	case "bond", "fixed_income":
		return domain.AssetClassBond
	case "crypto", "cryptocurrency":
		return domain.AssetClassCrypto
	case "cash":
		return domain.AssetClassCash
	default:
		return domain.AssetClassOther
	}
}
