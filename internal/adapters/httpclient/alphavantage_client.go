package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hero710690/worthy-backend/internal/apperrors"
	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
	"github.com/shopspring/decimal"
)

// AlphaVantageClient fetches quotes through the provider's GLOBAL_QUOTE
// function. Quote prices come back denominated in the provider currency.
type AlphaVantageClient struct {
	baseURL       string
	apiKey        string
	quoteCurrency string
	http          *http.Client
}

// NewAlphaVantageClient creates a quote client. quoteCurrency is the currency
// the provider quotes prices in, typically the pivot currency.
func NewAlphaVantageClient(baseURL, apiKey, quoteCurrency string, httpClient *http.Client) *AlphaVantageClient {
	return &AlphaVantageClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		quoteCurrency: strings.ToUpper(quoteCurrency),
		http:          httpClient,
	}
}

var _ clients.QuoteSource = (*AlphaVantageClient)(nil)

// globalQuotePayload covers the three shapes the provider returns: a quote,
// a rate-limit note, or an error message.
type globalQuotePayload struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	Note         string            `json:"Note"`
	ErrorMessage string            `json:"Error Message"`
}

// FetchQuote retrieves the latest quote for symbol.
func (c *AlphaVantageClient) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)

	var payload globalQuotePayload
	if err := getJSON(ctx, c.http, c.baseURL+"?"+q.Encode(), &payload); err != nil {
		return nil, err
	}

	if payload.Note != "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRateLimited, payload.Note)
	}
	if payload.ErrorMessage != "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrProviderUnavailable, payload.ErrorMessage)
	}
	if len(payload.GlobalQuote) == 0 {
		return nil, fmt.Errorf("%w: empty quote for %s", apperrors.ErrProviderUnavailable, symbol)
	}

	price, err := decimal.NewFromString(payload.GlobalQuote["05. price"])
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable price for %s: %v", apperrors.ErrProviderUnavailable, symbol, err)
	}

	// Change fields are optional; a quote without them is still usable.
	change, _ := decimal.NewFromString(payload.GlobalQuote["09. change"])
	changePct := parseChangePercent(payload.GlobalQuote["10. change percent"])

	return &domain.Quote{
		Symbol:        symbol,
		Price:         price,
		CurrencyCode:  c.quoteCurrency,
		Change:        change,
		ChangePercent: changePct,
		RefreshedAt:   time.Now(),
		Provenance:    domain.ProvenanceLive,
	}, nil
}

func parseChangePercent(raw string) float64 {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
