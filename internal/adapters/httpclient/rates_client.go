package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/hero710690/worthy-backend/internal/core/ports/clients"
)

// RatesClient fetches exchange-rate tables from a provider exposing
// GET {base}/{pivot} -> { base, date, rates }.
type RatesClient struct {
	baseURL string
	http    *http.Client
}

// NewRatesClient creates a rates client against the given provider base URL.
func NewRatesClient(baseURL string, httpClient *http.Client) *RatesClient {
	return &RatesClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

var _ clients.RateSource = (*RatesClient)(nil)

type ratesPayload struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates retrieves the current rate table relative to pivot.
func (c *RatesClient) FetchRates(ctx context.Context, pivot string) (*domain.RateTable, error) {
	pivot = strings.ToUpper(pivot)

	var payload ratesPayload
	url := fmt.Sprintf("%s/%s", c.baseURL, pivot)
	if err := getJSON(ctx, c.http, url, &payload); err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(payload.Rates)+1)
	for code, rate := range payload.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	// Pivot always maps to 1.0, whatever the provider says.
	rates[pivot] = 1.0

	return &domain.RateTable{
		Base:        pivot,
		Rates:       rates,
		RefreshedAt: time.Now(),
		Provenance:  domain.ProvenanceLive,
	}, nil
}
