package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hero710690/worthy-backend/internal/apperrors"
	"github.com/hero710690/worthy-backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatesClientParsesPayloadAndForcesPivot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// Provider says the pivot trades at 0.999 against itself; we ignore it.
		_, _ = w.Write([]byte(`{"base":"USD","date":"2026-08-31","rates":{"eur":0.92,"JPY":149.5,"USD":0.999}}`))
	}))
	defer server.Close()

	client := NewRatesClient(server.URL, server.Client())
	table, err := client.FetchRates(context.Background(), "usd")

	require.NoError(t, err)
	assert.Equal(t, "USD", table.Base)
	assert.Equal(t, domain.ProvenanceLive, table.Provenance)
	assert.Equal(t, 1.0, table.Rates["USD"], "pivot rate is pinned to 1.0")
	assert.Equal(t, 0.92, table.Rates["EUR"], "currency codes are uppercased")
	assert.Equal(t, 149.5, table.Rates["JPY"])
}

func TestRatesClientWrapsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRatesClient(server.URL, server.Client())
	_, err := client.FetchRates(context.Background(), "USD")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}

func TestAlphaVantageClientParsesGlobalQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "demo-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Global Quote":{"01. symbol":"AAPL","05. price":"195.5000","09. change":"1.2500","10. change percent":"0.6435%"}}`))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(server.URL, "demo-key", "usd", server.Client())
	quote, err := client.FetchQuote(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(195.5)))
	assert.Equal(t, "USD", quote.CurrencyCode)
	assert.True(t, quote.Change.Equal(decimal.NewFromFloat(1.25)))
	assert.InDelta(t, 0.6435, quote.ChangePercent, 1e-9)
	assert.Equal(t, domain.ProvenanceLive, quote.Provenance)
}

func TestAlphaVantageClientTreatsNoteAsRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(server.URL, "demo-key", "USD", server.Client())
	_, err := client.FetchQuote(context.Background(), "AAPL")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
}

func TestAlphaVantageClientTreatsErrorMessageAsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Error Message":"Invalid API call."}`))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(server.URL, "demo-key", "USD", server.Client())
	_, err := client.FetchQuote(context.Background(), "NOPE")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}

func TestAlphaVantageClientRejectsEmptyQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Global Quote":{}}`))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(server.URL, "demo-key", "USD", server.Client())
	_, err := client.FetchQuote(context.Background(), "AAPL")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}

func TestPortfolioClientListHoldings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"asset_id":"a1","symbol":"AAPL","asset_class":"Stock","currency":"usd","total_units":"10","avg_cost_basis":"100.5"},
			{"asset_id":"a2","symbol":"CASH-TWD","asset_class":"cash","currency":"TWD","total_units":"50000","avg_cost_basis":"1"}
		]`))
	}))
	defer server.Close()

	client := NewPortfolioClient(server.URL, server.Client())
	holdings, err := client.ListHoldings(context.Background())

	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "a1", holdings[0].HoldingID)
	assert.Equal(t, domain.AssetClassStock, holdings[0].AssetClass)
	assert.Equal(t, "USD", holdings[0].CurrencyCode)
	assert.True(t, holdings[0].AvgCostBasis.Equal(decimal.NewFromFloat(100.5)))
	assert.Equal(t, domain.AssetClassCash, holdings[1].AssetClass)
}

func TestPortfolioClientRejectsInvalidAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"asset_id":"a1","symbol":"AAPL","asset_class":"stock","currency":"dollars"}]`))
	}))
	defer server.Close()

	client := NewPortfolioClient(server.URL, server.Client())
	_, err := client.ListHoldings(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPortfolioClientListTransactionsDedicatedEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets/a1/transactions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"transaction_id":"t1","asset_id":"a1","transaction_type":"buy","units":"10","price_per_unit":"100","currency":"USD","date":"2026-01-15T00:00:00Z"}]`))
	}))
	defer server.Close()

	client := NewPortfolioClient(server.URL, server.Client())
	txns, err := client.ListTransactions(context.Background(), "a1")

	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, domain.TxnPurchaseLumpSum, txns[0].Type)
	assert.True(t, txns[0].TotalAmount.Equal(decimal.NewFromInt(1000)))
}

func TestPortfolioClientFallsBackToEmbeddedTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/assets/a1/transactions":
			http.NotFound(w, r)
		case "/assets/a1":
			_, _ = w.Write([]byte(`{"asset_id":"a1","symbol":"AAPL","asset_class":"stock","currency":"USD","transactions":[
				{"transaction_id":"t1","transaction_type":"dividend","units":"10","dividend_per_share":"0.25","currency":"USD","date":"2026-02-01T00:00:00Z"}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewPortfolioClient(server.URL, server.Client())
	txns, err := client.ListTransactions(context.Background(), "a1")

	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "a1", txns[0].HoldingID, "asset id is backfilled from the path parameter")
	assert.Equal(t, domain.TxnDividend, txns[0].Type)
	assert.True(t, txns[0].TotalAmount.Equal(decimal.NewFromFloat(2.5)))
}

func TestGetJSONMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	var out map[string]any
	err := getJSON(context.Background(), server.Client(), server.URL+"/missing", &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
