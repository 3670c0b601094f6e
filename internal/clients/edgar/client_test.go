package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyTickersParsesColumnFormat(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/files/company_tickers_exchange.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"fields": ["cik", "name", "ticker", "exchange"],
			"data": [
				[320193, "Apple Inc.", "AAPL", "Nasdaq"],
				[789019, "MICROSOFT CORP", "MSFT", "Nasdaq"],
				[1318605, "Tesla, Inc.", "TSLA", null]
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test/1.0 (test@example.com)", WithBaseURL(srv.URL))

	tickers, err := client.CompanyTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 3)

	assert.Equal(t, "test/1.0 (test@example.com)", gotUserAgent)
	assert.Equal(t, "0000320193", tickers[0].CIK)
	assert.Equal(t, "AAPL", tickers[0].Symbol)
	assert.Equal(t, "Apple Inc.", tickers[0].Name)
	assert.Equal(t, "Nasdaq", tickers[0].Exchange)

	// null exchange parses as empty
	assert.Equal(t, "0001318605", tickers[2].CIK)
	assert.Equal(t, "", tickers[2].Exchange)
}

func TestCompanyTickersMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fields": ["cik", "name"], "data": []}`))
	}))
	defer srv.Close()

	client := NewClient("test/1.0", WithBaseURL(srv.URL))

	_, err := client.CompanyTickers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing expected fields")
}

func TestCompanyFactsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/xbrl/companyfacts/CIK0000320193.json", r.URL.Path)
		w.Write([]byte(`{
			"entityName": "Apple Inc.",
			"facts": {
				"us-gaap": {
					"Revenues": {
						"label": "Revenues",
						"units": {"USD": [{"end": "2023-12-31", "val": 100.0, "form": "10-K"}]}
					}
				}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test/1.0", WithDataBaseURL(srv.URL))

	facts, err := client.CompanyFacts(context.Background(), "0000320193")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", facts.EntityName)

	obs := facts.Facts["us-gaap"]["Revenues"].Units["USD"]
	require.Len(t, obs, 1)
	require.NotNil(t, obs[0].Val)
	assert.Equal(t, 100.0, *obs[0].Val)
}

func TestSubmissionsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submissions/CIK0000320193.json", r.URL.Path)
		w.Write([]byte(`{
			"cik": "320193",
			"name": "Apple Inc.",
			"filings": {
				"recent": {
					"accessionNumber": ["0000320193-24-000001"],
					"form": ["10-K"],
					"filingDate": ["2024-02-01"],
					"reportDate": ["2023-12-31"],
					"primaryDocument": ["aapl-10k.htm"]
				}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test/1.0", WithDataBaseURL(srv.URL))

	subs, err := client.Submissions(context.Background(), "0000320193")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", subs.Name)
	require.Len(t, subs.Filings.Recent.AccessionNumbers, 1)
	assert.Equal(t, "10-K", subs.Filings.Recent.Forms[0])
}

func TestAPIErrorOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("test/1.0", WithBaseURL(srv.URL))

	_, err := client.CompanyTickers(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
