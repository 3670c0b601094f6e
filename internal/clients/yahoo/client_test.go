package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-io/finsight/internal/models"
)

func TestBarsParsesChartResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/ACME", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"chartPreviousClose": 48.5},
					"timestamp": [100, 200, 300],
					"indicators": {
						"quote": [{
							"close": [10.0, null, 12.0],
							"high": [10.5, null, 12.5],
							"low": [9.5, null, 11.5],
							"volume": [1000, null, 1200]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	from := time.Unix(0, 0)
	to := time.Unix(1000, 0)
	bars, err := client.Bars(context.Background(), "ACME", from, to, models.Interval1Day)
	require.NoError(t, err)

	// The null close slot is skipped.
	require.Len(t, bars, 2)
	assert.Equal(t, int64(100), bars[0].Timestamp)
	assert.Equal(t, 10.0, bars[0].Close)
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, int64(1000), *bars[0].Volume)
	assert.Equal(t, int64(300), bars[1].Timestamp)
	assert.Equal(t, 12.0, bars[1].Close)
}

func TestBarsIntervalMapping(t *testing.T) {
	var gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(`{"chart": {"result": [{"timestamp": [], "indicators": {"quote": [{}]}}], "error": null}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	from, to := time.Unix(0, 0), time.Unix(1000, 0)

	cases := map[models.Interval]string{
		models.Interval1Min:  "1m",
		models.Interval15Min: "15m",
		models.Interval1Hour: "60m",
		models.Interval1Day:  "1d",
	}
	for interval, want := range cases {
		_, err := client.Bars(context.Background(), "ACME", from, to, interval)
		require.NoError(t, err)
		assert.Equal(t, want, gotInterval)
	}
}

func TestPreviousCloseFromChartMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chart": {
				"result": [{"meta": {"chartPreviousClose": 48.5}, "timestamp": [], "indicators": {"quote": [{}]}}],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	pc, err := client.PreviousClose(context.Background(), "ACME")
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, 48.5, *pc)
}

func TestBarsChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.Bars(context.Background(), "ACME", time.Unix(0, 0), time.Unix(1000, 0), models.Interval1Day)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestMarketFieldsParsesQuoteSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/test/getcrumb":
			w.Write([]byte("testcrumb"))
		case "/v10/finance/quoteSummary/ACME":
			assert.Equal(t, "testcrumb", r.URL.Query().Get("crumb"))
			w.Write([]byte(`{
				"quoteSummary": {
					"result": [{
						"summaryDetail": {
							"previousClose": {"raw": 49.0, "fmt": "49.00"},
							"trailingPE": {"raw": 25.0, "fmt": "25.00"},
							"dividendYield": {"raw": 0.005, "fmt": "0.50%"},
							"averageVolume": {"raw": 1000000, "fmt": "1M"},
							"beta": {"raw": 1.2, "fmt": "1.20"},
							"fiftyTwoWeekLow": {"raw": 30.0, "fmt": "30.00"},
							"fiftyTwoWeekHigh": {"raw": 60.0, "fmt": "60.00"}
						},
						"price": {
							"regularMarketPrice": {"raw": 50.0, "fmt": "50.00"},
							"marketCap": {"raw": 1000000000, "fmt": "1B"}
						}
					}],
					"error": null
				}
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	// Short timeout bounds the crumb seed request, which points at an
	// unreachable host under test.
	client := NewClient(WithBaseURL(srv.URL), WithTimeout(2*time.Second))

	fields, err := client.MarketFields(context.Background(), "ACME")
	require.NoError(t, err)

	require.NotNil(t, fields.Price)
	assert.Equal(t, 50.0, *fields.Price)
	assert.Equal(t, 49.0, *fields.PreviousClose)
	assert.Equal(t, 1e9, *fields.MarketCap)
	assert.Equal(t, 25.0, *fields.TrailingPE)
	assert.Nil(t, fields.ForwardPE)
	assert.Equal(t, 1.2, *fields.Beta)
	require.NotNil(t, fields.AvgVolume)
	assert.Equal(t, int64(1000000), *fields.AvgVolume)
	assert.Equal(t, 30.0, *fields.Week52Low)
	assert.Equal(t, 60.0, *fields.Week52High)
}
