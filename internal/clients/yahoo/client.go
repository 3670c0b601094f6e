// Package yahoo provides an API client for Yahoo Finance
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

var (
	_ interfaces.MarketDataProvider = (*Client)(nil)
	_ interfaces.QuoteProvider      = (*Client)(nil)
	_ interfaces.BarProvider        = (*Client)(nil)
)

const (
	defaultBaseURL   = "https://query2.finance.yahoo.com"
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 5 // requests per second
	crumbTTL         = time.Hour

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Client is a Yahoo Finance API client. The quoteSummary endpoints require
// a session cookie plus a crumb token, so the client carries a cookie jar
// and refreshes the crumb when it expires or is rejected.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *common.Logger

	crumbMu      sync.Mutex
	crumb        string
	crumbFetched time.Time
}

// ClientOption configures the Yahoo client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the client
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the request rate limit (requests per second)
func WithRateLimit(rps int) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.rateLimiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// WithLogger sets the logger for the client
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	client := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateLimit),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Name identifies the provider in aggregation logs
func (c *Client) Name() string {
	return "yahoo"
}

// APIError represents an error response from the Yahoo Finance API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo api error: status=%d endpoint=%s message=%s", e.StatusCode, e.Endpoint, e.Message)
}

// yfVal is Yahoo's numeric wrapper. Raw is a pointer so an absent value is
// distinguishable from a reported zero.
type yfVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// getCrumb returns a valid crumb token, seeding the cookie jar first.
// Yahoo hands out session cookies on any page request; fc.yahoo.com is a
// cheap one that always responds.
func (c *Client) getCrumb(ctx context.Context, force bool) (string, error) {
	c.crumbMu.Lock()
	defer c.crumbMu.Unlock()

	if !force && c.crumb != "" && time.Since(c.crumbFetched) < crumbTTL {
		return c.crumb, nil
	}

	seed, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://fc.yahoo.com", nil)
	if err != nil {
		return "", fmt.Errorf("create seed request: %w", err)
	}
	seed.Header.Set("User-Agent", userAgent)
	if resp, err := c.httpClient.Do(seed); err == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", fmt.Errorf("create crumb request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch crumb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "crumb fetch failed", Endpoint: "/v1/test/getcrumb"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("read crumb: %w", err)
	}

	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.Contains(crumb, "<") {
		return "", fmt.Errorf("invalid crumb response")
	}

	c.crumb = crumb
	c.crumbFetched = time.Now()
	return crumb, nil
}

// get performs a rate-limited GET and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().Str("path", path).Msg("yahoo request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				PreviousClose     yfVal `json:"previousClose"`
				TrailingPE        yfVal `json:"trailingPE"`
				ForwardPE         yfVal `json:"forwardPE"`
				DividendYield     yfVal `json:"dividendYield"`
				AverageVolume     yfVal `json:"averageVolume"`
				Beta              yfVal `json:"beta"`
				FiftyTwoWeekLow   yfVal `json:"fiftyTwoWeekLow"`
				FiftyTwoWeekHigh  yfVal `json:"fiftyTwoWeekHigh"`
				MarketCap         yfVal `json:"marketCap"`
			} `json:"summaryDetail"`
			Price struct {
				RegularMarketPrice yfVal `json:"regularMarketPrice"`
				MarketCap          yfVal `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// MarketFields fetches the quoteSummary modules for a symbol. A rejected
// crumb (401) triggers one forced refresh and retry.
func (c *Client) MarketFields(ctx context.Context, symbol string) (models.MarketFields, error) {
	var fields models.MarketFields

	crumb, err := c.getCrumb(ctx, false)
	if err != nil {
		return fields, err
	}

	fetch := func(crumb string) (*quoteSummaryResponse, error) {
		params := url.Values{}
		params.Set("modules", "summaryDetail,price")
		params.Set("crumb", crumb)
		var raw quoteSummaryResponse
		err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &raw)
		return &raw, err
	}

	raw, err := fetch(crumb)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			crumb, err = c.getCrumb(ctx, true)
			if err != nil {
				return fields, err
			}
			raw, err = fetch(crumb)
		}
		if err != nil {
			return fields, err
		}
	}

	if raw.QuoteSummary.Error != nil {
		return fields, fmt.Errorf("yahoo quoteSummary error: %s", raw.QuoteSummary.Error.Description)
	}
	if len(raw.QuoteSummary.Result) == 0 {
		return fields, fmt.Errorf("yahoo quoteSummary: no result for %s", symbol)
	}

	r := raw.QuoteSummary.Result[0]
	fields.Price = r.Price.RegularMarketPrice.Raw
	fields.PreviousClose = r.SummaryDetail.PreviousClose.Raw
	fields.MarketCap = r.Price.MarketCap.Raw
	if fields.MarketCap == nil {
		fields.MarketCap = r.SummaryDetail.MarketCap.Raw
	}
	fields.TrailingPE = r.SummaryDetail.TrailingPE.Raw
	fields.ForwardPE = r.SummaryDetail.ForwardPE.Raw
	fields.Beta = r.SummaryDetail.Beta.Raw
	fields.DividendYield = r.SummaryDetail.DividendYield.Raw
	if v := r.SummaryDetail.AverageVolume.Raw; v != nil {
		vol := int64(*v)
		fields.AvgVolume = &vol
	}
	fields.Week52Low = r.SummaryDetail.FiftyTwoWeekLow.Raw
	fields.Week52High = r.SummaryDetail.FiftyTwoWeekHigh.Raw

	return fields, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func chartInterval(interval models.Interval) string {
	switch interval {
	case models.Interval1Min:
		return "1m"
	case models.Interval15Min:
		return "15m"
	case models.Interval1Hour:
		return "60m"
	default:
		return "1d"
	}
}

// Bars fetches price bars from the chart endpoint. Slots with a nil close
// (halts, holes in intraday data) are skipped.
func (c *Client) Bars(ctx context.Context, symbol string, from, to time.Time, interval models.Interval) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Unix()))
	params.Set("interval", chartInterval(interval))

	var raw chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &raw); err != nil {
		return nil, err
	}
	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s", raw.Chart.Error.Description)
	}
	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart: no result for %s", symbol)
	}

	result := raw.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.PriceBar{
			Timestamp: ts,
			Close:     *quote.Close[i],
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// PreviousClose fetches the prior session close from the chart metadata,
// which does not require a crumb.
func (c *Client) PreviousClose(ctx context.Context, symbol string) (*float64, error) {
	now := time.Now()
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", now.Add(-5*24*time.Hour).Unix()))
	params.Set("period2", fmt.Sprintf("%d", now.Unix()))
	params.Set("interval", "1d")

	var raw chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params, &raw); err != nil {
		return nil, err
	}
	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s", raw.Chart.Error.Description)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart: no result for %s", symbol)
	}

	return raw.Chart.Result[0].Meta.ChartPreviousClose, nil
}
