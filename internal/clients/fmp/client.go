// Package fmp provides an API client for Financial Modeling Prep
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

var (
	_ interfaces.MarketDataProvider = (*Client)(nil)
	_ interfaces.QuoteProvider      = (*Client)(nil)
	_ interfaces.DailyBarProvider   = (*Client)(nil)
)

const (
	defaultBaseURL   = "https://financialmodelingprep.com/api/v3"
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 5 // requests per second
)

// Client is a Financial Modeling Prep API client. FMP authenticates with
// an API key passed as a query parameter.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *common.Logger
}

// ClientOption configures the FMP client
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

// NewClient creates a new FMP API client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
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
	return "fmp"
}

// APIError represents an error response from the FMP API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fmp api error: status=%d endpoint=%s message=%s", e.StatusCode, e.Endpoint, e.Message)
}

// get performs a rate-limited GET with the API key attached and decodes
// the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().Str("path", path).Msg("fmp request")
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

type quoteEntry struct {
	Symbol        string   `json:"symbol"`
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previousClose"`
	MarketCap     *float64 `json:"marketCap"`
	PE            *float64 `json:"pe"`
	AvgVolume     *int64   `json:"avgVolume"`
	YearHigh      *float64 `json:"yearHigh"`
	YearLow       *float64 `json:"yearLow"`
}

type profileEntry struct {
	Symbol      string   `json:"symbol"`
	Beta        *float64 `json:"beta"`
	LastDiv     *float64 `json:"lastDiv"`
	CompanyName string   `json:"companyName"`
}

// MarketFields fetches quote and profile fields for a symbol. The profile
// call only fills fields the quote endpoint lacks, and its failure does
// not fail the whole fetch.
func (c *Client) MarketFields(ctx context.Context, symbol string) (models.MarketFields, error) {
	var fields models.MarketFields

	var quotes []quoteEntry
	if err := c.get(ctx, "/quote/"+url.PathEscape(symbol), nil, &quotes); err != nil {
		return fields, err
	}
	if len(quotes) == 0 {
		return fields, fmt.Errorf("fmp quote: no result for %s", symbol)
	}

	q := quotes[0]
	fields.Price = q.Price
	fields.PreviousClose = q.PreviousClose
	fields.MarketCap = q.MarketCap
	fields.TrailingPE = q.PE
	fields.AvgVolume = q.AvgVolume
	fields.Week52High = q.YearHigh
	fields.Week52Low = q.YearLow

	var profiles []profileEntry
	if err := c.get(ctx, "/profile/"+url.PathEscape(symbol), nil, &profiles); err == nil && len(profiles) > 0 {
		fields.Beta = profiles[0].Beta
	} else if err != nil && c.logger != nil {
		c.logger.Debug().Err(err).Str("symbol", symbol).Msg("fmp profile fetch failed")
	}

	return fields, nil
}

// PreviousClose fetches the prior session close from the quote endpoint
func (c *Client) PreviousClose(ctx context.Context, symbol string) (*float64, error) {
	var quotes []quoteEntry
	if err := c.get(ctx, "/quote/"+url.PathEscape(symbol), nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("fmp quote: no result for %s", symbol)
	}
	return quotes[0].PreviousClose, nil
}

type historicalResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string   `json:"date"` // YYYY-MM-DD
		Close  float64  `json:"close"`
		High   *float64 `json:"high"`
		Low    *float64 `json:"low"`
		Volume *int64   `json:"volume"`
	} `json:"historical"`
}

// DailyBars fetches daily closes for a symbol. FMP returns newest-first,
// so the result is reversed into ascending order.
func (c *Client) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var raw historicalResponse
	if err := c.get(ctx, "/historical-price-full/"+url.PathEscape(symbol), params, &raw); err != nil {
		return nil, err
	}

	bars := make([]models.PriceBar, 0, len(raw.Historical))
	for i := len(raw.Historical) - 1; i >= 0; i-- {
		h := raw.Historical[i]
		t, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		bars = append(bars, models.PriceBar{
			Timestamp: t.Unix(),
			Close:     h.Close,
			High:      h.High,
			Low:       h.Low,
			Volume:    h.Volume,
		})
	}

	return bars, nil
}
