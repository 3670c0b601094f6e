// Package edgar provides an API client for the SEC EDGAR datasets
package edgar

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

var _ interfaces.EdgarClient = (*Client)(nil)

const (
	defaultBaseURL     = "https://www.sec.gov"
	defaultDataBaseURL = "https://data.sec.gov"
	defaultTimeout     = 30 * time.Second
	defaultRateLimit   = 10 // requests per second, per EDGAR fair-access policy
)

// Client is an EDGAR API client. EDGAR rejects requests without a
// descriptive User-Agent, so one is always sent.
type Client struct {
	baseURL     string
	dataBaseURL string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *common.Logger
}

// ClientOption configures the EDGAR client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the www host
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithDataBaseURL sets a custom base URL for the data host
func WithDataBaseURL(dataBaseURL string) ClientOption {
	return func(c *Client) {
		c.dataBaseURL = dataBaseURL
	}
}

// WithUserAgent sets the User-Agent header sent on every request
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
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

// NewClient creates a new EDGAR API client
func NewClient(userAgent string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL:     defaultBaseURL,
		dataBaseURL: defaultDataBaseURL,
		userAgent:   userAgent,
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

// APIError represents an error response from the EDGAR API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("edgar api error: status=%d endpoint=%s message=%s", e.StatusCode, e.Endpoint, e.Message)
}

// get performs a rate-limited GET against an absolute URL and decodes the
// JSON body into result.
func (c *Client) get(ctx context.Context, rawURL string, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().Str("url", rawURL).Msg("edgar request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		u, _ := url.Parse(rawURL)
		endpoint := rawURL
		if u != nil {
			endpoint = u.Path
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// companyTickersResponse mirrors the column-oriented layout of the
// company reference dataset: a header row of field names plus data rows.
type companyTickersResponse struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// CompanyTickers fetches the full company reference table. CIK values are
// zero-padded to 10 digits.
func (c *Client) CompanyTickers(ctx context.Context) ([]models.CompanyTicker, error) {
	var raw companyTickersResponse
	u := c.baseURL + "/files/company_tickers_exchange.json"
	if err := c.get(ctx, u, &raw); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(raw.Fields))
	for i, f := range raw.Fields {
		idx[f] = i
	}
	cikIdx, ok1 := idx["cik"]
	nameIdx, ok2 := idx["name"]
	tickerIdx, ok3 := idx["ticker"]
	exchangeIdx, ok4 := idx["exchange"]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("company tickers response missing expected fields: %v", raw.Fields)
	}

	tickers := make([]models.CompanyTicker, 0, len(raw.Data))
	for _, row := range raw.Data {
		if len(row) <= cikIdx || len(row) <= nameIdx || len(row) <= tickerIdx {
			continue
		}
		cik, ok := row[cikIdx].(float64)
		if !ok {
			continue
		}
		t := models.CompanyTicker{
			CIK: fmt.Sprintf("%010d", int64(cik)),
		}
		if name, ok := row[nameIdx].(string); ok {
			t.Name = name
		}
		if symbol, ok := row[tickerIdx].(string); ok {
			t.Symbol = symbol
		}
		if len(row) > exchangeIdx {
			if ex, ok := row[exchangeIdx].(string); ok {
				t.Exchange = ex
			}
		}
		if t.Symbol == "" {
			continue
		}
		tickers = append(tickers, t)
	}

	return tickers, nil
}

// CompanyFacts fetches the structured-facts document for one issuer.
// cik must already be zero-padded to 10 digits.
func (c *Client) CompanyFacts(ctx context.Context, cik string) (*models.CompanyFacts, error) {
	var facts models.CompanyFacts
	u := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.dataBaseURL, cik)
	if err := c.get(ctx, u, &facts); err != nil {
		return nil, err
	}
	return &facts, nil
}

// Submissions fetches the filing history document for one issuer.
// cik must already be zero-padded to 10 digits.
func (c *Client) Submissions(ctx context.Context, cik string) (*models.Submissions, error) {
	var subs models.Submissions
	u := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBaseURL, cik)
	if err := c.get(ctx, u, &subs); err != nil {
		return nil, err
	}
	return &subs, nil
}
