// Package models defines data structures for finsight
package models

// FilerIdentity maps a ticker symbol to the regulator-assigned filer
// identifier (CIK), zero-padded to 10 digits.
type FilerIdentity struct {
	Symbol string `json:"symbol"`
	CIK    string `json:"cik"`
	Name   string `json:"name,omitempty"`
}

// SeriesPoint is one observation in a normalized time series.
// Value is nil when the upstream reported a null or non-finite number.
type SeriesPoint struct {
	Date  string   `json:"date"` // YYYY-MM-DD
	Value *float64 `json:"value"`
}

// NormalizedSeries is an ascending, date-deduplicated time series.
type NormalizedSeries []SeriesPoint

// SeriesBundle groups normalized series by metric name for the series endpoint.
type SeriesBundle map[string]NormalizedSeries

// MarketFields holds the market/reference scalar fields one provider can
// supply for a symbol. Every field is independently optional: nil means
// the provider has no value, and the aggregator falls through to the next
// provider in preference order.
type MarketFields struct {
	Price         *float64
	PreviousClose *float64
	MarketCap     *float64
	TrailingPE    *float64
	ForwardPE     *float64
	Beta          *float64
	DividendYield *float64
	AvgVolume     *int64
	Week52Low     *float64
	Week52High    *float64
}

// FinancialSnapshot is the point-in-time bundle of market and fundamental
// fields for one issuer. Every field is independently nullable; absence of
// one never blocks computation of another.
type FinancialSnapshot struct {
	Symbol  string `json:"symbol"`
	CIK     string `json:"cik"`
	Company string `json:"company,omitempty"`

	// Market fields, provider preference order with per-field fallback.
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previous_close"`
	MarketCap     *float64 `json:"market_cap"`
	TrailingPE    *float64 `json:"trailing_pe"`
	ForwardPE     *float64 `json:"forward_pe"`
	Beta          *float64 `json:"beta"`
	DividendYield *float64 `json:"dividend_yield"`
	AvgVolume     *int64   `json:"avg_volume"`
	Week52Low     *float64 `json:"week52_low"`
	Week52High    *float64 `json:"week52_high"`

	// Fundamental fields, latest values from the structured-facts series.
	RevenueTTM         *float64 `json:"revenue_ttm"`
	NetIncomeTTM       *float64 `json:"net_income_ttm"`
	EPSTTM             *float64 `json:"eps_ttm"`
	GrossProfitTTM     *float64 `json:"gross_profit_ttm"`
	OperatingIncomeTTM *float64 `json:"operating_income_ttm"`
	TotalLiabilities   *float64 `json:"total_liabilities"`
	ShareholdersEquity *float64 `json:"shareholders_equity"`
	DividendPerShare   *float64 `json:"dividend_per_share_ttm"`

	// Derived ratios, nil whenever an operand is nil or a denominator is zero.
	PERatio          *float64 `json:"pe_ratio"`
	ROE              *float64 `json:"roe"`
	DebtToEquity     *float64 `json:"debt_to_equity"`
	RevenueGrowthYoY *float64 `json:"revenue_growth_yoy"`

	Insight string `json:"insight,omitempty"`
}

// PriceBar is one price observation over a fixed time unit.
type PriceBar struct {
	Timestamp int64    `json:"timestamp"` // epoch seconds
	Close     float64  `json:"close"`
	Volume    *int64   `json:"volume"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
}

// PriceHistory is the shaped response of the price history endpoint.
type PriceHistory struct {
	Symbol string     `json:"symbol"`
	Range  string     `json:"range"`
	Points []PriceBar `json:"points"`
}

// FilingRecord is one regulatory filing entry.
type FilingRecord struct {
	Form            string  `json:"form"`
	FiledAt         string  `json:"filed_at"`
	ReportDate      *string `json:"report_date"`
	AccessionNumber string  `json:"accession_number"`
	PrimaryDocument string  `json:"primary_document,omitempty"`
	DocumentURL     *string `json:"document_url"`
}

// FilingIndex is the filings endpoint response. FilerID is nil when the
// symbol could not be resolved; that is a success with an empty list, not
// an error.
type FilingIndex struct {
	Symbol  string         `json:"symbol"`
	FilerID *string        `json:"filer_id"`
	Filings []FilingRecord `json:"filings"`
}
