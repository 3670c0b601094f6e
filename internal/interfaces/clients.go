// Package interfaces defines service and client contracts for finsight
package interfaces

import (
	"context"
	"time"

	"github.com/finsight-io/finsight/internal/models"
)

// EdgarClient fetches regulator datasets: the company reference table,
// structured facts, and filing history.
type EdgarClient interface {
	CompanyTickers(ctx context.Context) ([]models.CompanyTicker, error)
	CompanyFacts(ctx context.Context, cik string) (*models.CompanyFacts, error)
	Submissions(ctx context.Context, cik string) (*models.Submissions, error)
}

// MarketDataProvider supplies market/reference scalar fields for a symbol.
// Any subset of the fields may be nil; the aggregator handles per-field
// fallback across providers.
type MarketDataProvider interface {
	Name() string
	MarketFields(ctx context.Context, symbol string) (models.MarketFields, error)
}

// QuoteProvider supplies the prior session's closing price.
type QuoteProvider interface {
	PreviousClose(ctx context.Context, symbol string) (*float64, error)
}

// BarProvider supplies price bars at a requested granularity.
type BarProvider interface {
	Bars(ctx context.Context, symbol string, from, to time.Time, interval models.Interval) ([]models.PriceBar, error)
}

// DailyBarProvider supplies daily closes only. Used as a history fallback
// when the primary bar provider is unavailable.
type DailyBarProvider interface {
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)
}
