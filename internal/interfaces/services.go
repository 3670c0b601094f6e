package interfaces

import (
	"context"

	"github.com/finsight-io/finsight/internal/models"
)

// IdentityService resolves ticker symbols to filer identities.
type IdentityService interface {
	Resolve(ctx context.Context, symbol string) (models.FilerIdentity, error)
}

// FactsService fetches and normalizes structured-facts series.
type FactsService interface {
	FetchSeries(ctx context.Context, cik string, concept models.ConceptSpec) (models.NormalizedSeries, error)
}

// SnapshotService aggregates market and fundamental fields for one symbol.
type SnapshotService interface {
	Snapshot(ctx context.Context, symbol string) (*models.FinancialSnapshot, error)
}

// HistoryService returns price history for a symbol over a logical range.
type HistoryService interface {
	History(ctx context.Context, symbol string, rng models.Range, interval models.Interval) (*models.PriceHistory, error)
}

// FilingsService builds a filing index for a symbol, optionally filtered
// by form type.
type FilingsService interface {
	Filings(ctx context.Context, symbol string, forms []string, limit int) (*models.FilingIndex, error)
}
