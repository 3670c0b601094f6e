// Package snapshot aggregates market and fundamental data into one view
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/fallback"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// Service builds financial snapshots by fanning out to the market-data
// providers and the facts service, then merging field by field. Providers
// are consulted in the configured preference order and each field falls
// through independently to the next provider that has it.
type Service struct {
	identity  interfaces.IdentityService
	facts     interfaces.FactsService
	providers []interfaces.MarketDataProvider
	quotes    []interfaces.QuoteProvider
	bars      interfaces.BarProvider
	dailyBars interfaces.DailyBarProvider
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a new snapshot service. providers is the preference
// order for market fields; bars and dailyBars may be nil when no history
// source is configured.
func NewService(
	identity interfaces.IdentityService,
	facts interfaces.FactsService,
	providers []interfaces.MarketDataProvider,
	quotes []interfaces.QuoteProvider,
	bars interfaces.BarProvider,
	dailyBars interfaces.DailyBarProvider,
	logger *common.Logger,
) *Service {
	return &Service{
		identity:  identity,
		facts:     facts,
		providers: providers,
		quotes:    quotes,
		bars:      bars,
		dailyBars: dailyBars,
		logger:    logger,
		now:       time.Now,
	}
}

var _ interfaces.SnapshotService = (*Service)(nil)

// snapshotConcepts maps each fundamental concept to the snapshot field
// it populates.
var snapshotConcepts = []models.ConceptSpec{
	models.ConceptRevenue,
	models.ConceptNetIncome,
	models.ConceptEPS,
	models.ConceptGrossProfit,
	models.ConceptOperatingIncome,
	models.ConceptTotalLiabilities,
	models.ConceptShareholdersEquity,
	models.ConceptDividendsPerShare,
}

// Snapshot aggregates all available fields for one symbol. A symbol that
// cannot be resolved is an error; an upstream provider failing is not,
// the affected fields stay nil.
func (s *Service) Snapshot(ctx context.Context, symbol string) (*models.FinancialSnapshot, error) {
	id, err := s.identity.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	snap := &models.FinancialSnapshot{
		Symbol:  id.Symbol,
		CIK:     id.CIK,
		Company: id.Name,
	}

	marketResults := make([]*models.MarketFields, len(s.providers))
	series := make(map[string]models.NormalizedSeries, len(snapshotConcepts))
	var seriesMu sync.Mutex
	var prevClose *float64

	g, gctx := errgroup.WithContext(ctx)

	for i, p := range s.providers {
		i, p := i, p
		g.Go(func() error {
			fields, err := p.MarketFields(gctx, id.Symbol)
			if err != nil {
				s.logger.Warn().Err(err).Str("provider", p.Name()).Str("symbol", id.Symbol).Msg("market fields fetch failed")
				return nil
			}
			marketResults[i] = &fields
			return nil
		})
	}

	g.Go(func() error {
		pc, ok := fallback.First(gctx, s.quoteSources(id.Symbol)...)
		if ok {
			prevClose = pc
		}
		return nil
	})

	for _, concept := range snapshotConcepts {
		concept := concept
		g.Go(func() error {
			sr, err := s.facts.FetchSeries(gctx, id.CIK, concept)
			if err != nil {
				s.logger.Warn().Err(err).Str("concept", concept.Name).Str("cik", id.CIK).Msg("facts series fetch failed")
				return nil
			}
			seriesMu.Lock()
			series[concept.Name] = sr
			seriesMu.Unlock()
			return nil
		})
	}

	// Goroutines swallow their errors, so Wait only fails on context
	// cancellation.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAggregationFailure, err)
	}

	s.mergeMarketFields(snap, marketResults)
	if snap.PreviousClose == nil {
		snap.PreviousClose = prevClose
	}
	if snap.Price == nil {
		snap.Price = snap.PreviousClose
	}

	if snap.Week52Low == nil || snap.Week52High == nil || snap.AvgVolume == nil {
		s.fillFromDailyBars(ctx, snap)
	}

	snap.RevenueTTM = series[models.ConceptRevenue.Name].Latest()
	snap.NetIncomeTTM = series[models.ConceptNetIncome.Name].Latest()
	snap.EPSTTM = series[models.ConceptEPS.Name].Latest()
	snap.GrossProfitTTM = series[models.ConceptGrossProfit.Name].Latest()
	snap.OperatingIncomeTTM = series[models.ConceptOperatingIncome.Name].Latest()
	snap.TotalLiabilities = series[models.ConceptTotalLiabilities.Name].Latest()
	snap.ShareholdersEquity = series[models.ConceptShareholdersEquity.Name].Latest()
	snap.DividendPerShare = series[models.ConceptDividendsPerShare.Name].Latest()

	snap.PERatio = ratio(snap.Price, snap.EPSTTM)
	if snap.PERatio == nil {
		snap.PERatio = snap.TrailingPE
	}
	snap.ROE = ratio(snap.NetIncomeTTM, snap.ShareholdersEquity)
	snap.DebtToEquity = ratio(snap.TotalLiabilities, snap.ShareholdersEquity)

	rev := series[models.ConceptRevenue.Name]
	snap.RevenueGrowthYoY = models.Growth(rev.Latest(), rev.Previous())

	liab := series[models.ConceptTotalLiabilities.Name]
	snap.Insight = buildInsight(snap, models.Growth(liab.Latest(), liab.Previous()))

	return snap, nil
}

func (s *Service) quoteSources(symbol string) []func(context.Context) (*float64, error) {
	sources := make([]func(context.Context) (*float64, error), 0, len(s.quotes))
	for _, q := range s.quotes {
		q := q
		sources = append(sources, func(ctx context.Context) (*float64, error) {
			pc, err := q.PreviousClose(ctx, symbol)
			if err != nil {
				return nil, err
			}
			if pc == nil {
				return nil, fmt.Errorf("no previous close for %s", symbol)
			}
			return pc, nil
		})
	}
	return sources
}

// mergeMarketFields fills each snapshot field from the first provider
// result, in preference order, that has it.
func (s *Service) mergeMarketFields(snap *models.FinancialSnapshot, results []*models.MarketFields) {
	for _, r := range results {
		if r == nil {
			continue
		}
		if snap.Price == nil {
			snap.Price = r.Price
		}
		if snap.PreviousClose == nil {
			snap.PreviousClose = r.PreviousClose
		}
		if snap.MarketCap == nil {
			snap.MarketCap = r.MarketCap
		}
		if snap.TrailingPE == nil {
			snap.TrailingPE = r.TrailingPE
		}
		if snap.ForwardPE == nil {
			snap.ForwardPE = r.ForwardPE
		}
		if snap.Beta == nil {
			snap.Beta = r.Beta
		}
		if snap.DividendYield == nil {
			snap.DividendYield = r.DividendYield
		}
		if snap.AvgVolume == nil {
			snap.AvgVolume = r.AvgVolume
		}
		if snap.Week52Low == nil {
			snap.Week52Low = r.Week52Low
		}
		if snap.Week52High == nil {
			snap.Week52High = r.Week52High
		}
	}
}

// fillFromDailyBars derives the 52-week range and average volume from a
// year of daily closes when no provider supplied them directly.
func (s *Service) fillFromDailyBars(ctx context.Context, snap *models.FinancialSnapshot) {
	to := s.now()
	from := to.AddDate(-1, 0, 0)

	var bars []models.PriceBar
	if s.bars != nil {
		b, err := s.bars.Bars(ctx, snap.Symbol, from, to, models.Interval1Day)
		if err == nil {
			bars = b
		} else {
			s.logger.Debug().Err(err).Str("symbol", snap.Symbol).Msg("daily bars fetch failed")
		}
	}
	if len(bars) == 0 && s.dailyBars != nil {
		b, err := s.dailyBars.DailyBars(ctx, snap.Symbol, from, to)
		if err == nil {
			bars = b
		} else {
			s.logger.Debug().Err(err).Str("symbol", snap.Symbol).Msg("daily bars fallback failed")
		}
	}
	if len(bars) == 0 {
		return
	}

	low, high := bars[0].Close, bars[0].Close
	var volSum, volCount int64
	for _, b := range bars {
		lo, hi := b.Close, b.Close
		if b.Low != nil {
			lo = *b.Low
		}
		if b.High != nil {
			hi = *b.High
		}
		if lo < low {
			low = lo
		}
		if hi > high {
			high = hi
		}
		if b.Volume != nil {
			volSum += *b.Volume
			volCount++
		}
	}

	if snap.Week52Low == nil {
		snap.Week52Low = &low
	}
	if snap.Week52High == nil {
		snap.Week52High = &high
	}
	if snap.AvgVolume == nil && volCount > 0 {
		avg := volSum / volCount
		snap.AvgVolume = &avg
	}
}

// ratio returns num/den, nil when either operand is nil or den is zero.
func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	r := *num / *den
	return &r
}

// buildInsight composes a one-sentence summary of the revenue trend,
// qualified with the liability trend when it moved more than 10%.
func buildInsight(snap *models.FinancialSnapshot, liabilityGrowth *float64) string {
	g := snap.RevenueGrowthYoY
	if g == nil {
		return ""
	}

	var trend string
	pct := *g * 100
	switch {
	case pct >= 10:
		trend = fmt.Sprintf("Revenue grew strongly (%.1f%%) over the prior period", pct)
	case pct > 0:
		trend = fmt.Sprintf("Revenue grew modestly (%.1f%%) over the prior period", pct)
	case pct == 0:
		trend = "Revenue was flat over the prior period"
	case pct > -10:
		trend = fmt.Sprintf("Revenue declined modestly (%.1f%%) over the prior period", pct)
	default:
		trend = fmt.Sprintf("Revenue declined sharply (%.1f%%) over the prior period", pct)
	}

	if liabilityGrowth != nil {
		lg := *liabilityGrowth
		if lg > 0.10 {
			trend += fmt.Sprintf(", while total liabilities rose %.1f%%", lg*100)
		} else if lg < -0.10 {
			trend += fmt.Sprintf(", while total liabilities fell %.1f%%", -lg*100)
		}
	}

	return trend + "."
}
