// Package history serves price history over logical ranges
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// rangeSpec maps a logical range to its lookback window and default
// granularity. Windows include a day of slack so the most recent session
// is never clipped by timezone skew.
type rangeSpec struct {
	lookback time.Duration
	interval models.Interval
}

var rangeSpecs = map[models.Range]rangeSpec{
	models.Range1D: {lookback: 2 * 24 * time.Hour, interval: models.Interval1Min},
	models.Range1W: {lookback: 7 * 24 * time.Hour, interval: models.Interval15Min},
	models.Range1M: {lookback: 31 * 24 * time.Hour, interval: models.Interval1Hour},
	models.Range6M: {lookback: 186 * 24 * time.Hour, interval: models.Interval1Day},
	models.Range1Y: {lookback: 366 * 24 * time.Hour, interval: models.Interval1Day},
	models.Range5Y: {lookback: 1827 * 24 * time.Hour, interval: models.Interval1Day},
}

// Service fetches price history from the primary bar provider, falling
// back to a daily-only provider. The fallback serves daily closes even
// for intraday requests; coarse data beats no data.
type Service struct {
	bars      interfaces.BarProvider
	dailyBars interfaces.DailyBarProvider
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a new price history service. Either provider may be
// nil; with both nil every request yields an empty history.
func NewService(bars interfaces.BarProvider, dailyBars interfaces.DailyBarProvider, logger *common.Logger) *Service {
	return &Service{
		bars:      bars,
		dailyBars: dailyBars,
		logger:    logger,
		now:       time.Now,
	}
}

var _ interfaces.HistoryService = (*Service)(nil)

// History returns price bars for a symbol over a logical range. An
// explicit interval overrides the range default. No provider having data
// is a success with an empty point list.
func (s *Service) History(ctx context.Context, symbol string, rng models.Range, interval models.Interval) (*models.PriceHistory, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", common.ErrInvalidInput)
	}

	spec, ok := rangeSpecs[rng]
	if !ok {
		return nil, fmt.Errorf("%w: unknown range %q", common.ErrInvalidInput, rng)
	}
	if interval == models.IntervalNone {
		interval = spec.interval
	}

	to := s.now()
	from := to.Add(-spec.lookback)

	var points []models.PriceBar
	if s.bars != nil {
		bars, err := s.bars.Bars(ctx, symbol, from, to, interval)
		if err == nil {
			points = bars
		} else {
			s.logger.Warn().Err(err).Str("symbol", symbol).Str("range", string(rng)).Msg("primary bar provider failed")
		}
	}
	if points == nil && s.dailyBars != nil {
		bars, err := s.dailyBars.DailyBars(ctx, symbol, from, to)
		if err == nil {
			points = bars
		} else {
			s.logger.Warn().Err(err).Str("symbol", symbol).Str("range", string(rng)).Msg("daily bar fallback failed")
		}
	}
	if points == nil {
		points = []models.PriceBar{}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})

	return &models.PriceHistory{
		Symbol: symbol,
		Range:  string(rng),
		Points: points,
	}, nil
}
