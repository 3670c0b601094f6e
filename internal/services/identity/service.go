// Package identity resolves ticker symbols to filer identities
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/fallback"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

const (
	reloadAttempts  = 3
	reloadBaseDelay = 500 * time.Millisecond
)

// Service resolves ticker symbols against the regulator's company
// reference table. The full table is loaded once and cached with a TTL;
// a failed reload serves the stale table rather than failing lookups.
type Service struct {
	client interfaces.EdgarClient
	logger *common.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	table    map[string]models.FilerIdentity
	loadedAt time.Time
}

// NewService creates a new identity resolution service
func NewService(client interfaces.EdgarClient, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

var _ interfaces.IdentityService = (*Service)(nil)

// Resolve maps a ticker symbol to its filer identity. Matching is
// case-insensitive; an unknown symbol yields common.ErrNotFound.
func (s *Service) Resolve(ctx context.Context, symbol string) (models.FilerIdentity, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.FilerIdentity{}, fmt.Errorf("%w: empty symbol", common.ErrInvalidInput)
	}

	table, err := s.getTable(ctx)
	if err != nil {
		return models.FilerIdentity{}, err
	}

	id, ok := table[symbol]
	if !ok {
		return models.FilerIdentity{}, fmt.Errorf("%w: symbol %s", common.ErrNotFound, symbol)
	}
	return id, nil
}

// getTable returns the current lookup table, reloading it when expired.
// The table reference is swapped atomically under the lock so readers
// never see a partially built map.
func (s *Service) getTable(ctx context.Context) (map[string]models.FilerIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table != nil && s.now().Sub(s.loadedAt) < s.ttl {
		return s.table, nil
	}

	var tickers []models.CompanyTicker
	err := fallback.Retry(ctx, reloadAttempts, reloadBaseDelay, func(ctx context.Context) error {
		var err error
		tickers, err = s.client.CompanyTickers(ctx)
		return err
	})
	if err != nil {
		if s.table != nil {
			s.logger.Warn().Err(err).Msg("company table reload failed, serving stale table")
			return s.table, nil
		}
		return nil, err
	}

	table := make(map[string]models.FilerIdentity, len(tickers))
	for _, t := range tickers {
		key := strings.ToUpper(t.Symbol)
		// The dataset occasionally lists a ticker twice; the first
		// occurrence is the canonical listing.
		if _, exists := table[key]; exists {
			continue
		}
		table[key] = models.FilerIdentity{
			Symbol: key,
			CIK:    t.CIK,
			Name:   t.Name,
		}
	}

	s.table = table
	s.loadedAt = s.now()
	s.logger.Info().Int("symbols", len(table)).Msg("company reference table loaded")
	return s.table, nil
}
