// Package facts fetches and normalizes structured financial facts
package facts

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/fallback"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

const (
	fetchAttempts  = 3
	fetchBaseDelay = 500 * time.Millisecond
)

// Service fetches structured-facts documents and normalizes concept
// series out of them. Documents run to several megabytes, so they are
// cached per CIK in a bounded TTL cache.
type Service struct {
	client interfaces.EdgarClient
	logger *common.Logger
	cache  *expirable.LRU[string, *models.CompanyFacts]
}

// NewService creates a new facts service. cacheSize bounds the number of
// cached documents and cacheTTL their lifetime.
func NewService(client interfaces.EdgarClient, cacheSize int, cacheTTL time.Duration, logger *common.Logger) *Service {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	return &Service{
		client: client,
		logger: logger,
		cache:  expirable.NewLRU[string, *models.CompanyFacts](cacheSize, nil, cacheTTL),
	}
}

var _ interfaces.FactsService = (*Service)(nil)

// FetchSeries returns the normalized series for one concept: aliases
// resolved, observations dated, duplicates collapsed, points ascending.
// A concept entirely absent from the document yields an empty series,
// not an error.
func (s *Service) FetchSeries(ctx context.Context, cik string, concept models.ConceptSpec) (models.NormalizedSeries, error) {
	if cik == "" {
		return nil, fmt.Errorf("%w: empty cik", common.ErrInvalidInput)
	}

	doc, err := s.getFacts(ctx, cik)
	if err != nil {
		return nil, err
	}

	obs := selectObservations(doc, concept)
	return normalize(obs), nil
}

func (s *Service) getFacts(ctx context.Context, cik string) (*models.CompanyFacts, error) {
	if doc, ok := s.cache.Get(cik); ok {
		s.logger.Debug().Str("cik", cik).Msg("facts cache hit")
		return doc, nil
	}

	var doc *models.CompanyFacts
	err := fallback.Retry(ctx, fetchAttempts, fetchBaseDelay, func(ctx context.Context) error {
		var err error
		doc, err = s.client.CompanyFacts(ctx, cik)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Add(cik, doc)
	s.logger.Debug().Str("cik", cik).Str("entity", doc.EntityName).Msg("company facts fetched")
	return doc, nil
}

// selectObservations walks the concept's tag aliases in order and returns
// the observations of the first tag carrying any unit data. Within a tag,
// the listed unit aliases are tried first; if none matches, the
// lexicographically first unit bucket is used so an unusual unit label
// does not drop the concept entirely.
func selectObservations(doc *models.CompanyFacts, concept models.ConceptSpec) []models.FactObservation {
	gaap, ok := doc.Facts["us-gaap"]
	if !ok {
		return nil
	}

	for _, tag := range concept.Tags {
		fact, ok := gaap[tag]
		if !ok || len(fact.Units) == 0 {
			continue
		}
		for _, unit := range concept.Units {
			if obs, ok := fact.Units[unit]; ok && len(obs) > 0 {
				return obs
			}
		}
		units := make([]string, 0, len(fact.Units))
		for u := range fact.Units {
			units = append(units, u)
		}
		sort.Strings(units)
		for _, u := range units {
			if obs := fact.Units[u]; len(obs) > 0 {
				return obs
			}
		}
	}
	return nil
}

// normalize dates each observation, collapses duplicate dates (later
// entries in document order win, matching amended filings overriding
// originals), and sorts ascending. ISO dates sort correctly as strings.
func normalize(obs []models.FactObservation) models.NormalizedSeries {
	byDate := make(map[string]*float64, len(obs))
	for _, o := range obs {
		date := observationDate(o)
		if date == "" {
			continue
		}
		val := o.Val
		if val != nil && (math.IsNaN(*val) || math.IsInf(*val, 0)) {
			val = nil
		}
		byDate[date] = val
	}

	series := make(models.NormalizedSeries, 0, len(byDate))
	for date, val := range byDate {
		series = append(series, models.SeriesPoint{Date: date, Value: val})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// observationDate probes the date-bearing fields in fixed preference
// order: period end, filing date, a synthetic fiscal-year end, period
// start. An observation with none of them is undateable and dropped.
func observationDate(o models.FactObservation) string {
	if o.End != "" {
		return o.End
	}
	if o.Filed != "" {
		return o.Filed
	}
	if o.FY > 0 {
		return fmt.Sprintf("%04d-12-31", o.FY)
	}
	return o.Start
}
