// Package filings builds regulatory filing indexes
package filings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/fallback"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	fetchAttempts  = 3
	fetchBaseDelay = 500 * time.Millisecond
)

// Service builds filing indexes from the regulator's submissions feed.
type Service struct {
	identity interfaces.IdentityService
	client   interfaces.EdgarClient
	logger   *common.Logger
}

// NewService creates a new filings service
func NewService(identity interfaces.IdentityService, client interfaces.EdgarClient, logger *common.Logger) *Service {
	return &Service{
		identity: identity,
		client:   client,
		logger:   logger,
	}
}

var _ interfaces.FilingsService = (*Service)(nil)

// Filings returns up to limit filings for a symbol, newest first,
// optionally filtered by form type (case-insensitive). A symbol with no
// filer mapping yields an empty index with a nil filer id, not an error.
func (s *Service) Filings(ctx context.Context, symbol string, forms []string, limit int) (*models.FilingIndex, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", common.ErrInvalidInput)
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	id, err := s.identity.Resolve(ctx, symbol)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &models.FilingIndex{Symbol: symbol, FilerID: nil, Filings: []models.FilingRecord{}}, nil
		}
		return nil, err
	}

	var subs *models.Submissions
	err = fallback.Retry(ctx, fetchAttempts, fetchBaseDelay, func(ctx context.Context) error {
		var err error
		subs, err = s.client.Submissions(ctx, id.CIK)
		return err
	})
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(forms))
	for _, f := range forms {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f != "" {
			wanted[f] = true
		}
	}

	recent := subs.Filings.Recent
	records := make([]models.FilingRecord, 0, limit)
	for i := range recent.AccessionNumbers {
		if len(records) >= limit {
			break
		}
		form := column(recent.Forms, i)
		if len(wanted) > 0 && !wanted[strings.ToUpper(form)] {
			continue
		}

		rec := models.FilingRecord{
			Form:            form,
			FiledAt:         column(recent.FilingDates, i),
			AccessionNumber: recent.AccessionNumbers[i],
			PrimaryDocument: column(recent.PrimaryDocuments, i),
		}
		if rd := column(recent.ReportDates, i); rd != "" {
			rec.ReportDate = &rd
		}
		rec.DocumentURL = documentURL(id.CIK, rec.AccessionNumber, rec.PrimaryDocument)
		records = append(records, rec)
	}

	return &models.FilingIndex{
		Symbol:  id.Symbol,
		FilerID: &id.CIK,
		Filings: records,
	}, nil
}

// column reads a parallel-array cell defensively; the feed occasionally
// ships columns of uneven length.
func column(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}

// documentURL builds the archive URL for a filing. With a primary
// document the URL points at it directly; otherwise at the filing index
// page. The archive path uses the unpadded CIK and the accession number
// without dashes.
func documentURL(cik, accession, primaryDoc string) *string {
	if accession == "" {
		return nil
	}
	cikNum := strings.TrimLeft(cik, "0")
	if cikNum == "" {
		cikNum = "0"
	}
	accFlat := strings.ReplaceAll(accession, "-", "")

	var u string
	if primaryDoc != "" {
		u = fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/%s", cikNum, accFlat, primaryDoc)
	} else {
		u = fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/%s-index.htm", cikNum, accFlat, accession)
	}
	return &u
}
