package filings

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/models"
)

type fakeIdentity struct {
	id  models.FilerIdentity
	err error
}

func (f *fakeIdentity) Resolve(ctx context.Context, symbol string) (models.FilerIdentity, error) {
	if f.err != nil {
		return models.FilerIdentity{}, f.err
	}
	return f.id, nil
}

type fakeEdgarClient struct {
	subs *models.Submissions
	err  error
}

func (f *fakeEdgarClient) CompanyTickers(ctx context.Context) ([]models.CompanyTicker, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEdgarClient) CompanyFacts(ctx context.Context, cik string) (*models.CompanyFacts, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEdgarClient) Submissions(ctx context.Context, cik string) (*models.Submissions, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs, nil
}

func acmeSubmissions() *models.Submissions {
	subs := &models.Submissions{CIK: "320193", Name: "ACME Corp"}
	subs.Filings.Recent = models.FilingColumns{
		AccessionNumbers: []string{"0000320193-24-000001", "0000320193-24-000002", "0000320193-23-000003"},
		Forms:            []string{"10-K", "8-K", "10-Q"},
		FilingDates:      []string{"2024-02-01", "2024-01-15", "2023-11-01"},
		ReportDates:      []string{"2023-12-31", "", "2023-09-30"},
		PrimaryDocuments: []string{"acme-10k.htm", "", "acme-10q.htm"},
	}
	return subs
}

func newTestService(id *fakeIdentity, client *fakeEdgarClient) *Service {
	return NewService(id, client, common.NewSilentLogger())
}

func testIdentity() *fakeIdentity {
	return &fakeIdentity{id: models.FilerIdentity{Symbol: "ACME", CIK: "0000320193", Name: "ACME Corp"}}
}

func TestFilingsAll(t *testing.T) {
	svc := newTestService(testIdentity(), &fakeEdgarClient{subs: acmeSubmissions()})

	index, err := svc.Filings(context.Background(), "ACME", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "ACME", index.Symbol)
	require.NotNil(t, index.FilerID)
	assert.Equal(t, "0000320193", *index.FilerID)
	require.Len(t, index.Filings, 3)
	assert.Equal(t, "10-K", index.Filings[0].Form)
	assert.Equal(t, "2024-02-01", index.Filings[0].FiledAt)
}

func TestFilingsFormFilter(t *testing.T) {
	svc := newTestService(testIdentity(), &fakeEdgarClient{subs: acmeSubmissions()})

	index, err := svc.Filings(context.Background(), "ACME", []string{"10-k", "10-q"}, 0)
	require.NoError(t, err)
	require.Len(t, index.Filings, 2)
	assert.Equal(t, "10-K", index.Filings[0].Form)
	assert.Equal(t, "10-Q", index.Filings[1].Form)
}

func TestFilingsLimit(t *testing.T) {
	svc := newTestService(testIdentity(), &fakeEdgarClient{subs: acmeSubmissions()})

	index, err := svc.Filings(context.Background(), "ACME", nil, 2)
	require.NoError(t, err)
	require.Len(t, index.Filings, 2)
	assert.Equal(t, "0000320193-24-000001", index.Filings[0].AccessionNumber)
}

func TestFilingsLimitClamped(t *testing.T) {
	subs := &models.Submissions{}
	for i := 0; i < 150; i++ {
		subs.Filings.Recent.AccessionNumbers = append(subs.Filings.Recent.AccessionNumbers, fmt.Sprintf("0000320193-24-%06d", i))
		subs.Filings.Recent.Forms = append(subs.Filings.Recent.Forms, "8-K")
		subs.Filings.Recent.FilingDates = append(subs.Filings.Recent.FilingDates, "2024-01-01")
		subs.Filings.Recent.ReportDates = append(subs.Filings.Recent.ReportDates, "")
		subs.Filings.Recent.PrimaryDocuments = append(subs.Filings.Recent.PrimaryDocuments, "")
	}
	svc := newTestService(testIdentity(), &fakeEdgarClient{subs: subs})

	index, err := svc.Filings(context.Background(), "ACME", nil, 500)
	require.NoError(t, err)
	assert.Len(t, index.Filings, 100)
}

func TestFilingsDocumentURL(t *testing.T) {
	svc := newTestService(testIdentity(), &fakeEdgarClient{subs: acmeSubmissions()})

	index, err := svc.Filings(context.Background(), "ACME", nil, 0)
	require.NoError(t, err)

	// With a primary document the URL points at it directly.
	require.NotNil(t, index.Filings[0].DocumentURL)
	assert.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/320193/000032019324000001/acme-10k.htm",
		*index.Filings[0].DocumentURL)

	// Without one it points at the filing index page.
	require.NotNil(t, index.Filings[1].DocumentURL)
	assert.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/320193/000032019324000002/0000320193-24-000002-index.htm",
		*index.Filings[1].DocumentURL)
}

func TestFilingsReportDateNullable(t *testing.T) {
	svc := newTestService(testIdentity(), &fakeEdgarClient{subs: acmeSubmissions()})

	index, err := svc.Filings(context.Background(), "ACME", nil, 0)
	require.NoError(t, err)
	require.NotNil(t, index.Filings[0].ReportDate)
	assert.Equal(t, "2023-12-31", *index.Filings[0].ReportDate)
	assert.Nil(t, index.Filings[1].ReportDate)
}

func TestFilingsUnknownSymbolEmptyIndex(t *testing.T) {
	id := &fakeIdentity{err: fmt.Errorf("%w: symbol ZZZZZ", common.ErrNotFound)}
	svc := newTestService(id, &fakeEdgarClient{})

	index, err := svc.Filings(context.Background(), "ZZZZZ", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "ZZZZZ", index.Symbol)
	assert.Nil(t, index.FilerID)
	assert.Empty(t, index.Filings)
}

func TestFilingsEmptySymbol(t *testing.T) {
	svc := newTestService(testIdentity(), &fakeEdgarClient{})
	_, err := svc.Filings(context.Background(), "", nil, 0)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestFilingsUpstreamFailure(t *testing.T) {
	svc := newTestService(testIdentity(), &fakeEdgarClient{err: errors.New("edgar down")})

	_, err := svc.Filings(context.Background(), "ACME", nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
}
