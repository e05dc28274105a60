package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icpcli/internal/config"
	apierrors "icpcli/internal/errors"
	"icpcli/internal/exporter"
	"icpcli/pkg/contracts/domain"
)

const testCSV = `cleaned_roles,gpt_industry,Aggregated Location,state,city,pool_size,industries_clean,PC URL
"Engineering Manager, Operations",Software,United States,TX,Austin,5,raw-a,https://example.com/a
Engineer,Fintech,United States,CA,San Francisco,9,raw-b,pending
Designer,Software,Canada,ON,Toronto,7,raw-c,
`

func newTestService(t *testing.T) *ExplorerService {
	t.Helper()

	path := filepath.Join(t.TempDir(), "icp.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	cfg := &config.Config{}
	cfg.Dataset.DefaultPath = path
	cfg.Dataset.MaxUploadBytes = 1 << 20

	return NewExplorerService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExplorerService_Vocabulary(t *testing.T) {
	svc := newTestService(t)

	vocab, err := svc.Vocabulary(context.Background())
	require.NoError(t, err)

	assert.Contains(t, vocab.Roles, "Engineering Manager")
	assert.Contains(t, vocab.Roles, "Operations")
	assert.Equal(t, []string{"Fintech", "Software"}, vocab.Industries)
	assert.Equal(t, []string{"Canada", "United States"}, vocab.Locations)
	assert.Equal(t, []string{"CA", "ON", "TX"}, vocab.States)
}

func TestExplorerService_View_FiltersAndSorts(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.View(context.Background(), domain.Selection{
		Industries: []string{"Software"},
	}, domain.SortSpec{})
	require.NoError(t, err)

	assert.Equal(t, 2, view.TotalRows)
	// Defaults to pool_size ascending.
	assert.Equal(t, "pool_size", view.SortColumn)
	assert.False(t, view.Descending)
	// Projection replaced the link source column.
	assert.NotContains(t, view.Columns, "PC URL")
	assert.NotContains(t, view.Columns, "industries_clean")
	assert.Contains(t, view.Columns, "PC Link")
}

func TestExplorerService_View_UnknownSortColumn(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.View(context.Background(), domain.Selection{}, domain.SortSpec{Column: "nope"})
	assert.ErrorIs(t, err, apierrors.ErrUnknownSortColumn)
}

func TestExplorerService_View_HeaderOnlyDatasetHalts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icp.csv")
	require.NoError(t, os.WriteFile(path, []byte("cleaned_roles,pool_size\n"), 0o644))

	cfg := &config.Config{}
	cfg.Dataset.DefaultPath = path
	cfg.Dataset.MaxUploadBytes = 1 << 20
	svc := NewExplorerService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// A dataset with zero records stops every operation before the
	// filter pipeline runs.
	_, err := svc.View(context.Background(), domain.Selection{}, domain.SortSpec{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrEmptyDataset)

	_, err = svc.Vocabulary(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrEmptyDataset)

	var buf bytes.Buffer
	_, err = svc.Export(context.Background(), &buf, domain.Selection{}, domain.SortSpec{}, exporter.FormatCSV)
	assert.ErrorIs(t, err, apierrors.ErrEmptyDataset)
}

func TestExplorerService_View_MissingDataset(t *testing.T) {
	cfg := &config.Config{}
	cfg.Dataset.DefaultPath = filepath.Join(t.TempDir(), "absent.csv")
	cfg.Dataset.MaxUploadBytes = 1 << 20
	svc := NewExplorerService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.View(context.Background(), domain.Selection{}, domain.SortSpec{})
	assert.ErrorIs(t, err, apierrors.ErrDatasetNotLoaded)
}

func TestExplorerService_Export_CSV(t *testing.T) {
	svc := newTestService(t)

	var buf bytes.Buffer
	filename, err := svc.Export(context.Background(), &buf, domain.Selection{
		States: []string{"TX"},
	}, domain.SortSpec{}, exporter.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "filtered_icp_data.csv", filename)
	assert.Contains(t, buf.String(), "Engineering Manager, Operations")
	assert.NotContains(t, buf.String(), "Toronto")
}

func TestExplorerService_Export_XLSX(t *testing.T) {
	svc := newTestService(t)

	var buf bytes.Buffer
	filename, err := svc.Export(context.Background(), &buf, domain.Selection{}, domain.SortSpec{}, exporter.FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, "filtered_icp_data.xlsx", filename)
	assert.NotZero(t, buf.Len())
}

func TestExplorerService_Upload_ReplacesDataset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	records, err := svc.Upload(ctx, "new_data.csv", strings.NewReader("city,pool_size\nDenver,3\n"), 25)
	require.NoError(t, err)
	assert.Equal(t, 1, records)

	vocab, err := svc.Vocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Denver"}, vocab.Cities)

	info := svc.Info(ctx)
	assert.True(t, info.Uploaded)
	assert.Equal(t, "new_data.csv", info.Source)
	assert.Equal(t, 1, info.Records)
}

func TestExplorerService_Upload_UnsupportedExtension(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), "data.parquet", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, apierrors.ErrUnsupportedFormat)
}

func TestExplorerService_Upload_TooLarge(t *testing.T) {
	svc := newTestService(t)
	svc.cfg.Dataset.MaxUploadBytes = 10

	_, err := svc.Upload(context.Background(), "big.csv", strings.NewReader("city\nDenver\n"), 1000)
	assert.ErrorIs(t, err, apierrors.ErrUploadTooLarge)
}

func TestExplorerService_Upload_Empty(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), "empty.csv", strings.NewReader(""), 0)
	assert.ErrorIs(t, err, apierrors.ErrEmptyDataset)
}

func TestExplorerService_Upload_HeaderOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "header_only.csv", strings.NewReader("city,pool_size\n"), 15)
	assert.ErrorIs(t, err, apierrors.ErrEmptyDataset)

	// The rejected upload must not displace the active dataset.
	info := svc.Info(ctx)
	assert.False(t, info.Uploaded)
	assert.Equal(t, 3, info.Records)
}

func TestExplorerService_ClearUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "new.csv", strings.NewReader("city,pool_size\nDenver,3\n"), 25)
	require.NoError(t, err)

	svc.ClearUpload(ctx)

	info := svc.Info(ctx)
	assert.False(t, info.Uploaded)
	assert.Equal(t, 3, info.Records)
}
