package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	"github.com/noah-isme/announcement-portal-api/pkg/config"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
	"github.com/noah-isme/announcement-portal-api/pkg/storage"
)

func newReportFixture(t *testing.T) *ReportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewReportService(store, signer, config.ExportsConfig{}, nil)
}

func sampleRowErrors() []models.RowError {
	return []models.RowError{
		{Row: 2, Column: models.ColumnTitle, Message: "title is required"},
		{Row: 5, Column: models.ColumnEndDate, Message: "end date must not be in the past"},
	}
}

func TestReportServiceRequestValidatesInput(t *testing.T) {
	svc := newReportFixture(t)

	_, err := svc.Request("sess-1", sampleRowErrors(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Request("sess-1", nil, ReportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceRendersCSVReport(t *testing.T) {
	svc := newReportFixture(t)
	svc.Start(context.Background())
	defer svc.Stop()

	view, err := svc.Request("sess-1", sampleRowErrors(), ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", view.Status)
	assert.Empty(t, view.DownloadToken)

	require.Eventually(t, func() bool {
		current, err := svc.Get(view.JobID)
		return err == nil && current.Status == "COMPLETED"
	}, 2*time.Second, 10*time.Millisecond)

	done, err := svc.Get(view.JobID)
	require.NoError(t, err)
	require.NotEmpty(t, done.DownloadToken)
	require.NotNil(t, done.ExpiresAt)

	path, name, err := svc.Open(done.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, "row-errors-sess-1.csv", name)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, "Row,Column,Message"))
	assert.Contains(t, content, "title is required")
}

func TestReportServiceRendersPDFReport(t *testing.T) {
	svc := newReportFixture(t)
	svc.Start(context.Background())
	defer svc.Stop()

	view, err := svc.Request("sess-1", sampleRowErrors(), ReportFormatPDF)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := svc.Get(view.JobID)
		return err == nil && current.Status == "COMPLETED"
	}, 2*time.Second, 10*time.Millisecond)

	done, err := svc.Get(view.JobID)
	require.NoError(t, err)

	path, _, err := svc.Open(done.DownloadToken)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestReportServiceOpenRejectsBadToken(t *testing.T) {
	svc := newReportFixture(t)

	_, _, err := svc.Open("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestReportServiceGetUnknownJob(t *testing.T) {
	svc := newReportFixture(t)

	_, err := svc.Get("missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
