package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/announcement-portal-api/internal/dto"
	"github.com/noah-isme/announcement-portal-api/internal/models"
	"github.com/noah-isme/announcement-portal-api/pkg/config"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
	"github.com/noah-isme/announcement-portal-api/pkg/export"
	"github.com/noah-isme/announcement-portal-api/pkg/jobs"
	"github.com/noah-isme/announcement-portal-api/pkg/storage"
)

const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"

	reportStatusPending   = "PENDING"
	reportStatusCompleted = "COMPLETED"
	reportStatusFailed    = "FAILED"
)

type reportJob struct {
	ID        string
	SessionID string
	Format    string
	Status    string
	FileName  string
	Error     string
	CreatedAt time.Time
}

type reportPayload struct {
	jobID  string
	format string
	errors []models.RowError
}

// ReportService renders bulk row-error reports in the background and hands
// out signed download tokens for the result files.
type ReportService struct {
	queue   *jobs.Queue
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	cfg     config.ExportsConfig
	logger  *zap.Logger

	mu      sync.Mutex
	reports map[string]*reportJob
}

// NewReportService constructs the service and its worker queue.
func NewReportService(store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg config.ExportsConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		storage: store,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		cfg:     cfg,
		logger:  logger,
		reports: make(map[string]*reportJob),
	}
	s.queue = jobs.NewQueue("error-reports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker queue and, when configured, a janitor that
// removes rendered files once their download window has passed.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.cfg.CleanupInterval > 0 {
		go s.janitor(ctx)
	}
}

func (s *ReportService) janitor(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ttl := s.cfg.SignedURLTTL
			if ttl <= 0 {
				ttl = 24 * time.Hour
			}
			removed, err := s.storage.CleanupOlderThan(ttl)
			if err != nil {
				s.logger.Warn("report cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired reports removed", zap.Int("count", len(removed)))
			}
		}
	}
}

// Stop drains the worker queue.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Request enqueues a report render for the given row errors.
func (s *ReportService) Request(sessionID string, rowErrors []models.RowError, format string) (*dto.ErrorReportView, error) {
	if format != ReportFormatCSV && format != ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if len(rowErrors) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the session has no row errors to export")
	}

	job := &reportJob{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Format:    format,
		Status:    reportStatusPending,
		FileName:  fmt.Sprintf("row-errors-%s.%s", sessionID, format),
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.reports[job.ID] = job
	s.mu.Unlock()

	payload := &reportPayload{jobID: job.ID, format: format, errors: append([]models.RowError(nil), rowErrors...)}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "row-error-report", Payload: payload}); err != nil {
		s.fail(job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report")
	}
	return s.viewLocked(job.ID)
}

// Get returns the report's status and, once rendered, a signed download token.
func (s *ReportService) Get(jobID string) (*dto.ErrorReportView, error) {
	return s.viewLocked(jobID)
}

// Open resolves a signed token to the rendered file.
func (s *ReportService) Open(token string) (path, name string, err error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	s.mu.Lock()
	job, ok := s.reports[jobID]
	s.mu.Unlock()
	if !ok || job.Status != reportStatusCompleted {
		return "", "", appErrors.Clone(appErrors.ErrNotFound, "report not available")
	}
	return s.storage.Path(relPath), job.FileName, nil
}

func (s *ReportService) process(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(*reportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for job %s", job.ID)
	}

	data := export.Table{
		Columns: []string{"Row", "Column", "Message"},
		Rows:    make([][]string, 0, len(payload.errors)),
	}
	for _, rowErr := range payload.errors {
		data.Rows = append(data.Rows, []string{strconv.Itoa(rowErr.Row), rowErr.Column, rowErr.Message})
	}

	var rendered []byte
	var err error
	switch payload.format {
	case ReportFormatPDF:
		rendered, err = s.pdf.Render(data, "Bulk import errors")
	default:
		rendered, err = s.csv.Render(data)
	}
	if err != nil {
		s.fail(payload.jobID, err)
		return err
	}

	fileName := fmt.Sprintf("%s.%s", payload.jobID, payload.format)
	if _, err := s.storage.Save(fileName, rendered); err != nil {
		s.fail(payload.jobID, err)
		return err
	}

	s.mu.Lock()
	if job, ok := s.reports[payload.jobID]; ok {
		job.Status = reportStatusCompleted
	}
	s.mu.Unlock()
	s.logger.Info("row-error report rendered", zap.String("job_id", payload.jobID), zap.String("format", payload.format))
	return nil
}

func (s *ReportService) fail(jobID string, err error) {
	s.mu.Lock()
	if job, ok := s.reports[jobID]; ok {
		job.Status = reportStatusFailed
		job.Error = err.Error()
	}
	s.mu.Unlock()
}

func (s *ReportService) viewLocked(jobID string) (*dto.ErrorReportView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.reports[jobID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	view := &dto.ErrorReportView{
		JobID:  job.ID,
		Status: job.Status,
		Format: job.Format,
		Error:  job.Error,
	}
	if job.Status == reportStatusCompleted {
		token, expiresAt, err := s.signer.Generate(job.ID, fmt.Sprintf("%s.%s", job.ID, job.Format))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
		}
		view.DownloadToken = token
		view.ExpiresAt = &expiresAt
	}
	return view, nil
}
