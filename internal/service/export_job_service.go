package service

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	appErrors "github.com/harshbansal7/bills-lifecycle-system/pkg/errors"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/jobs"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/storage"
)

// ExportJobStatus tracks an async export through its lifetime.
type ExportJobStatus string

const (
	ExportJobQueued  ExportJobStatus = "QUEUED"
	ExportJobRunning ExportJobStatus = "RUNNING"
	ExportJobDone    ExportJobStatus = "DONE"
	ExportJobFailed  ExportJobStatus = "FAILED"
)

// ExportJob is one async register export. DownloadToken is set once the
// job is DONE and stays valid until ExpiresAt.
type ExportJob struct {
	ID            string          `json:"id"`
	Format        ExportFormat    `json:"format"`
	Status        ExportJobStatus `json:"status"`
	Filename      string          `json:"filename,omitempty"`
	DownloadToken string          `json:"download_token,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

type exportJobPayload struct {
	format ExportFormat
	filter dto.FilterBillsRequest
}

// ExportJobService runs register exports on a worker pool, spools the
// rendered files to local storage and hands out signed download tokens.
// Job records are kept in memory only.
type ExportJobService struct {
	exports *ExportService
	store   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	logger  *zap.Logger

	mu      sync.RWMutex
	records map[string]*ExportJob
}

// NewExportJobService constructs the service. Call Start before enqueuing.
func NewExportJobService(exports *ExportService, store *storage.LocalStorage, signer *storage.SignedURLSigner, workers int, logger *zap.Logger) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ExportJobService{
		exports: exports,
		store:   store,
		signer:  signer,
		logger:  logger,
		records: make(map[string]*ExportJob),
	}
	svc.queue = jobs.NewQueue("register-export", svc.run, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return svc
}

// Start launches the worker pool.
func (s *ExportJobService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *ExportJobService) Stop() {
	s.queue.Stop()
}

// Enqueue registers a new export job and submits it to the pool.
func (s *ExportJobService) Enqueue(format ExportFormat, filter dto.FilterBillsRequest) (*ExportJob, error) {
	if format != ExportCSV && format != ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	record := &ExportJob{
		ID:        uuid.NewString(),
		Format:    format,
		Status:    ExportJobQueued,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.records[record.ID] = record
	s.mu.Unlock()

	err := s.queue.Enqueue(jobs.Job{
		ID:      record.ID,
		Type:    "register_export",
		Payload: exportJobPayload{format: format, filter: filter},
	})
	if err != nil {
		s.fail(record.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return s.snapshot(record.ID), nil
}

// Status returns the job record.
func (s *ExportJobService) Status(jobID string) (*ExportJob, error) {
	record := s.snapshot(jobID)
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return record, nil
}

// Download validates the signed token and returns the stored file.
func (s *ExportJobService) Download(token string) (*ExportResult, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, "INVALID_TOKEN", http.StatusUnauthorized, "invalid or expired download token")
	}

	content, err := s.store.Read(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}

	contentType := "text/csv"
	if strings.HasSuffix(relPath, ".pdf") {
		contentType = "application/pdf"
	}
	return &ExportResult{Content: content, ContentType: contentType, Filename: relPath}, nil
}

// Cleanup removes spooled files older than the TTL. Intended to run on a
// ticker alongside the server.
func (s *ExportJobService) Cleanup(ttl time.Duration) {
	deleted, err := s.store.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Sugar().Infow("export files cleaned up", "count", len(deleted))
	}
}

func (s *ExportJobService) run(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportJobPayload)
	if !ok {
		s.fail(job.ID, appErrors.ErrInternal)
		return nil
	}

	s.transition(job.ID, ExportJobRunning)

	result, err := s.exports.Register(ctx, payload.format, payload.filter)
	if err != nil {
		// Validation failures won't improve on retry; record and stop.
		if appErrors.FromError(err).Status < 500 {
			s.fail(job.ID, err)
			return nil
		}
		s.fail(job.ID, err)
		return err
	}

	filename := job.ID + "-" + result.Filename
	if _, err := s.store.Save(filename, result.Content); err != nil {
		s.fail(job.ID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, filename)
	if err != nil {
		s.fail(job.ID, err)
		return nil
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if record, ok := s.records[job.ID]; ok {
		record.Status = ExportJobDone
		record.Filename = filename
		record.DownloadToken = token
		record.ExpiresAt = &expiresAt
		record.CompletedAt = &now
	}
	s.mu.Unlock()
	return nil
}

func (s *ExportJobService) transition(jobID string, status ExportJobStatus) {
	s.mu.Lock()
	if record, ok := s.records[jobID]; ok {
		record.Status = status
	}
	s.mu.Unlock()
}

func (s *ExportJobService) fail(jobID string, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	if record, ok := s.records[jobID]; ok {
		record.Status = ExportJobFailed
		record.Error = appErrors.FromError(err).Message
		record.CompletedAt = &now
	}
	s.mu.Unlock()
}

func (s *ExportJobService) snapshot(jobID string) *ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[jobID]
	if !ok {
		return nil
	}
	clone := *record
	return &clone
}
