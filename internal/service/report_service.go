package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
	"github.com/schoolhub-io/schoolhub-api/pkg/export"
	"github.com/schoolhub-io/schoolhub-api/pkg/jobs"
	"github.com/schoolhub-io/schoolhub-api/pkg/storage"
)

type reportRepository interface {
	Create(ctx context.Context, job *models.ReportJob) error
	FindByID(ctx context.Context, id string) (*models.ReportJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, message string) error
}

type gradeSheetReader interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	GradeSheetByClassroom(ctx context.Context, classroomID string) ([]models.GradeSheetRow, error)
}

type gradeSheetLedger interface {
	GradeSheetByClassroom(ctx context.Context, classroomID string) ([]models.GradeSheetRow, error)
}

type classroomGradeSource struct {
	classrooms classroomRepository
	ledger     gradeSheetLedger
}

func (s classroomGradeSource) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	return s.classrooms.FindByID(ctx, id)
}

func (s classroomGradeSource) GradeSheetByClassroom(ctx context.Context, classroomID string) ([]models.GradeSheetRow, error) {
	return s.ledger.GradeSheetByClassroom(ctx, classroomID)
}

// NewGradeSheetReader adapts the classroom and progress repositories
// into the single source the report worker reads from.
func NewGradeSheetReader(classrooms classroomRepository, ledger gradeSheetLedger) gradeSheetReader {
	return classroomGradeSource{classrooms: classrooms, ledger: ledger}
}

// ReportConfig tunes the export worker pool.
type ReportConfig struct {
	Workers    int
	MaxRetries int
}

// ReportService runs classroom grade-sheet exports in the background
// and serves their status and signed downloads.
type ReportService struct {
	reports reportRepository
	source  gradeSheetReader
	store   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewReportService constructs ReportService and its worker queue. Call
// Start before enqueueing and Stop on shutdown.
func NewReportService(reports reportRepository, source gradeSheetReader, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ReportConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		reports: reports,
		source:  source,
		store:   store,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
	s.queue = jobs.NewQueue("grade-sheet-export", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Enqueue records a pending export job for the classroom and hands it
// to the worker pool.
func (s *ReportService) Enqueue(ctx context.Context, classroomID string, format models.ReportFormat, requestedBy string) (*models.ReportJob, error) {
	if classroomID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom_id is required")
	}
	if format == "" {
		format = models.ReportFormatCSV
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	if _, err := s.source.FindByID(ctx, classroomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	job := &models.ReportJob{
		ClassroomID: classroomID,
		Format:      format,
		Status:      models.ReportStatusPending,
		RequestedBy: requestedBy,
	}
	if err := s.reports.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "grade-sheet", Payload: job.ID}); err != nil {
		// Job row stays PENDING; flag it so status polling explains why
		// it never ran.
		if markErr := s.reports.MarkFailed(ctx, job.ID, "export queue unavailable"); markErr != nil {
			s.logger.Warn("failed to mark orphaned report job", zap.String("job_id", job.ID), zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	return job, nil
}

// Status returns the job with a signed download URL once completed.
func (s *ReportService) Status(ctx context.Context, jobID string) (*models.ReportJobStatus, error) {
	if jobID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "jobId is required")
	}
	job, err := s.reports.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}

	status := &models.ReportJobStatus{ReportJob: *job}
	if job.Status == models.ReportStatusCompleted && job.FilePath != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, *job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		url := fmt.Sprintf("/reports/download?token=%s", token)
		status.DownloadURL = &url
		status.ExpiresAt = &expiresAt
	}
	return status, nil
}

// OpenDownload verifies the signed token and opens the exported file.
// The caller owns the returned handle.
func (s *ReportService) OpenDownload(token string) (*os.File, *models.ReportJob, error) {
	jobID, relPath, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download link")
	}
	job, err := s.reports.FindByID(context.Background(), jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.FilePath == nil || *job.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	return file, job, nil
}

func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	jobID, _ := job.Payload.(string)
	if jobID == "" {
		jobID = job.ID
	}
	return s.processJob(ctx, jobID)
}

func (s *ReportService) processJob(ctx context.Context, jobID string) error {
	record, err := s.reports.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", jobID, err)
	}
	if err := s.reports.MarkRunning(ctx, jobID); err != nil {
		return fmt.Errorf("mark report job %s running: %w", jobID, err)
	}

	data, renderErr := s.render(ctx, record)
	if renderErr != nil {
		if markErr := s.reports.MarkFailed(ctx, jobID, renderErr.Error()); markErr != nil {
			s.logger.Warn("failed to mark report job failed", zap.String("job_id", jobID), zap.Error(markErr))
		}
		return renderErr
	}

	filename := fmt.Sprintf("%s-%s.%s", record.ClassroomID, jobID, record.Format)
	if _, err := s.store.Save(filename, data); err != nil {
		if markErr := s.reports.MarkFailed(ctx, jobID, "failed to store export"); markErr != nil {
			s.logger.Warn("failed to mark report job failed", zap.String("job_id", jobID), zap.Error(markErr))
		}
		return fmt.Errorf("store export for job %s: %w", jobID, err)
	}
	if err := s.reports.MarkCompleted(ctx, jobID, filename); err != nil {
		return fmt.Errorf("mark report job %s completed: %w", jobID, err)
	}

	s.logger.Info("grade sheet exported",
		zap.String("job_id", jobID),
		zap.String("classroom_id", record.ClassroomID),
		zap.String("format", string(record.Format)))
	return nil
}

func (s *ReportService) render(ctx context.Context, record *models.ReportJob) ([]byte, error) {
	classroom, err := s.source.FindByID(ctx, record.ClassroomID)
	if err != nil {
		return nil, fmt.Errorf("load classroom %s: %w", record.ClassroomID, err)
	}
	rows, err := s.source.GradeSheetByClassroom(ctx, record.ClassroomID)
	if err != nil {
		return nil, fmt.Errorf("load grade sheet for classroom %s: %w", record.ClassroomID, err)
	}

	dataset := export.Dataset{
		Headers: []string{"Student", "Subject", "Score", "Remarks"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student": row.StudentName,
			"Subject": row.Subject,
			"Score":   strconv.Itoa(row.Score),
			"Remarks": row.Remarks,
		})
	}

	switch record.Format {
	case models.ReportFormatPDF:
		return s.pdf.Render(dataset, fmt.Sprintf("Grade Sheet - %s", classroom.Name))
	default:
		return s.csv.Render(dataset)
	}
}
