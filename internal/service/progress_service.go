package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type progressLedger interface {
	Create(ctx context.Context, row *models.Progress) error
	ListDetailByStudent(ctx context.Context, studentID string) ([]models.ProgressDetail, error)
	UpdateFields(ctx context.Context, id string, subject *string, score *int, remarks *string) (*models.Progress, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// AddProgressRequest carries a new graded entry for a student.
type AddProgressRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	ClassroomID string `json:"classroom_id" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Score       int    `json:"score" validate:"required"`
	Remarks     string `json:"remarks" validate:"required"`
}

// EditProgressRequest carries a partial update. Nil fields are left
// untouched.
type EditProgressRequest struct {
	ProgressID string  `json:"id" validate:"required"`
	Subject    *string `json:"subject"`
	Score      *int    `json:"score"`
	Remarks    *string `json:"remarks"`
}

// ProgressService manages graded subject entries in the ledger.
type ProgressService struct {
	ledger    progressLedger
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgressService constructs ProgressService.
func NewProgressService(ledger progressLedger, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{ledger: ledger, cache: cache, validator: validate, logger: logger}
}

// Add records a graded subject entry for a student in a classroom.
// Unlike enrollment it carries no uniqueness constraint: a student may
// hold many subject rows within their classroom.
func (s *ProgressService) Add(ctx context.Context, req AddProgressRequest) (*models.Progress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingFields.Code, appErrors.ErrMissingFields.Status, appErrors.ErrMissingFields.Message)
	}

	row := &models.Progress{
		StudentID:   req.StudentID,
		ClassroomID: req.ClassroomID,
		Subject:     req.Subject,
		Score:       req.Score,
		Remarks:     req.Remarks,
	}
	if err := s.ledger.Create(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add progress")
	}

	s.invalidateClassroom(ctx, req.ClassroomID)
	return row, nil
}

// Edit applies a partial update to an existing entry.
func (s *ProgressService) Edit(ctx context.Context, req EditProgressRequest) (*models.Progress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if req.Subject == nil && req.Score == nil && req.Remarks == nil {
		return nil, appErrors.Clone(appErrors.ErrNoFieldsProvided, "")
	}

	row, err := s.ledger.UpdateFields(ctx, req.ProgressID, req.Subject, req.Score, req.Remarks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "progress entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress")
	}

	s.invalidateClassroom(ctx, row.ClassroomID)
	return row, nil
}

// Delete removes a single entry by id.
func (s *ProgressService) Delete(ctx context.Context, progressID string) error {
	if progressID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "progressId is required")
	}
	removed, err := s.ledger.DeleteByID(ctx, progressID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete progress")
	}
	if removed == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "progress entry not found")
	}

	s.cache.Invalidate(ctx, "classroom:*")
	return nil
}

// StudentFullDetail lists the student's ledger joined with their
// profile summary, one nested record per row.
func (s *ProgressService) StudentFullDetail(ctx context.Context, studentID string) ([]models.StudentProgress, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	details, err := s.ledger.ListDetailByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student detail")
	}
	out := make([]models.StudentProgress, 0, len(details))
	for _, d := range details {
		out = append(out, d.ToStudentProgress())
	}
	return out, nil
}

func (s *ProgressService) invalidateClassroom(ctx context.Context, classroomID string) {
	s.cache.Invalidate(ctx, fmt.Sprintf("classroom:%s*", classroomID))
}
