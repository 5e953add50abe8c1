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

type enrollmentLedger interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Progress, error)
	RosterByClassroom(ctx context.Context, classroomID string) ([]models.ProfileSummary, error)
	CreateIfUnenrolled(ctx context.Context, row *models.Progress) (bool, error)
	DeleteByStudentAndClassroom(ctx context.Context, studentID, classroomID string) (int64, error)
}

type profileReader interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

// EnrollRequest describes the add-student payload.
type EnrollRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	ClassroomID string `json:"-" validate:"required"`
}

// UnenrollRequest describes the remove-student payload.
type UnenrollRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	ClassroomID string `json:"classroom_id" validate:"required"`
}

// EnrollmentService maintains the invariant that a student has progress
// rows in at most one classroom at a time.
type EnrollmentService struct {
	ledger    enrollmentLedger
	profiles  profileReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(ledger enrollmentLedger, profiles profileReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{ledger: ledger, profiles: profiles, cache: cache, validator: validate, logger: logger}
}

// Enroll adds the student to the classroom by writing the placeholder
// progress row. A student already carrying rows anywhere is rejected:
// in the target classroom as a duplicate, in any other classroom
// because they must be removed there first.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.Progress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "classroom_id and student_id are required")
	}

	if _, err := s.profiles.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in profiles")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if err := s.checkNotEnrolled(ctx, req.StudentID, req.ClassroomID); err != nil {
		return nil, err
	}

	row := &models.Progress{
		StudentID:   req.StudentID,
		ClassroomID: req.ClassroomID,
		Subject:     models.PlaceholderSubject,
		Score:       models.PlaceholderScore,
		Remarks:     models.PlaceholderRemarks,
	}
	inserted, err := s.ledger.CreateIfUnenrolled(ctx, row)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	if !inserted {
		// Lost a race with a concurrent enroll. Re-read to report the
		// same conflict a sequential caller would have seen.
		if err := s.checkNotEnrolled(ctx, req.StudentID, req.ClassroomID); err != nil {
			return nil, err
		}
		return nil, appErrors.Clone(appErrors.ErrEnrolledElsewhere, "")
	}

	s.invalidateClassroom(ctx, req.ClassroomID)
	return row, nil
}

// Unenroll removes every progress row for the (student, classroom)
// pair, revoking enrollment and discarding all graded subjects
// together. Removing an absent student is not an error.
func (s *EnrollmentService) Unenroll(ctx context.Context, req UnenrollRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student_id and classroom_id are required")
	}

	removed, err := s.ledger.DeleteByStudentAndClassroom(ctx, req.StudentID, req.ClassroomID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove student")
	}
	if removed > 0 {
		s.invalidateClassroom(ctx, req.ClassroomID)
	}
	return nil
}

// Roster returns the classroom's unique students.
func (s *EnrollmentService) Roster(ctx context.Context, classroomID string) ([]models.ProfileSummary, error) {
	if classroomID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroomId is required")
	}
	roster, err := s.ledger.RosterByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return roster, nil
}

func (s *EnrollmentService) checkNotEnrolled(ctx context.Context, studentID, classroomID string) error {
	rows, err := s.ledger.ListByStudent(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row.ClassroomID == classroomID {
			return appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
		}
	}
	return appErrors.Clone(appErrors.ErrEnrolledElsewhere, "")
}

func (s *EnrollmentService) invalidateClassroom(ctx context.Context, classroomID string) {
	s.cache.Invalidate(ctx, fmt.Sprintf("classroom:%s*", classroomID))
}
