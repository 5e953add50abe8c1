package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type classroomRepository interface {
	Create(ctx context.Context, classroom *models.Classroom) error
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	FindTeacher(ctx context.Context, teacherID string) (*models.ProfileSummary, error)
}

type classroomRoster interface {
	RosterByClassroom(ctx context.Context, classroomID string) ([]models.ProfileSummary, error)
}

// CreateClassroomRequest carries the fields of a new classroom.
type CreateClassroomRequest struct {
	Name      string  `json:"name" validate:"required"`
	TeacherID *string `json:"teacher_id"`
}

// ClassroomService manages classrooms within a school.
type ClassroomService struct {
	classrooms   classroomRepository
	roster       classroomRoster
	cache        *CacheService
	classroomTTL time.Duration
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewClassroomService constructs ClassroomService.
func NewClassroomService(classrooms classroomRepository, roster classroomRoster, cache *CacheService, classroomTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{
		classrooms:   classrooms,
		roster:       roster,
		cache:        cache,
		classroomTTL: classroomTTL,
		validator:    validate,
		logger:       logger,
	}
}

// Create registers a classroom in the caller's school. Only a head may
// create classrooms, and the caller must already belong to a school.
func (s *ClassroomService) Create(ctx context.Context, caller *models.Profile, req CreateClassroomRequest) (*models.Classroom, error) {
	if caller == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if caller.Role != models.RoleHead {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the school head can create classrooms")
	}
	if caller.SchoolID == nil || *caller.SchoolID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "profile is not attached to a school")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingFields.Code, appErrors.ErrMissingFields.Status, "classroom name is required")
	}

	classroom := &models.Classroom{
		Name:      req.Name,
		SchoolID:  *caller.SchoolID,
		TeacherID: req.TeacherID,
	}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}

	// School detail embeds the classroom list.
	s.cache.Invalidate(ctx, fmt.Sprintf("school:%s*", classroom.SchoolID))
	s.logger.Info("classroom created",
		zap.String("classroom_id", classroom.ID),
		zap.String("school_id", classroom.SchoolID))
	return classroom, nil
}

// Detail returns the classroom page view: name, assigned teacher and
// the current roster.
func (s *ClassroomService) Detail(ctx context.Context, classroomID string) (*models.ClassroomDetail, error) {
	if classroomID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroomId is required")
	}

	cacheKey := fmt.Sprintf("classroom:%s", classroomID)
	var cached models.ClassroomDetail
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	detail := &models.ClassroomDetail{ID: classroom.ID, Name: classroom.Name, Roster: []models.RosterEntry{}}
	if classroom.TeacherID != nil && *classroom.TeacherID != "" {
		teacher, err := s.classrooms.FindTeacher(ctx, *classroom.TeacherID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
		detail.Teacher = teacher
	}

	students, err := s.roster.RosterByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	for _, student := range students {
		detail.Roster = append(detail.Roster, models.RosterEntry{Profile: student})
	}

	_ = s.cache.Set(ctx, cacheKey, detail, s.classroomTTL)
	return detail, nil
}
