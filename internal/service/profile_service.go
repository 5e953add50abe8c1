package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	ListBySchoolAndRole(ctx context.Context, schoolID string, role models.ProfileRole) ([]models.ProfileSummary, error)
}

// ProfileService serves directory lookups scoped to the caller's school.
type ProfileService struct {
	profiles profileRepository
	logger   *zap.Logger
}

// NewProfileService constructs ProfileService.
func NewProfileService(profiles profileRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, logger: logger}
}

// Get returns a single profile by id.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "profileId is required")
	}
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// StudentsOfSchool lists student profiles in the given school, the
// candidate pool for classroom enrollment.
func (s *ProfileService) StudentsOfSchool(ctx context.Context, schoolID string) ([]models.ProfileSummary, error) {
	return s.listByRole(ctx, schoolID, models.RoleStudent)
}

// TeachersOfSchool lists teacher profiles in the given school.
func (s *ProfileService) TeachersOfSchool(ctx context.Context, schoolID string) ([]models.ProfileSummary, error) {
	return s.listByRole(ctx, schoolID, models.RoleTeacher)
}

func (s *ProfileService) listByRole(ctx context.Context, schoolID string, role models.ProfileRole) ([]models.ProfileSummary, error) {
	if schoolID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolId is required")
	}
	summaries, err := s.profiles.ListBySchoolAndRole(ctx, schoolID, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profiles")
	}
	return summaries, nil
}
