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

type schoolRepository interface {
	CreateWithHead(ctx context.Context, school *models.School, headProfileID string) (*models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.School, error)
	List(ctx context.Context) ([]models.School, error)
	ListClassrooms(ctx context.Context, schoolID string) ([]models.Classroom, error)
	ListProfiles(ctx context.Context, schoolID string) ([]models.ProfileSummary, error)
}

// CreateSchoolRequest carries the fields of a new school.
type CreateSchoolRequest struct {
	Name      string  `json:"name" validate:"required"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Location  *string `json:"location"`
	Phone     *string `json:"phone"`
	LogoURL   *string `json:"logoUrl"`
	BannerURL *string `json:"bannerUrl"`
}

// SchoolService manages tenant registration and lookups.
type SchoolService struct {
	schools   schoolRepository
	cache     *CacheService
	schoolTTL time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs SchoolService.
func NewSchoolService(schools schoolRepository, cache *CacheService, schoolTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{schools: schools, cache: cache, schoolTTL: schoolTTL, validator: validate, logger: logger}
}

// Create registers a school and binds the acting head profile to it.
// Both writes happen in one transaction so a school is never left
// without its founding head, nor a head pointed at a school that was
// not created.
func (s *SchoolService) Create(ctx context.Context, headProfileID string, req CreateSchoolRequest) (*models.School, *models.Profile, error) {
	if headProfileID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "profileId is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrMissingFields.Code, appErrors.ErrMissingFields.Status, "school name is required")
	}

	school := &models.School{
		Name:      req.Name,
		Email:     req.Email,
		Location:  req.Location,
		Phone:     req.Phone,
		LogoURL:   req.LogoURL,
		BannerURL: req.BannerURL,
	}
	profile, err := s.schools.CreateWithHead(ctx, school, headProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school")
	}

	s.logger.Info("school created",
		zap.String("school_id", school.ID),
		zap.String("head_profile_id", headProfileID))
	return school, profile, nil
}

// List returns every registered school. The listing backs the signup
// school picker and is deliberately cross-tenant.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.schools.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, nil
}

// Detail returns the school with its classrooms and member profiles.
func (s *SchoolService) Detail(ctx context.Context, schoolID string) (*models.SchoolDetail, error) {
	if schoolID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolId is required")
	}

	cacheKey := fmt.Sprintf("school:%s", schoolID)
	var cached models.SchoolDetail
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	classrooms, err := s.schools.ListClassrooms(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	profiles, err := s.schools.ListProfiles(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profiles")
	}

	detail := &models.SchoolDetail{School: *school, Classrooms: classrooms, Profiles: profiles}
	_ = s.cache.Set(ctx, cacheKey, detail, s.schoolTTL)
	return detail, nil
}
