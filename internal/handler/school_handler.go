package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/middleware"
	"github.com/schoolhub-io/schoolhub-api/internal/models"
	"github.com/schoolhub-io/schoolhub-api/internal/service"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
	"github.com/schoolhub-io/schoolhub-api/pkg/response"
)

type schoolService interface {
	Create(ctx context.Context, headProfileID string, req service.CreateSchoolRequest) (*models.School, *models.Profile, error)
	List(ctx context.Context) ([]models.School, error)
	Detail(ctx context.Context, schoolID string) (*models.SchoolDetail, error)
}

// SchoolHandler serves school registration and lookups.
type SchoolHandler struct {
	schools schoolService
	logger  *zap.Logger
}

// NewSchoolHandler constructs SchoolHandler.
func NewSchoolHandler(schools schoolService, logger *zap.Logger) *SchoolHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolHandler{schools: schools, logger: logger}
}

// Create handles POST /school/:profileId/create. The path carries the
// head profile being promoted; it must match the session caller.
func (h *SchoolHandler) Create(c *gin.Context) {
	profileID := c.Param("profileId")
	caller, ok := middleware.SessionProfile(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}
	if caller.ID != profileID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "cannot create a school for another profile"))
		return
	}

	var req service.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	school, profile, err := h.schools.Create(c.Request.Context(), profileID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "School created successfully", gin.H{
		"school":  school,
		"profile": profile,
	})
}

// List handles GET /school/fetch-all. The listing backs the signup
// school picker and is intentionally cross-tenant.
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.schools.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": schools})
}

// Detail handles GET /fetch-school?schoolId=. Without the query
// parameter it falls back to the caller's own school.
func (h *SchoolHandler) Detail(c *gin.Context) {
	schoolID := c.Query("schoolId")
	if schoolID == "" {
		if caller, ok := middleware.SessionProfile(c); ok && caller.SchoolID != nil {
			schoolID = *caller.SchoolID
		}
	}

	detail, err := h.schools.Detail(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": detail})
}
