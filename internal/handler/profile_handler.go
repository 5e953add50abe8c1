package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/middleware"
	"github.com/schoolhub-io/schoolhub-api/internal/models"
	"github.com/schoolhub-io/schoolhub-api/pkg/response"
)

type profileService interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	StudentsOfSchool(ctx context.Context, schoolID string) ([]models.ProfileSummary, error)
	TeachersOfSchool(ctx context.Context, schoolID string) ([]models.ProfileSummary, error)
}

// ProfileHandler serves school-scoped directory lookups.
type ProfileHandler struct {
	profiles profileService
	logger   *zap.Logger
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles profileService, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// Detail handles GET /fetch-profile?profileId=. Without the query
// parameter it returns the caller's own profile.
func (h *ProfileHandler) Detail(c *gin.Context) {
	profileID := c.Query("profileId")
	if profileID == "" {
		if caller, ok := middleware.SessionProfile(c); ok {
			profileID = caller.ID
		}
	}

	profile, err := h.profiles.Get(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": profile})
}

// Students handles GET /get-students-of-same-school?schoolId=.
func (h *ProfileHandler) Students(c *gin.Context) {
	students, err := h.profiles.StudentsOfSchool(c.Request.Context(), h.schoolID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": students})
}

// Teachers handles GET /fetch-teachers?schoolId=.
func (h *ProfileHandler) Teachers(c *gin.Context) {
	teachers, err := h.profiles.TeachersOfSchool(c.Request.Context(), h.schoolID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": teachers})
}

// schoolID prefers the query parameter and falls back to the caller's
// own school.
func (h *ProfileHandler) schoolID(c *gin.Context) string {
	if id := c.Query("schoolId"); id != "" {
		return id
	}
	if caller, ok := middleware.SessionProfile(c); ok && caller.SchoolID != nil {
		return *caller.SchoolID
	}
	return ""
}
