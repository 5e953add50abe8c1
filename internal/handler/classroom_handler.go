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

type classroomService interface {
	Create(ctx context.Context, caller *models.Profile, req service.CreateClassroomRequest) (*models.Classroom, error)
	Detail(ctx context.Context, classroomID string) (*models.ClassroomDetail, error)
}

type enrollmentService interface {
	Enroll(ctx context.Context, req service.EnrollRequest) (*models.Progress, error)
	Unenroll(ctx context.Context, req service.UnenrollRequest) error
	Roster(ctx context.Context, classroomID string) ([]models.ProfileSummary, error)
}

// ClassroomHandler serves classroom management and enrollment.
type ClassroomHandler struct {
	classrooms classroomService
	enrollment enrollmentService
	logger     *zap.Logger
}

// NewClassroomHandler constructs ClassroomHandler.
func NewClassroomHandler(classrooms classroomService, enrollment enrollmentService, logger *zap.Logger) *ClassroomHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomHandler{classrooms: classrooms, enrollment: enrollment, logger: logger}
}

// Create handles POST /classrooms/create.
func (h *ClassroomHandler) Create(c *gin.Context) {
	caller, ok := middleware.SessionProfile(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req service.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	classroom, err := h.classrooms.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Classroom created successfully", gin.H{"classroom": classroom})
}

// Detail handles GET /classrooms/get-classroom?classroomId=.
func (h *ClassroomHandler) Detail(c *gin.Context) {
	detail, err := h.classrooms.Detail(c.Request.Context(), c.Query("classroomId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": detail})
}

// Students handles GET /classrooms/get-students?classroomId=.
func (h *ClassroomHandler) Students(c *gin.Context) {
	roster, err := h.enrollment.Roster(c.Request.Context(), c.Query("classroomId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": roster})
}

// AddStudent handles POST /classrooms/add-student/:classroomId.
func (h *ClassroomHandler) AddStudent(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}
	req.ClassroomID = c.Param("classroomId")

	row, err := h.enrollment.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Student added to class", gin.H{"data": row})
}

// RemoveStudent handles DELETE /classrooms/remove-student.
func (h *ClassroomHandler) RemoveStudent(c *gin.Context) {
	var req service.UnenrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	if err := h.enrollment.Unenroll(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Student removed from class", nil)
}
