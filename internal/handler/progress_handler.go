package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	"github.com/schoolhub-io/schoolhub-api/internal/service"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
	"github.com/schoolhub-io/schoolhub-api/pkg/response"
)

type progressService interface {
	Add(ctx context.Context, req service.AddProgressRequest) (*models.Progress, error)
	Edit(ctx context.Context, req service.EditProgressRequest) (*models.Progress, error)
	Delete(ctx context.Context, progressID string) error
	StudentFullDetail(ctx context.Context, studentID string) ([]models.StudentProgress, error)
}

// ProgressHandler serves the graded progress ledger.
type ProgressHandler struct {
	progress progressService
	logger   *zap.Logger
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(progress progressService, logger *zap.Logger) *ProgressHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressHandler{progress: progress, logger: logger}
}

// Add handles POST /progress/add.
func (h *ProgressHandler) Add(c *gin.Context) {
	var req service.AddProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	row, err := h.progress.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Progress added successfully", gin.H{"data": row})
}

// Edit handles PATCH /progress/edit.
func (h *ProgressHandler) Edit(c *gin.Context) {
	var req service.EditProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	row, err := h.progress.Edit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Progress updated successfully", gin.H{"data": row})
}

// Delete handles DELETE /progress/delete/:progressId.
func (h *ProgressHandler) Delete(c *gin.Context) {
	if err := h.progress.Delete(c.Request.Context(), c.Param("progressId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Progress deleted successfully", nil)
}

// StudentFullDetail handles GET /get-student-full-detail?profileId=.
func (h *ProgressHandler) StudentFullDetail(c *gin.Context) {
	detail, err := h.progress.StudentFullDetail(c.Request.Context(), c.Query("profileId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": detail})
}
