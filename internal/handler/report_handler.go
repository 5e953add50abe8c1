package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/middleware"
	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
	"github.com/schoolhub-io/schoolhub-api/pkg/response"
)

type reportService interface {
	Enqueue(ctx context.Context, classroomID string, format models.ReportFormat, requestedBy string) (*models.ReportJob, error)
	Status(ctx context.Context, jobID string) (*models.ReportJobStatus, error)
	OpenDownload(token string) (*os.File, *models.ReportJob, error)
}

type enqueueReportRequest struct {
	ClassroomID string              `json:"classroom_id"`
	Format      models.ReportFormat `json:"format"`
}

// ReportHandler serves grade-sheet export jobs.
type ReportHandler struct {
	reports reportService
	logger  *zap.Logger
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Enqueue handles POST /reports/classroom-grades.
func (h *ReportHandler) Enqueue(c *gin.Context) {
	caller, ok := middleware.SessionProfile(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req enqueueReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	job, err := h.reports.Enqueue(c.Request.Context(), req.ClassroomID, req.Format, caller.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, "Export queued", gin.H{"data": job})
}

// Status handles GET /reports/:id.
func (h *ReportHandler) Status(c *gin.Context) {
	status, err := h.reports.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", gin.H{"data": status})
}

// Download handles GET /reports/download?token=. The token is the only
// credential; the link was signed for the bearer when status was read.
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, job, err := h.reports.OpenDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}

	contentType := "text/csv"
	if job.Format == models.ReportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
