package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	"github.com/schoolhub-io/schoolhub-api/internal/service"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type progressServiceMock struct {
	row     *models.Progress
	detail  []models.StudentProgress
	err     error
	addReq  service.AddProgressRequest
	editReq service.EditProgressRequest
	deleted string
}

func (m *progressServiceMock) Add(ctx context.Context, req service.AddProgressRequest) (*models.Progress, error) {
	m.addReq = req
	return m.row, m.err
}

func (m *progressServiceMock) Edit(ctx context.Context, req service.EditProgressRequest) (*models.Progress, error) {
	m.editReq = req
	return m.row, m.err
}

func (m *progressServiceMock) Delete(ctx context.Context, progressID string) error {
	m.deleted = progressID
	return m.err
}

func (m *progressServiceMock) StudentFullDetail(ctx context.Context, studentID string) ([]models.StudentProgress, error) {
	return m.detail, m.err
}

func TestAddProgressCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &progressServiceMock{row: &models.Progress{ID: "prog-1", StudentID: "stu-1", ClassroomID: "class-1", Subject: "Math", Score: 85}}
	h := NewProgressHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(gin.H{"student_id": "stu-1", "classroom_id": "class-1", "subject": "Math", "score": 85, "remarks": "Good"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/progress/add", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Add(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 85, mockSvc.addReq.Score)
	assert.Equal(t, "Good", mockSvc.addReq.Remarks)
	body := envelopeOf(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "prog-1", data["id"])
}

func TestAddProgressMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &progressServiceMock{err: appErrors.Clone(appErrors.ErrMissingFields, "")}
	h := NewProgressHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(gin.H{"student_id": "stu-1", "classroom_id": "class-1", "subject": "Math"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/progress/add", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Add(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := envelopeOf(t, w)
	assert.Equal(t, "please provide all required fields", body["message"])
}

func TestEditProgressBindsIDField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &progressServiceMock{row: &models.Progress{ID: "prog-1", Subject: "Math"}}
	h := NewProgressHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(gin.H{"id": "prog-1", "subject": "Math"})
	c.Request, _ = http.NewRequest(http.MethodPatch, "/progress/edit", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Edit(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "prog-1", mockSvc.editReq.ProgressID)
	require.NotNil(t, mockSvc.editReq.Subject)
	assert.Equal(t, "Math", *mockSvc.editReq.Subject)
}

func TestDeleteProgressUsesPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &progressServiceMock{}
	h := NewProgressHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/progress/delete/prog-1", nil)
	c.Params = gin.Params{{Key: "progressId", Value: "prog-1"}}

	h.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "prog-1", mockSvc.deleted)
	body := envelopeOf(t, w)
	assert.Equal(t, true, body["success"])
}

func TestStudentFullDetailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &progressServiceMock{detail: []models.StudentProgress{{
		Progress: models.Progress{ID: "prog-1", Subject: "Math", Score: 90},
		Profiles: models.ProfileSummary{ID: "stu-1", Name: "Amina"},
	}}}
	h := NewProgressHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/get-student-full-detail?profileId=stu-1", nil)

	h.StudentFullDetail(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := envelopeOf(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	profile := entry["profiles"].(map[string]interface{})
	assert.Equal(t, "Amina", profile["name"])
}
