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

	"github.com/schoolhub-io/schoolhub-api/internal/middleware"
	"github.com/schoolhub-io/schoolhub-api/internal/models"
	"github.com/schoolhub-io/schoolhub-api/internal/service"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type classroomServiceMock struct {
	classroom *models.Classroom
	detail    *models.ClassroomDetail
	err       error
}

func (m *classroomServiceMock) Create(ctx context.Context, caller *models.Profile, req service.CreateClassroomRequest) (*models.Classroom, error) {
	return m.classroom, m.err
}

func (m *classroomServiceMock) Detail(ctx context.Context, classroomID string) (*models.ClassroomDetail, error) {
	return m.detail, m.err
}

type enrollmentServiceMock struct {
	row       *models.Progress
	roster    []models.ProfileSummary
	err       error
	enrollReq service.EnrollRequest
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, req service.EnrollRequest) (*models.Progress, error) {
	m.enrollReq = req
	return m.row, m.err
}

func (m *enrollmentServiceMock) Unenroll(ctx context.Context, req service.UnenrollRequest) error {
	return m.err
}

func (m *enrollmentServiceMock) Roster(ctx context.Context, classroomID string) ([]models.ProfileSummary, error) {
	return m.roster, m.err
}

func withSessionProfile(c *gin.Context, profile *models.Profile) {
	c.Set(middleware.ContextProfileKey, profile)
}

func TestCreateClassroomForbiddenForTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &classroomServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "only the school head can create classrooms")}
	h := NewClassroomHandler(mockSvc, &enrollmentServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(map[string]string{"name": "Grade 5A"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/classrooms/create", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	withSessionProfile(c, &models.Profile{ID: "teach-1", Role: models.RoleTeacher})

	h.Create(c)
	require.Equal(t, http.StatusForbidden, w.Code)
	body := envelopeOf(t, w)
	assert.Equal(t, false, body["success"])
}

func TestCreateClassroomCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &classroomServiceMock{classroom: &models.Classroom{ID: "class-1", Name: "Grade 5A", SchoolID: "school-1"}}
	h := NewClassroomHandler(mockSvc, &enrollmentServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(map[string]string{"name": "Grade 5A"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/classrooms/create", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	schoolID := "school-1"
	withSessionProfile(c, &models.Profile{ID: "head-1", Role: models.RoleHead, SchoolID: &schoolID})

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	body := envelopeOf(t, w)
	classroom := body["classroom"].(map[string]interface{})
	assert.Equal(t, "class-1", classroom["id"])
}

func TestAddStudentUsesPathClassroom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockEnroll := &enrollmentServiceMock{row: &models.Progress{ID: "prog-1", StudentID: "stu-1", ClassroomID: "class-1"}}
	h := NewClassroomHandler(&classroomServiceMock{}, mockEnroll, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(map[string]string{"student_id": "stu-1"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/classrooms/add-student/class-1", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "classroomId", Value: "class-1"}}

	h.AddStudent(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "class-1", mockEnroll.enrollReq.ClassroomID)
	assert.Equal(t, "stu-1", mockEnroll.enrollReq.StudentID)
}

func TestAddStudentConflictMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		err     error
		message string
	}{
		{"same classroom", appErrors.Clone(appErrors.ErrAlreadyEnrolled, ""), "student already has progress in this class"},
		{"other classroom", appErrors.Clone(appErrors.ErrEnrolledElsewhere, ""), "you are already in another class"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewClassroomHandler(&classroomServiceMock{}, &enrollmentServiceMock{err: tc.err}, nil)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			payload, _ := json.Marshal(map[string]string{"student_id": "stu-1"})
			c.Request, _ = http.NewRequest(http.MethodPost, "/classrooms/add-student/class-1", bytes.NewReader(payload))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Params = gin.Params{{Key: "classroomId", Value: "class-1"}}

			h.AddStudent(c)
			require.Equal(t, http.StatusBadRequest, w.Code)
			body := envelopeOf(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestRemoveStudentOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewClassroomHandler(&classroomServiceMock{}, &enrollmentServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(map[string]string{"student_id": "stu-1", "classroom_id": "class-1"})
	c.Request, _ = http.NewRequest(http.MethodDelete, "/classrooms/remove-student", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.RemoveStudent(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := envelopeOf(t, w)
	assert.Equal(t, true, body["success"])
}

func TestClassroomDetailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &classroomServiceMock{detail: &models.ClassroomDetail{
		ID:     "class-1",
		Name:   "Grade 5A",
		Roster: []models.RosterEntry{{Profile: models.ProfileSummary{ID: "stu-1", Name: "Amina"}}},
	}}
	h := NewClassroomHandler(mockSvc, &enrollmentServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/classrooms/get-classroom?classroomId=class-1", nil)

	h.Detail(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := envelopeOf(t, w)
	data := body["data"].(map[string]interface{})
	progress := data["progress"].([]interface{})
	require.Len(t, progress, 1)
	entry := progress[0].(map[string]interface{})
	profile := entry["profiles"].(map[string]interface{})
	assert.Equal(t, "Amina", profile["name"])
}
