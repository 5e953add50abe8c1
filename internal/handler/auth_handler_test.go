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
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
)

type authServiceMock struct {
	profile *models.Profile
	token   string
	err     error
	logouts []string
}

func (m *authServiceMock) SignUp(ctx context.Context, req models.SignUpRequest, ip, userAgent string) (*models.Profile, string, error) {
	return m.profile, m.token, m.err
}

func (m *authServiceMock) SignIn(ctx context.Context, req models.SignInRequest, ip, userAgent string) (*models.Profile, string, error) {
	return m.profile, m.token, m.err
}

func (m *authServiceMock) Authenticate(ctx context.Context, token string) (*models.SessionClaims, *models.Profile, error) {
	if m.err != nil || token != m.token {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	return &models.SessionClaims{ID: m.profile.ID, Email: m.profile.Email}, m.profile, nil
}

func (m *authServiceMock) RecordLogout(ctx context.Context, profileID, ip, userAgent string) {
	m.logouts = append(m.logouts, profileID)
}

func testCookie() CookieConfig {
	return CookieConfig{Name: "auth_token", MaxAge: 604800}
}

func envelopeOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSignUpSetsSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{
		profile: &models.Profile{ID: "profile-1", Email: "amina@example.com"},
		token:   "signed-token",
	}
	h := NewAuthHandler(mockSvc, testCookie(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(map[string]string{"email": "amina@example.com", "password": "secret123"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SignUp(c)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)

	body := envelopeOf(t, w)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "profile-1", user["id"])
}

func TestSignUpInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{}, testCookie(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader([]byte("{not json")))

	h.SignUp(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := envelopeOf(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "please provide all required fields", body["message"])
}

func TestSignInSurfacesInvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{err: appErrors.Clone(appErrors.ErrInvalidCredentials, "")}
	h := NewAuthHandler(mockSvc, testCookie(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(map[string]string{"email": "amina@example.com", "password": "wrong"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/auth/signin", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SignIn(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthorizationWithoutSessionIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{token: "valid"}, testCookie(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/authorization", nil)

	h.Authorization(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := envelopeOf(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "user is not authenticated", body["message"])
}

func TestAuthorizationWithCookieReturnsProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{
		profile: &models.Profile{ID: "profile-1", Email: "amina@example.com"},
		token:   "signed-token",
	}
	h := NewAuthHandler(mockSvc, testCookie(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/authorization", nil)
	c.Request.AddCookie(&http.Cookie{Name: "auth_token", Value: "signed-token"})

	h.Authorization(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := envelopeOf(t, w)
	assert.Equal(t, true, body["success"])
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "profile-1", profile["id"])
}

func TestLogoutClearsCookieAndRecordsAudit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{
		profile: &models.Profile{ID: "profile-1", Email: "amina@example.com"},
		token:   "signed-token",
	}
	h := NewAuthHandler(mockSvc, testCookie(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: "auth_token", Value: "signed-token"})

	h.Logout(c)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.Equal(t, []string{"profile-1"}, mockSvc.logouts)
}
