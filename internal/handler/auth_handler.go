package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
	"github.com/schoolhub-io/schoolhub-api/pkg/response"
)

type authService interface {
	SignUp(ctx context.Context, req models.SignUpRequest, ip, userAgent string) (*models.Profile, string, error)
	SignIn(ctx context.Context, req models.SignInRequest, ip, userAgent string) (*models.Profile, string, error)
	Authenticate(ctx context.Context, token string) (*models.SessionClaims, *models.Profile, error)
	RecordLogout(ctx context.Context, profileID, ip, userAgent string)
}

// CookieConfig describes how the session cookie is written.
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

// AuthHandler serves signup, signin, the session probe and logout.
type AuthHandler struct {
	auth   authService
	cookie CookieConfig
	logger *zap.Logger
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth authService, cookie CookieConfig, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, cookie: cookie, logger: logger}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	profile, token, err := h.auth.SignUp(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, token)
	response.OK(c, "Signup successful", gin.H{
		"user": models.SessionUser{ID: profile.ID, Email: profile.Email},
	})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingFields, ""))
		return
	}

	profile, token, err := h.auth.SignIn(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, token)
	response.OK(c, "Signin successful", gin.H{
		"user":    models.SessionUser{ID: profile.ID, Email: profile.Email},
		"profile": profile,
	})
}

// Authorization handles GET /authorization, the session probe the
// frontend calls on page load. A missing or invalid session is a plain
// 400 so clients can branch without an auth interceptor.
func (h *AuthHandler) Authorization(c *gin.Context) {
	token := h.extractToken(c)
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrNoSession, ""))
		return
	}

	claims, profile, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNoSession, ""))
		return
	}

	response.OK(c, "", gin.H{
		"user":    models.SessionUser{ID: claims.ID, Email: claims.Email},
		"profile": profile,
	})
}

// Logout handles POST /logout. The session is cookie-borne, so logout
// clears the cookie; the audit row is best effort.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.extractToken(c); token != "" {
		if claims, _, err := h.auth.Authenticate(c.Request.Context(), token); err == nil {
			h.auth.RecordLogout(c.Request.Context(), claims.ID, c.ClientIP(), c.Request.UserAgent())
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.OK(c, "Logged out", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
