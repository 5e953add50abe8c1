package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
	"github.com/schoolhub-io/schoolhub-api/pkg/response"
)

// Gin context keys set by the session middleware.
const (
	ContextUserKey    = "session_user"
	ContextProfileKey = "session_profile"
)

type sessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.SessionClaims, *models.Profile, error)
}

// Session resolves the caller from the auth cookie, falling back to a
// Bearer header, and aborts unauthenticated requests. The resolved
// claims and profile are placed in the gin context for handlers.
func Session(auth sessionAuthenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
			c.Abort()
			return
		}

		claims, profile, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, models.SessionUser{ID: claims.ID, Email: claims.Email})
		c.Set(ContextProfileKey, profile)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// SessionUser reads the authenticated token identity from the context.
func SessionUser(c *gin.Context) (models.SessionUser, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return models.SessionUser{}, false
	}
	user, ok := value.(models.SessionUser)
	return user, ok
}

// SessionProfile reads the authenticated profile from the context.
func SessionProfile(c *gin.Context) (*models.Profile, bool) {
	value, ok := c.Get(ContextProfileKey)
	if !ok {
		return nil, false
	}
	profile, ok := value.(*models.Profile)
	return profile, ok
}
