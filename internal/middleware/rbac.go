package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/schoolhub-io/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-io/schoolhub-api/pkg/errors"
	"github.com/schoolhub-io/schoolhub-api/pkg/response"
)

// RequireRoles aborts with 403 unless the authenticated profile holds
// one of the given roles. It must run after Session.
func RequireRoles(roles ...models.ProfileRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := SessionProfile(c)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
			c.Abort()
			return
		}
		for _, role := range roles {
			if profile.Role == role {
				c.Next()
				return
			}
		}
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient role"))
		c.Abort()
	}
}

// RequireRolesIf applies RequireRoles only when enforce is set. Staff
// role checks on most mutations ship dark until the flag is flipped.
func RequireRolesIf(enforce bool, roles ...models.ProfileRole) gin.HandlerFunc {
	if !enforce {
		return func(c *gin.Context) { c.Next() }
	}
	return RequireRoles(roles...)
}
