package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sfs-platform/feedback-api/internal/models"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
	"github.com/sfs-platform/feedback-api/pkg/response"
)

// RequireRoles gates a route tree to the given roles. An authenticated
// identity with the wrong role gets 403.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
