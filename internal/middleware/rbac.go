package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
	"github.com/noah-isme/madrasah-analytics-api/pkg/response"
)

// ContextMadrasahKey stores the tenant resolved by MadrasahScope.
const ContextMadrasahKey = "madrasahID"

// RequireRoles rejects requests whose token role is not listed.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
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

// MadrasahScope resolves the tenant of the request from the token. Superadmins carry no
// tenant and must name one with the madrasah_id query parameter; other roles may not
// override theirs.
func MadrasahScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		requested := strings.TrimSpace(c.Query("madrasah_id"))
		madrasahID := claims.MadrasahID
		switch {
		case claims.Role == models.RoleSuperAdmin && requested != "":
			madrasahID = requested
		case requested != "" && requested != claims.MadrasahID:
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "madrasah outside token scope"))
			c.Abort()
			return
		}
		if madrasahID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "madrasah_id is required"))
			c.Abort()
			return
		}

		c.Set(ContextMadrasahKey, madrasahID)
		c.Next()
	}
}

// MadrasahID returns the tenant stored by MadrasahScope.
func MadrasahID(c *gin.Context) string {
	return c.GetString(ContextMadrasahKey)
}
