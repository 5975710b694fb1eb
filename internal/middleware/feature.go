package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
	"github.com/noah-isme/madrasah-analytics-api/pkg/response"
)

// FeatureGate answers 503 for every request while the named feature is switched off.
func FeatureGate(enabled bool, feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, feature+" is disabled"))
			c.Abort()
			return
		}
		c.Next()
	}
}
