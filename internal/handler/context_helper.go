package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/madrasah-analytics-api/internal/dto"
	"github.com/noah-isme/madrasah-analytics-api/internal/middleware"
	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
	"github.com/noah-isme/madrasah-analytics-api/pkg/response"
)

func madrasahFromContext(c *gin.Context) (string, error) {
	if id := middleware.MadrasahID(c); id != "" {
		return id, nil
	}
	if claims := middleware.Claims(c); claims != nil && claims.MadrasahID != "" {
		return claims.MadrasahID, nil
	}
	return "", appErrors.ErrUnauthorized
}

func rangeFromQuery(c *gin.Context) (*models.TimeRange, error) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "invalid range parameters")
	}
	return q.TimeRange()
}

func validationError(err error) error {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, fieldErrs[0].Field()+" failed "+fieldErrs[0].Tag()+" validation")
	}
	return appErrors.Clone(appErrors.ErrValidation, err.Error())
}

// respond writes the envelope with cache and timing metadata.
func respond(c *gin.Context, status int, data interface{}, cacheHit bool, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, status, data, meta)
}
