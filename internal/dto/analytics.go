package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// RangeQuery captures the optional from/to query parameters of analytics endpoints.
type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// TimeRange parses the query. It returns nil when neither bound is given so the
// service applies its default window.
func (q RangeQuery) TimeRange() (*models.TimeRange, error) {
	if strings.TrimSpace(q.From) == "" && strings.TrimSpace(q.To) == "" {
		return nil, nil
	}
	var r models.TimeRange
	var err error
	if q.From != "" {
		if r.From, err = parseBound(q.From, false); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidRange, "invalid from parameter")
		}
	}
	if q.To != "" {
		if r.To, err = parseBound(q.To, true); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidRange, "invalid to parameter")
		}
	}
	return &r, nil
}

// parseBound accepts RFC3339 or a bare date. A bare date used as the upper bound
// covers the whole day.
func parseBound(raw string, upper bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil || !upper {
		return t, err
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

// ExportQuery captures GET /analytics/export parameters.
type ExportQuery struct {
	RangeQuery
	View   string `form:"view" validate:"required,oneof=students classes teachers program"`
	Format string `form:"format" validate:"required,oneof=csv pdf xlsx"`
}
