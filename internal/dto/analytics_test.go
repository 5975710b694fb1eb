package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

func TestRangeQueryParsesBothLayouts(t *testing.T) {
	r, err := RangeQuery{From: "2024-03-01", To: "2024-03-29T12:00:00+02:00"}.TimeRange()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC), r.To)
}

func TestRangeQueryDateOnlyUpperBoundCoversDay(t *testing.T) {
	r, err := RangeQuery{From: "2024-06-01", To: "2024-06-30"}.TimeRange()
	require.NoError(t, err)
	endOfDay := time.Date(2024, 6, 30, 23, 59, 59, 999999999, time.UTC)
	assert.Equal(t, endOfDay, r.To)
	assert.True(t, r.Contains(time.Date(2024, 6, 30, 18, 30, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRangeQuerySingleDayWindow(t *testing.T) {
	r, err := RangeQuery{From: "2024-06-01", To: "2024-06-01"}.TimeRange()
	require.NoError(t, err)

	window, err := models.NormalizeRange(r, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), window.From)
	assert.Equal(t, 24*time.Hour-time.Nanosecond, window.To.Sub(window.From))
}

func TestRangeQueryEmptyAndInvalid(t *testing.T) {
	r, err := RangeQuery{}.TimeRange()
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = RangeQuery{To: "2024-03-29"}.TimeRange()
	require.NoError(t, err)
	assert.True(t, r.From.IsZero())

	_, err = RangeQuery{From: "yesterday"}.TimeRange()
	assert.True(t, errors.Is(err, appErrors.ErrInvalidRange))
}

func TestRequestValidation(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Struct(UpdateAlertStatusRequest{Status: "resolved"}))
	assert.Error(t, v.Struct(UpdateAlertStatusRequest{Status: "active"}))
	assert.Error(t, v.Struct(UpdateAlertStatusRequest{}))

	assert.NoError(t, v.Struct(AlertListQuery{}))
	assert.Error(t, v.Struct(AlertListQuery{Status: "open"}))

	assert.NoError(t, v.Struct(ExportQuery{View: "program", Format: "xlsx"}))
	assert.Error(t, v.Struct(ExportQuery{View: "grades", Format: "csv"}))
}
