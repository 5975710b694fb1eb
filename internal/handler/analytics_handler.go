package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/madrasah-analytics-api/internal/dto"
	"github.com/noah-isme/madrasah-analytics-api/internal/middleware"
	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	"github.com/noah-isme/madrasah-analytics-api/internal/service"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
	"github.com/noah-isme/madrasah-analytics-api/pkg/response"
)

type analyticsService interface {
	Students(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.StudentMetrics, bool, error)
	Student(ctx context.Context, madrasahID, studentID string, requested *models.TimeRange) (*models.StudentMetrics, bool, error)
	Classes(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.ClassMetrics, bool, error)
	Teachers(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.TeacherMetrics, bool, error)
	Program(ctx context.Context, madrasahID string, requested *models.TimeRange) (*models.ProgramMetrics, bool, error)
	Report(ctx context.Context, madrasahID string, requested *models.TimeRange) (*models.AnalyticsReport, bool, error)
	Alerts(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.AnalyticsAlert, error)
	SystemMetrics() models.AnalyticsSystemMetrics
	Invalidate(ctx context.Context, madrasahID string) error
}

type exportService interface {
	Export(ctx context.Context, madrasahID string, requested *models.TimeRange, view models.ExportView, format models.ExportFormat) (*service.ExportResult, error)
}

// AnalyticsHandler exposes the computed metric views.
type AnalyticsHandler struct {
	analytics analyticsService
	exports   exportService
	validate  *validator.Validate
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService, exports exportService, validate *validator.Validate) *AnalyticsHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AnalyticsHandler{analytics: analytics, exports: exports, validate: validate}
}

// Students godoc
// @Summary Per-student metrics
// @Tags Analytics
// @Produce json
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /analytics/students [get]
func (h *AnalyticsHandler) Students(c *gin.Context) {
	start := time.Now()
	madrasahID, window, ok := h.scope(c)
	if !ok {
		return
	}
	students, hit, err := h.analytics.Students(c.Request.Context(), madrasahID, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, students, hit, start)
}

// Student godoc
// @Summary Metrics for one student
// @Tags Analytics
// @Produce json
// @Param id path string true "Student ID"
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/students/{id} [get]
func (h *AnalyticsHandler) Student(c *gin.Context) {
	start := time.Now()
	madrasahID, window, ok := h.scope(c)
	if !ok {
		return
	}
	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id is required"))
		return
	}
	student, hit, err := h.analytics.Student(c.Request.Context(), madrasahID, studentID, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, student, hit, start)
}

// Classes godoc
// @Summary Per-class metrics
// @Tags Analytics
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {object} response.Envelope
// @Router /analytics/classes [get]
func (h *AnalyticsHandler) Classes(c *gin.Context) {
	start := time.Now()
	madrasahID, window, ok := h.scope(c)
	if !ok {
		return
	}
	classes, hit, err := h.analytics.Classes(c.Request.Context(), madrasahID, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, classes, hit, start)
}

// Teachers godoc
// @Summary Per-teacher metrics
// @Tags Analytics
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {object} response.Envelope
// @Router /analytics/teachers [get]
func (h *AnalyticsHandler) Teachers(c *gin.Context) {
	start := time.Now()
	madrasahID, window, ok := h.scope(c)
	if !ok {
		return
	}
	teachers, hit, err := h.analytics.Teachers(c.Request.Context(), madrasahID, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, teachers, hit, start)
}

// Program godoc
// @Summary Institution-wide metrics
// @Tags Analytics
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {object} response.Envelope
// @Router /analytics/program [get]
func (h *AnalyticsHandler) Program(c *gin.Context) {
	start := time.Now()
	madrasahID, window, ok := h.scope(c)
	if !ok {
		return
	}
	program, hit, err := h.analytics.Program(c.Request.Context(), madrasahID, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, program, hit, start)
}

// Report godoc
// @Summary Every metric view in one payload
// @Tags Analytics
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {object} response.Envelope
// @Router /analytics/report [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	start := time.Now()
	madrasahID, window, ok := h.scope(c)
	if !ok {
		return
	}
	report, hit, err := h.analytics.Report(c.Request.Context(), madrasahID, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetDegraded(c, report.Degraded)
	respond(c, http.StatusOK, report, hit, start)
}

// Alerts godoc
// @Summary Evaluate alert rules against fresh metrics
// @Tags Analytics
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {object} response.Envelope
// @Router /analytics/alerts [get]
func (h *AnalyticsHandler) Alerts(c *gin.Context) {
	start := time.Now()
	madrasahID, window, ok := h.scope(c)
	if !ok {
		return
	}
	alerts, err := h.analytics.Alerts(c.Request.Context(), madrasahID, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	if alerts == nil {
		alerts = []models.AnalyticsAlert{}
	}
	respond(c, http.StatusOK, alerts, false, start)
}

// Export godoc
// @Summary Download a metric view
// @Tags Analytics
// @Produce octet-stream
// @Param view query string true "students, classes, teachers or program"
// @Param format query string true "csv, pdf or xlsx"
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {file} file
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "export is not configured"))
		return
	}
	madrasahID, err := madrasahFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export parameters"))
		return
	}
	if err := h.validate.Struct(q); err != nil {
		response.Error(c, validationError(err))
		return
	}
	window, err := q.TimeRange()
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.Export(c.Request.Context(), madrasahID, window, models.ExportView(q.View), models.ExportFormat(q.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

// System godoc
// @Summary Instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	respond(c, http.StatusOK, h.analytics.SystemMetrics(), false, time.Now())
}

// InvalidateCache godoc
// @Summary Drop cached analytics views of the madrasah
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/cache [delete]
func (h *AnalyticsHandler) InvalidateCache(c *gin.Context) {
	start := time.Now()
	madrasahID, err := madrasahFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.analytics.Invalidate(c.Request.Context(), madrasahID); err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"madrasah_id": madrasahID, "invalidated": true}, false, start)
}

func (h *AnalyticsHandler) scope(c *gin.Context) (string, *models.TimeRange, bool) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return "", nil, false
	}
	madrasahID, err := madrasahFromContext(c)
	if err != nil {
		response.Error(c, err)
		return "", nil, false
	}
	window, err := rangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return "", nil, false
	}
	return madrasahID, window, true
}
