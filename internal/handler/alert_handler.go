package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/madrasah-analytics-api/internal/dto"
	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
	"github.com/noah-isme/madrasah-analytics-api/pkg/response"
)

type alertService interface {
	List(ctx context.Context, madrasahID string, status *models.AlertStatus) ([]models.AnalyticsAlert, error)
	UpdateStatus(ctx context.Context, madrasahID, id string, target models.AlertStatus) (*models.AnalyticsAlert, error)
}

// AlertHandler serves persisted alerts and their lifecycle.
type AlertHandler struct {
	alerts   alertService
	validate *validator.Validate
}

// NewAlertHandler constructs the alert handler.
func NewAlertHandler(alerts alertService, validate *validator.Validate) *AlertHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AlertHandler{alerts: alerts, validate: validate}
}

// List godoc
// @Summary List persisted alerts
// @Tags Alerts
// @Produce json
// @Param status query string false "active, acknowledged or resolved"
// @Success 200 {object} response.Envelope
// @Router /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	start := time.Now()
	madrasahID, err := madrasahFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	q := dto.AlertListQuery{Status: strings.TrimSpace(c.Query("status"))}
	if err := h.validate.Struct(q); err != nil {
		response.Error(c, validationError(err))
		return
	}
	var status *models.AlertStatus
	if q.Status != "" {
		s := models.AlertStatus(q.Status)
		status = &s
	}

	alerts, err := h.alerts.List(c.Request.Context(), madrasahID, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	if alerts == nil {
		alerts = []models.AnalyticsAlert{}
	}
	respond(c, http.StatusOK, alerts, false, start)
}

// UpdateStatus godoc
// @Summary Acknowledge or resolve an alert
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param payload body dto.UpdateAlertStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /alerts/{id}/status [patch]
func (h *AlertHandler) UpdateStatus(c *gin.Context) {
	start := time.Now()
	madrasahID, err := madrasahFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, validationError(err))
		return
	}

	alert, err := h.alerts.UpdateStatus(c.Request.Context(), madrasahID, c.Param("id"), models.AlertStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, alert, false, start)
}
