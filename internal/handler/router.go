package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/madrasah-analytics-api/internal/middleware"
	"github.com/noah-isme/madrasah-analytics-api/internal/models"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Analytics *AnalyticsHandler
	Alerts    *AlertHandler
	Metrics   *MetricsHandler

	AnalyticsEnabled bool
}

// RegisterRoutes mounts the public probes on r and the authenticated API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, auth middleware.TokenValidator, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.FeatureGate(h.AnalyticsEnabled, "analytics"), middleware.JWT(auth), middleware.MadrasahScope())

	readers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)
	writers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	analytics := api.Group("/analytics", readers)
	analytics.GET("/students", h.Analytics.Students)
	analytics.GET("/students/:id", h.Analytics.Student)
	analytics.GET("/classes", h.Analytics.Classes)
	analytics.GET("/teachers", h.Analytics.Teachers)
	analytics.GET("/program", h.Analytics.Program)
	analytics.GET("/report", h.Analytics.Report)
	analytics.GET("/alerts", h.Analytics.Alerts)
	analytics.GET("/export", h.Analytics.Export)
	analytics.GET("/system", writers, h.Analytics.System)
	analytics.DELETE("/cache", writers, h.Analytics.InvalidateCache)

	alerts := api.Group("/alerts", readers)
	alerts.GET("", h.Alerts.List)
	alerts.PATCH("/:id/status", writers, h.Alerts.UpdateStatus)
}
