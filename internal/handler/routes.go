package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appeal-routing-api/internal/middleware"
	"github.com/noah-isme/appeal-routing-api/internal/models"
)

// Routes groups the handlers mounted by the API server.
type Routes struct {
	Applications *ApplicationHandler
	Metrics      *MetricsHandler
	Tokens       middleware.TokenValidator
}

// Register mounts observability endpoints at the root and the portal API under prefix.
func (rt Routes) Register(r *gin.Engine, prefix string) {
	if rt.Metrics != nil {
		r.GET("/health", rt.Metrics.Health)
		r.GET("/ready", rt.Metrics.Ready)
		r.GET("/metrics", rt.Metrics.Prometheus)
		r.GET("/metrics/summary", rt.Metrics.Summary)
	}

	api := r.Group(prefix, middleware.JWT(rt.Tokens))

	apps := api.Group("/applications")
	apps.POST("", middleware.RequireRoles(models.RoleStudent), rt.Applications.Submit)
	apps.GET("", middleware.RequireStaff(), rt.Applications.List)
	apps.GET("/stats", middleware.RequireStaff(), rt.Applications.Stats)
	apps.GET("/export", middleware.RequireApprover(), rt.Applications.Export)
	apps.GET("/:id", middleware.RequireStaff(), rt.Applications.Get)
	apps.POST("/:id/actions", middleware.RequireApprover(), rt.Applications.Act)

	api.GET("/track/:id", middleware.RequireRoles(models.RoleStudent), rt.Applications.Track)
}
