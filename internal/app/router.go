package app

import (
	"learnpath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		api.GET("/content/modules", c.content.GetModules)

		progress := api.Group("/progress")
		{
			progress.GET("", c.progress.GetProgress)
			progress.GET("/overview", c.progress.GetOverview)
			progress.POST("/reset", c.progress.Reset)
			progress.POST("/modules/:moduleId/visit", c.progress.VisitModule)
			progress.POST("/modules/:moduleId/sections/:sectionId/complete", c.progress.CompleteSection)
		}

		api.PUT("/preferences", c.progress.UpdatePreferences)

		achievements := api.Group("/achievements")
		{
			achievements.GET("", c.achievements.List)
			achievements.POST("/:id/unlock", c.achievements.Unlock)
		}

		sessions := api.Group("/sessions")
		{
			sessions.GET("", c.sessions.List)
			sessions.POST("/start", c.sessions.Start)
			sessions.POST("/end", c.sessions.End)
		}
	}
}
