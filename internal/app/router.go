package app

import (
	"github.com/Mahaswami/exam-prep-sub000/docs"
	"github.com/Mahaswami/exam-prep-sub000/pkg/monitoring"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	registerRoundRoutes(api, c)
}

func registerRoundRoutes(api *gin.RouterGroup, c *controllers) {
	students := api.Group("/students/:userId")
	{
		students.POST("/concepts/:conceptId/revision-rounds", c.round.StartRevision)
		students.POST("/concepts/:conceptId/test-rounds", c.round.StartTest)
		students.POST("/chapters/:chapterId/diagnostic-rounds", c.round.StartDiagnostic)
		students.GET("/concept-states", c.round.ConceptStates)
	}

	rounds := api.Group("/rounds")
	{
		rounds.GET("/:id", c.round.GetRound)
		rounds.POST("/:id/complete", c.round.CompleteRound)
	}
}
