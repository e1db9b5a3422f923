package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trailwatch/gpsdrift/internal/config"
	"github.com/trailwatch/gpsdrift/internal/handler"
	"github.com/trailwatch/gpsdrift/internal/middleware"
	"github.com/trailwatch/gpsdrift/internal/repository"
	"github.com/trailwatch/gpsdrift/internal/service"
)

// SetupRouter wires the repository, service and handler layers together
// and registers every route.
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(600, time.Minute))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "gpsdrift API is running",
		})
	})

	trajectoryRepo := repository.NewTrajectoryRepository(db)
	fixRepo := repository.NewFixRepository(db)
	markerRepo := repository.NewMarkerRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	profileRepo := repository.NewConfigProfileRepository(db)
	taskRepo := repository.NewAnalysisTaskRepository(db)

	trajectorySvc := service.NewTrajectoryService(trajectoryRepo, fixRepo, markerRepo, statsRepo)
	profileSvc := service.NewConfigProfileService(profileRepo)
	taskSvc := service.NewAnalysisTaskService(taskRepo, db)

	trajectoryHandler := handler.NewTrajectoryHandler(trajectorySvc, profileSvc)
	jobHandler := handler.NewJobHandler(taskSvc)
	profileHandler := handler.NewConfigProfileHandler(profileSvc)
	simulateHandler := handler.NewSimulateHandler()

	v1 := r.Group("/api/v1")
	{
		trajectories := v1.Group("/trajectories")
		{
			trajectories.POST("", trajectoryHandler.CreateTrajectory)
			trajectories.GET("", trajectoryHandler.ListTrajectories)
			trajectories.GET("/:id", trajectoryHandler.GetTrajectory)
			trajectories.POST("/:id/fixes", trajectoryHandler.IngestFixes)
			trajectories.GET("/:id/fixes", trajectoryHandler.ListFixes)
			trajectories.POST("/:id/process", trajectoryHandler.ProcessTrajectory)
			trajectories.GET("/:id/statistics", trajectoryHandler.GetStatistics)
			trajectories.GET("/:id/markers", trajectoryHandler.ListMarkers)

			trajectories.POST("/:id/jobs", jobHandler.CreateJob)
			trajectories.GET("/:id/jobs", jobHandler.ListJobs)
			trajectories.GET("/:id/jobs/:jobID", jobHandler.GetJob)
			trajectories.DELETE("/:id/jobs/:jobID", jobHandler.CancelJob)
		}

		profiles := v1.Group("/config-profiles")
		{
			profiles.GET("", profileHandler.ListProfiles)
			profiles.GET("/:id", profileHandler.GetProfile)
			profiles.POST("", middleware.RequireAuth(cfg.JWTSecret), profileHandler.CreateProfile)
			profiles.PUT("/:id", middleware.RequireAuth(cfg.JWTSecret), profileHandler.UpdateProfile)
		}

		v1.POST("/simulate", simulateHandler.Simulate)
	}

	return r
}
