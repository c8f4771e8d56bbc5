package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	batchService service.BatchService,
	scheduleService service.ScheduleService,
	exportService service.ExportService,
) {
	authHandler := NewAuthHandler(authService)
	batchHandler := NewBatchHandler(batchService)
	scheduleHandler := NewScheduleHandler(scheduleService, exportService)

	authMiddleware := AuthMiddleware(jwtSecret)
	schedulerRoles := RoleMiddleware(domain.RoleAdmin, domain.RoleManager, domain.RoleTrainer)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// Selector data is readable by any authenticated user.
		protected.GET("/users/trainers", batchHandler.GetTrainerRoster)
		protected.GET("/schedule/options", scheduleHandler.GetScheduleOptions)

		// --- Batch Directory ---
		batchGroup := protected.Group("/batches")
		{
			batchGroup.POST("", RoleMiddleware(domain.RoleAdmin, domain.RoleManager), batchHandler.CreateBatch)
			batchGroup.GET("/:batchId", batchHandler.GetBatch)

			// --- Schedule views (readable by any authenticated user) ---
			batchGroup.GET("/:batchId/plan", scheduleHandler.GetWeeklyPlan)
			batchGroup.GET("/:batchId/plan/all", scheduleHandler.GetAllPlans)
			batchGroup.GET("/:batchId/hours", scheduleHandler.GetHours)

			// --- Scheduling actions (staff only) ---
			batchGroup.POST("/:batchId/plan", schedulerRoles, scheduleHandler.CreateEntry)
			batchGroup.PUT("/:batchId/plan/:entryId", schedulerRoles, scheduleHandler.UpdateEntry)
			batchGroup.DELETE("/:batchId/plan/:entryId", schedulerRoles, scheduleHandler.DeleteEntry)
			batchGroup.POST("/:batchId/plan/:entryId/replicate", schedulerRoles, scheduleHandler.ReplicateEntry)

			batchGroup.POST("/:batchId/events", schedulerRoles, scheduleHandler.SetEvent)
			batchGroup.DELETE("/:batchId/events/:date", schedulerRoles, scheduleHandler.RemoveEvent)

			batchGroup.GET("/:batchId/export", schedulerRoles, scheduleHandler.ExportPlan)
		}
	}
}
