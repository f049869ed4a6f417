package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures the API routes on the Gin engine.
func SetupRoutes(
	router *gin.Engine,
	workoutHandler *WorkoutHandler,
	coachHandler *CoachHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	apiV1 := router.Group("/api/v1")
	{
		workouts := apiV1.Group("/workouts")
		{
			workouts.POST("", workoutHandler.CreateWorkout)
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.DELETE("", workoutHandler.DeleteWorkouts)
			workouts.POST("/random", workoutHandler.GenerateRandomWorkout)
			workouts.POST("/scheduled", workoutHandler.ScheduleWorkout)
			workouts.GET("/:id/export", workoutHandler.ExportWorkout)
		}

		apiV1.GET("/coaches", coachHandler.ListCoaches)
		apiV1.GET("/summary/monthly", workoutHandler.MonthlySummary)
	}
}
