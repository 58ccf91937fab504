package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	clientService service.ClientService,
	exerciseService service.ExerciseService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	clientHandler := NewClientHandler(clientService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(MetricsMiddleware())
	router.GET("/metrics", MetricsHandler())
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

		// --- Exercise Library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", RoleMiddleware(domain.RoleCoach), exerciseHandler.CreateExercise)
			exerciseGroup.GET("", RoleMiddleware(domain.RoleCoach), exerciseHandler.GetCoachExercises)
			exerciseGroup.GET("/lookup", exerciseHandler.LookupExternalID)
			exerciseGroup.GET("/:id", exerciseHandler.GetExerciseByID)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleCoach), exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", RoleMiddleware(domain.RoleCoach), exerciseHandler.DeleteExercise)
		}

		// --- Coach Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// Client management
			coachGroup.POST("/clients", coachHandler.AddClientByEmail)
			coachGroup.GET("/clients", coachHandler.GetManagedClients)

			// Program authoring
			coachGroup.POST("/programs", coachHandler.CreateProgram)
			coachGroup.GET("/programs", coachHandler.GetPrograms)
			coachGroup.POST("/programs/:programId/workouts", coachHandler.AddWorkoutDefinition)
			coachGroup.GET("/programs/:programId/workouts", coachHandler.GetWorkoutDefinitions)

			// Enrollments
			coachGroup.POST("/enrollments", coachHandler.EnrollClient)
			coachGroup.DELETE("/enrollments/:enrollmentId", coachHandler.DeactivateEnrollment)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			// Schedule and metrics
			clientGroup.GET("/schedule", clientHandler.GetSchedule)
			clientGroup.GET("/streak", clientHandler.GetStreak)
			clientGroup.GET("/tonnage", clientHandler.GetTonnage)
			clientGroup.GET("/dashboard", clientHandler.GetDashboard)

			// Completions
			clientGroup.POST("/completions", clientHandler.RecordCompletion)
			clientGroup.PATCH("/completions/:completionId/sets", clientHandler.CorrectSets)

			// Progress photos
			clientGroup.POST("/photos/upload-url", clientHandler.RequestPhotoUploadURL)
			clientGroup.POST("/photos", clientHandler.ConfirmPhotoUpload)
			clientGroup.GET("/photos", clientHandler.GetProgressPhotos)
		}
	}
}
