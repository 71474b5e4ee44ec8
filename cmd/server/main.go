package main

import (
	"log"

	"github.com/escritorio-dados/nanowip-sub000/internal/config"
	"github.com/escritorio-dados/nanowip-sub000/internal/database"
	"github.com/escritorio-dados/nanowip-sub000/internal/handlers"
	"github.com/escritorio-dados/nanowip-sub000/internal/middleware"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"github.com/escritorio-dados/nanowip-sub000/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("nanowip_session", store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	collaboratorRepo := repository.NewCollaboratorRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	trackerRepo := repository.NewTrackerRepository(db)

	// Initialize services. The batch service feeds the task service, which in
	// turn is the date-change notifier for the assignment engines.
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo)
	collaboratorService := services.NewCollaboratorService(collaboratorRepo)
	batchService := services.NewAssignmentBatchService(assignmentRepo, trackerRepo)
	taskService := services.NewTaskService(taskRepo, assignmentRepo, batchService)
	datesService := services.NewAssignmentDatesService(assignmentRepo, trackerRepo, taskService)
	statusService := services.NewAssignmentStatusService(assignmentRepo, trackerRepo, taskRepo, collaboratorRepo, taskService)
	assignmentService := services.NewAssignmentService(assignmentRepo, trackerRepo, taskRepo, collaboratorRepo, statusService)
	trackerService := services.NewTrackerService(trackerRepo, assignmentRepo, datesService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService, batchService)
	taskHandler := handlers.NewTaskHandler(taskService)
	collaboratorHandler := handlers.NewCollaboratorHandler(collaboratorService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, statusService)
	trackerHandler := handlers.NewTrackerHandler(trackerService)

	// Nightly date recalculation
	scheduler := services.NewRecalculationScheduler(batchService, orgRepo)
	if err := scheduler.Start(cfg.RecalculateCron); err != nil {
		log.Fatalf("Failed to start recalculation scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Nanowip API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)

			// Everything below is scoped to a single organization
			org := orgs.Group("/:id")
			org.Use(middleware.RequireOrganizationAccess())
			{
				org.GET("", orgHandler.GetOrganization)
				org.PUT("", middleware.RequireOrganizationOwner(), orgHandler.UpdateOrganization)
				org.DELETE("", middleware.RequireOrganizationOwner(), orgHandler.DeleteOrganization)
				org.POST("/regenerate-code", middleware.RequireOrganizationOwner(), orgHandler.RegenerateInviteCode)
				org.DELETE("/members/:user_id", middleware.RequireOrganizationOwner(), orgHandler.RemoveMember)
				org.POST("/recalculate-dates", middleware.RequireOrganizationOwner(), orgHandler.RecalculateAssignmentDates)

				tasks := org.Group("/tasks")
				{
					tasks.GET("", taskHandler.ListTasks)
					tasks.POST("", taskHandler.CreateTask)
					tasks.GET("/:task_id", middleware.RequireTaskAccess(), taskHandler.GetTask)
					tasks.PATCH("/:task_id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
					tasks.DELETE("/:task_id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
					tasks.POST("/:task_id/close", middleware.RequireTaskAccess(), taskHandler.CloseTask)
					tasks.GET("/:task_id/assignments", middleware.RequireTaskAccess(), assignmentHandler.ListByTask)
				}

				collaborators := org.Group("/collaborators")
				{
					collaborators.GET("", collaboratorHandler.ListCollaborators)
					collaborators.POST("", collaboratorHandler.CreateCollaborator)
					collaborators.GET("/:collaborator_id", collaboratorHandler.GetCollaborator)
					collaborators.PATCH("/:collaborator_id", collaboratorHandler.UpdateCollaborator)
					collaborators.DELETE("/:collaborator_id", collaboratorHandler.DeleteCollaborator)
					collaborators.GET("/:collaborator_id/assignments", assignmentHandler.ListByCollaborator)
				}

				assignments := org.Group("/assignments")
				{
					assignments.POST("", assignmentHandler.CreateAssignment)
					assignments.GET("/:assignment_id", assignmentHandler.GetAssignment)
					assignments.PATCH("/:assignment_id", assignmentHandler.UpdateAssignment)
					assignments.DELETE("/:assignment_id", assignmentHandler.DeleteAssignment)
					assignments.PATCH("/:assignment_id/status", assignmentHandler.ChangeStatus)
					assignments.GET("/:assignment_id/personal", assignmentHandler.GetPersonalAssignment)
					assignments.PATCH("/:assignment_id/personal/status", assignmentHandler.PersonalChangeStatus)
					assignments.GET("/:assignment_id/trackers", trackerHandler.ListByAssignment)
				}

				trackers := org.Group("/trackers")
				{
					trackers.POST("", trackerHandler.StartTracker)
					trackers.POST("/:tracker_id/stop", trackerHandler.StopTracker)
					trackers.PATCH("/:tracker_id", trackerHandler.UpdateTracker)
					trackers.DELETE("/:tracker_id", trackerHandler.DeleteTracker)
				}
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
