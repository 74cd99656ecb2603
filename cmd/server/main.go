package main

import (
	"github.com/brandonopened/aitaskanalysis/internal/config"
	"github.com/brandonopened/aitaskanalysis/internal/constants"
	"github.com/brandonopened/aitaskanalysis/internal/database"
	"github.com/brandonopened/aitaskanalysis/internal/handlers"
	"github.com/brandonopened/aitaskanalysis/internal/logger"
	"github.com/brandonopened/aitaskanalysis/internal/middleware"
	"github.com/brandonopened/aitaskanalysis/internal/repository"
	"github.com/brandonopened/aitaskanalysis/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatal("failed to add indexes", zap.Error(err))
	}
	if err := database.Seed(cfg); err != nil {
		log.Fatal("failed to seed database", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Sessions live in Redis so logins survive process restarts.
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatal("failed to create Redis session store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge, // fixed 24h expiry, no sliding renewal
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	aggRepo := repository.NewAggregateRepository(db)

	var annotator services.Annotator
	if cfg.OpenAIAPIKey != "" {
		annotator = services.NewAIService(cfg.OpenAIAPIKey, cfg.AITimeout, log)
	} else {
		log.Warn("OPENAI_API_KEY not set; task annotation disabled")
	}

	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, annotator, log)
	adminService := services.NewAdminService(userRepo, orgRepo, aggRepo)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	adminHandler := handlers.NewAdminHandler(adminService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		// Public
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// Authenticated
		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.POST("/logout", authHandler.Logout)
			authed.GET("/user", authHandler.GetCurrentUser)

			authed.GET("/tasks", taskHandler.ListTasks)
			authed.POST("/tasks", taskHandler.CreateTask)
			authed.PATCH("/tasks/:id/priority", taskHandler.UpdatePriority)
			authed.PATCH("/tasks/:id/complete", taskHandler.SetCompleted)
			authed.DELETE("/tasks/:id", taskHandler.DeleteTask)
			authed.GET("/tasks/:id/ai-details", taskHandler.GetAIDetails)
			authed.POST("/tasks/analyze", taskHandler.AnalyzeTasks)
			authed.GET("/tasks/stats", taskHandler.GetStats)

			// Administrator surface
			admin := authed.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/organizations", adminHandler.ListOrganizations)
				admin.PATCH("/admin/users/:id", adminHandler.UpdateUser)
				admin.GET("/admin/stats", adminHandler.GetStats)
			}
		}
	}

	log.Info("server starting", zap.String("addr", ":8080"))
	if err := r.Run(":8080"); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
