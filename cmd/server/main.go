package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/labedu/compliance-backend/internal/config"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/handlers"
	"github.com/labedu/compliance-backend/internal/middleware"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/internal/services"
	"github.com/labedu/compliance-backend/pkg/genai"
	"github.com/labedu/compliance-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting LabEdu Compliance Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	unitRepo := database.NewUnitRepository(db)
	roleRepo := database.NewRoleRepository(db)
	employeeRepo := database.NewEmployeeRepository(db)
	moduleRepo := database.NewModuleRepository(db)
	requirementRepo := database.NewRequirementRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	enrollmentRepo := database.NewEnrollmentRepository(db)
	certificateRepo := database.NewCertificateRepository(db)
	loginAuditRepo := database.NewLoginAuditRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	genaiClient := genai.NewClient(cfg.AI.APIURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.RequestTimeout)

	auditService := services.NewAuditService(loginAuditRepo, cfg.Security.EnableAuditLog, logger)
	authService := services.NewAuthService(employeeRepo, jwtService, auditService, cfg.Security.BcryptCost, logger)
	orgService := services.NewOrgService(unitRepo, logger)
	employeeService := services.NewEmployeeService(employeeRepo, roleRepo, authService, logger)
	catalogService := services.NewCatalogService(moduleRepo, logger)
	matrixService := services.NewMatrixService(db, roleRepo, requirementRepo, moduleRepo, logger)
	complianceService := services.NewComplianceService(employeeRepo, roleRepo, requirementRepo, enrollmentRepo, cfg.Compliance.WarningWindowDays, logger)
	trainingService := services.NewTrainingService(scheduleRepo, enrollmentRepo, moduleRepo, employeeRepo, logger)
	certificateService := services.NewCertificateService(certificateRepo, enrollmentRepo, scheduleRepo, moduleRepo, employeeRepo, logger)
	contentService := services.NewContentService(genaiClient, moduleRepo, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, auditService, employeeService)
	orgHandler := handlers.NewOrgHandler(orgService)
	matrixHandler := handlers.NewMatrixHandler(matrixService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	trainingHandler := handlers.NewTrainingHandler(trainingService)
	complianceHandler := handlers.NewComplianceHandler(complianceService)
	certificateHandler := handlers.NewCertificateHandler(certificateService)
	contentHandler := handlers.NewContentHandler(contentService, complianceService)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Role shorthands for route gates
	manager := middleware.RequireRole(models.SystemRoleUnitManager)
	instructor := middleware.RequireRole(models.SystemRoleUnitManager, models.SystemRoleInstructor)
	admin := middleware.RequireRole(models.SystemRoleAdmin)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.POST("/change-password", authHandler.ChangePassword)
				protected.GET("/me", authHandler.Me)
				protected.GET("/activity", authHandler.RecentActivity)
			}
		}

		// Certificate verification (public, for printed certificates)
		v1.GET("/certificates/verify/:code", certificateHandler.Verify)

		// Everything below requires authentication
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))

		// Units and sectors
		units := authed.Group("/units")
		{
			units.GET("", orgHandler.ListUnits)
			units.GET("/:id", orgHandler.GetUnit)
			units.GET("/:id/sectors", orgHandler.ListSectors)
			units.POST("", admin, orgHandler.CreateUnit)
			units.PUT("/:id", admin, orgHandler.UpdateUnit)
			units.POST("/:id/sectors", admin, orgHandler.CreateSector)
		}

		// Job roles and the training matrix
		roles := authed.Group("/roles")
		{
			roles.GET("", matrixHandler.ListRoles)
			roles.GET("/:id/requirements", matrixHandler.GetRequirements)
			roles.POST("", manager, matrixHandler.CreateRole)
			roles.PUT("/:id", manager, matrixHandler.UpdateRole)
			roles.DELETE("/:id", manager, matrixHandler.DeleteRole)
			roles.PUT("/:id/requirements", manager, matrixHandler.SetRequirement)
			roles.PUT("/:id/requirements/bulk", manager, matrixHandler.BulkUpsertRequirements)
		}

		// Employees
		employees := authed.Group("/employees")
		{
			employees.GET("", manager, employeeHandler.List)
			employees.GET("/:id", manager, employeeHandler.Get)
			employees.POST("", manager, employeeHandler.Create)
			employees.PATCH("/:id", manager, employeeHandler.Update)
			employees.DELETE("/:id", manager, employeeHandler.Deactivate)
			employees.GET("/:id/enrollments", manager, trainingHandler.ListEmployeeEnrollments)
		}

		// Training module catalog
		modules := authed.Group("/modules")
		{
			modules.GET("", catalogHandler.ListModules)
			modules.GET("/:id", catalogHandler.GetModule)
			modules.POST("", instructor, catalogHandler.CreateModule)
			modules.PUT("/:id", instructor, catalogHandler.UpdateModule)
			modules.POST("/:id/publish", instructor, catalogHandler.Publish)
			modules.POST("/:id/unpublish", instructor, catalogHandler.Unpublish)
			modules.POST("/:id/lessons", instructor, catalogHandler.AddLesson)
			modules.DELETE("/:id/lessons/:lesson_id", instructor, catalogHandler.RemoveLesson)
			modules.POST("/:id/generate-quiz", instructor, contentHandler.GenerateQuiz)
			modules.POST("/:id/generate-outline", instructor, contentHandler.GenerateOutline)
		}

		// Schedules
		schedules := authed.Group("/schedules")
		{
			schedules.GET("/upcoming", trainingHandler.ListUpcoming)
			schedules.GET("/:id", trainingHandler.GetSchedule)
			schedules.POST("", instructor, trainingHandler.CreateSchedule)
			schedules.PATCH("/:id/status", instructor, trainingHandler.UpdateScheduleStatus)
		}

		// Enrollments
		enrollments := authed.Group("/enrollments")
		{
			enrollments.GET("/mine", trainingHandler.MyEnrollments)
			enrollments.POST("", instructor, trainingHandler.Enroll)
			enrollments.PATCH("/:id/progress", trainingHandler.UpdateProgress)
			enrollments.POST("/:id/complete", instructor, trainingHandler.RecordCompletion)
			enrollments.POST("/:id/certificate", instructor, certificateHandler.Issue)
		}

		// Compliance reports
		compliance := authed.Group("/compliance")
		{
			compliance.GET("/mine", complianceHandler.MyReport)
			compliance.GET("/employees/:id", manager, complianceHandler.EmployeeReport)
			compliance.GET("/overview", manager, complianceHandler.Overview)
			compliance.GET("/alerts", manager, complianceHandler.Alerts)
			compliance.POST("/analyze", manager, contentHandler.AnalyzeEffectiveness)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["employee_id"] = userCtx.EmployeeID
			fields["system_role"] = userCtx.SystemRole
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
