
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"

	"uniperf-server/config"
	"uniperf-server/handlers"
	"uniperf-server/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	// Set Gin mode
	gin.SetMode(cfg.GinMode)
	// Initialize Gin router
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20
	// Load HTML templates for admin UI
	renderer := multitemplate.NewRenderer()
	renderer.AddFromFiles("admin_dashboard", "templates/layout.html", "templates/admin_dashboard.html")
	renderer.AddFromFiles("admin_report", "templates/layout.html", "templates/admin_report.html")
	router.HTMLRender = renderer
	// Middleware
	router.Use(middleware.Logger()) // Custom logger middleware
	// JWT authentication middleware for API and Admin routes
	authMiddleware := middleware.AuthMiddleware(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	// API Routes (version 1)
	apiV1 := router.Group("/api/v1")
	apiV1.Use(authMiddleware) // Apply auth to all API routes
	{
		apiV1.POST("/analyze/report", handlers.AnalyzeReport(cfg))
		apiV1.POST("/analyze/cohort", handlers.AnalyzeCohort(cfg))
		apiV1.POST("/analyze/subjects", handlers.AnalyzeSubjects(cfg))
		apiV1.POST("/analyze/top", handlers.AnalyzeTopStudents(cfg))
		apiV1.POST("/analyze/departments", handlers.AnalyzeDepartments(cfg))
		apiV1.POST("/analyze/semesters", handlers.AnalyzeSemesters(cfg))
		apiV1.POST("/analyze/trends", handlers.AnalyzeTrends(cfg))
		apiV1.POST("/analyze/summary", handlers.AnalyzeSummary())
		apiV1.GET("/scales/:scale_type", handlers.GetScaleConfig())
		apiV1.POST("/scales/validate", handlers.ValidateScaleConfig())
	}
	// Admin UI Routes
	admin := router.Group("/admin")
	admin.Use(authMiddleware) // Apply auth to all admin routes
	admin.Use(middleware.RoleCheckMiddleware([]string{"admin", "instructor"})) // Role-based access control for admin routes
	{
		admin.GET("/dashboard", handlers.AdminDashboard(cfg))
		admin.POST("/report", handlers.AdminReport(cfg))
	}
	// Start the server
	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}
	// Goroutine to gracefully shut down the server
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()
	log.Printf("UNIPERF Server starting on %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server startup error: %v", err)
	}
	log.Println("Server exited gracefully.")
}
