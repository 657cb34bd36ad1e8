
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
	"github.com/jackc/pgx/v5/pgxpool"

	"areaquiz-server/audit"
	"areaquiz-server/config"
	"areaquiz-server/engine"
	"areaquiz-server/handlers"
	"areaquiz-server/middleware"
	"areaquiz-server/ontology"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Load the ontology store. A missing or malformed file is fatal, matching
	// the fail-fast startup of the original application.
	store, err := ontology.Load(cfg.OntologyPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load ontology file at %s: %v", cfg.OntologyPath, err)
	}

	// Optional Postgres-backed audit log; the app runs unchanged without it.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = audit.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to audit database: %v", err)
		}
		defer pool.Close()
		if err := audit.CreateSchema(pool); err != nil {
			log.Fatalf("Error creating audit schema: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, audit log disabled")
	}

	grader := engine.NewGrader(store, cfg.RelTolerance, cfg.AbsTolerance)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// Load HTML templates
	renderer := multitemplate.NewRenderer()
	for _, page := range []string{"index", "problem", "students", "attempts", "add_problem", "admin_events"} {
		renderer.AddFromFiles(page, "templates/layout.html", "templates/"+page+".html")
	}
	router.HTMLRender = renderer

	// Middleware
	router.Use(middleware.Logger())

	// HTML pages
	router.GET("/", handlers.Index(store))
	router.GET("/problem/:name", handlers.ProblemPage(store))
	router.POST("/problem/:name/submit", handlers.SubmitAnswer(store, grader, pool))
	router.GET("/students", handlers.StudentsPage(store))
	router.GET("/attempts", handlers.AttemptsPage(store))

	// Admin surface: problem creation and audit log. Protected only when a
	// signing key is configured; the original application is unauthenticated.
	admin := router.Group("/")
	if cfg.Auth.JWTSigningKey != "" {
		admin.Use(middleware.AuthMiddleware(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer))
		admin.Use(middleware.RoleCheckMiddleware([]string{"admin", "instructor"}))
	}
	{
		admin.GET("/add_problem", handlers.AddProblemPage())
		admin.POST("/add_problem", handlers.AddProblemSubmit(store, pool))
		admin.GET("/admin/events", handlers.AdminEvents(pool))
	}

	// API Routes (version 1)
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/problems", handlers.APIListProblems(store))
		apiV1.GET("/problems/:name", handlers.APIGetProblem(store))
		apiV1.POST("/problems/:name/attempts", handlers.APISubmitAnswer(store, grader, pool))
		apiV1.GET("/students", handlers.APIListStudents(store))
		apiV1.GET("/attempts", handlers.APIListAttempts(store))
	}
	apiCreate := router.Group("/api/v1")
	if cfg.Auth.JWTSigningKey != "" {
		apiCreate.Use(middleware.AuthMiddleware(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer))
		apiCreate.Use(middleware.RoleCheckMiddleware([]string{"admin", "instructor"}))
	}
	apiCreate.POST("/problems", handlers.APICreateProblem(store, pool))

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

	log.Printf("AreaQuiz Server starting on %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server startup error: %v", err)
	}
	log.Println("Server exited gracefully.")
}
