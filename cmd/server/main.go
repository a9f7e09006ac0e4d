package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"reddit-ideas/internal/auth"
	"reddit-ideas/internal/config"
	"reddit-ideas/internal/database"
	"reddit-ideas/internal/digest"
	"reddit-ideas/internal/handlers"
	"reddit-ideas/internal/live"
	"reddit-ideas/internal/llm"
	"reddit-ideas/internal/notifier"
	"reddit-ideas/internal/reddit"
	"reddit-ideas/internal/services"
	"reddit-ideas/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// app holds the collaborators shared by the routes
type app struct {
	cfg           *config.Config
	db            *gorm.DB
	hub           *live.Hub
	workerService *worker.WorkerService
	store         *services.IdeaStore
	generator     *services.Generator
	dispatcher    *services.Dispatcher
	status        *services.StatusService
	subscriptions *services.SubscriptionService
	ideaSubs      *services.IdeaSubscriptionService
	goTrue        *auth.GoTrueClient
	verifier      auth.Verifier
	source        reddit.Source
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Every collaborator is needed by some route, so fail before serving
	if err := cfg.RequireAll(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	a, err := newApp(cfg, db)
	if err != nil {
		log.Fatal("Failed to initialize services:", err)
	}

	// Start background workers (live hub)
	if err := a.workerService.Start(); err != nil {
		log.Fatal("Failed to start background workers:", err)
	}

	setupGracefulShutdown(a.workerService, db)

	setupServer(a)
}

func newApp(cfg *config.Config, db *gorm.DB) (*app, error) {
	completer, err := llm.New(cfg.Completion)
	if err != nil {
		return nil, err
	}

	mailer, err := notifier.NewFromConfig(cfg.Email)
	if err != nil {
		return nil, err
	}

	builder, err := digest.New(cfg.SiteURL)
	if err != nil {
		return nil, err
	}

	source := reddit.NewMockSource()
	hub := live.NewHub()
	store := services.NewIdeaStore(db)
	goTrue := auth.NewGoTrueClient(cfg.Backend.URL, cfg.Backend.AnonKey)

	var verifier auth.Verifier = goTrue
	if cfg.Backend.JWTSecret != "" {
		log.Println("🔐 Verifying sessions locally with the JWT secret")
		verifier = auth.NewJWTVerifier(cfg.Backend.JWTSecret)
	}

	return &app{
		cfg:           cfg,
		db:            db,
		hub:           hub,
		workerService: worker.NewWorkerService(hub.Run),
		store:         store,
		generator:     services.NewGenerator(store, source, completer, hub),
		dispatcher:    services.NewDispatcher(db, store, builder, mailer),
		status:        services.NewStatusService(db, store, source),
		subscriptions: services.NewSubscriptionService(db, builder, mailer),
		ideaSubs:      services.NewIdeaSubscriptionService(db, store),
		goTrue:        goTrue,
		verifier:      verifier,
		source:        source,
	}, nil
}

func setupGracefulShutdown(workerService *worker.WorkerService, db *gorm.DB) {
	// Setup signal handling for graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		// Stop background workers
		workerService.Stop()

		// Close database connection
		database.Close(db)

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(a *app) {
	// Set Gin mode based on environment
	if a.cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(a.workerService)
	jobsHandler := handlers.NewJobsHandler(a.workerService, services.JobFuncs(a.generator, a.dispatcher), a.status)
	ideasHandler := handlers.NewIdeasHandler(a.store, a.generator, a.source)
	subscriptionHandler := handlers.NewSubscriptionHandler(a.subscriptions, a.ideaSubs, a.goTrue)
	sessionHandler := handlers.NewSessionHandler(a.goTrue, a.cfg.SiteURL)
	pagesHandler := handlers.NewPagesHandler()
	adminHandler := handlers.NewAdminHandler(a.db, a.status, a.workerService, a.cfg.AdminPassword)

	// Health check
	r.GET("/health", healthHandler.HealthCheck)

	// Static pages
	r.GET("/how-it-works", pagesHandler.Page("how-it-works"))
	r.GET("/pricing", pagesHandler.Page("pricing"))
	r.GET("/logout", sessionHandler.Logout)

	// API routes
	api := r.Group("/api")
	{
		jobs := api.Group("/jobs")
		{
			jobs.POST("/generate-ideas", jobsHandler.GenerateIdeas)
			jobs.POST("/send-personalized-ideas", jobsHandler.SendPersonalized)
			jobs.GET("/status", jobsHandler.Status)
		}
		api.POST("/send-newsletter", jobsHandler.SendNewsletter)

		api.GET("/ideas", ideasHandler.ListIdeas)
		api.GET("/ideas/live", a.hub.Handler())
		api.POST("/generate-ideas", ideasHandler.PreviewIdeas)
		api.GET("/ingest", ideasHandler.Ingest)

		api.POST("/subscribe-email", subscriptionHandler.SubscribeEmail)
		api.GET("/unsubscribe", subscriptionHandler.Unsubscribe)
		api.POST("/unsubscribe", subscriptionHandler.Unsubscribe)
		api.POST("/resend-confirmation", subscriptionHandler.ResendConfirmation)

		// Per-idea subscriptions need a session
		subscribe := api.Group("/subscribe", auth.RequireUser(a.verifier))
		{
			subscribe.GET("", subscriptionHandler.ListIdeaSubscriptions)
			subscribe.POST("", subscriptionHandler.SubscribeIdea)
			subscribe.DELETE("", subscriptionHandler.UnsubscribeIdea)
		}

		worker := api.Group("/worker")
		{
			worker.GET("/status", healthHandler.WorkerStatus)
		}
	}

	// Admin routes (password protected)
	admin := r.Group("/admin", adminHandler.AdminAuth())
	{
		admin.GET("", adminHandler.ServeAdminDashboard)
		admin.GET("/ideas", adminHandler.ServeIdeasPage)
		admin.GET("/subscribers", adminHandler.ServeSubscribersPage)
	}

	log.Printf("Server starting on port %s", a.cfg.Port)
	if err := r.Run(":" + a.cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
