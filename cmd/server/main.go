package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"honeynet/internal/config"
	"honeynet/internal/handlers"
	"honeynet/internal/logging"
	"honeynet/internal/middleware"
	"honeynet/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Honeynet Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Threshold: %.2f, Context: %d turns)",
		cfg.Port, cfg.ActionThreshold, cfg.ContextTurns)

	// Initialize Redis (optional - backs per-client rate limiting)
	var redisService *services.RedisService
	if cfg.RedisURL != "" {
		log.Println("🔗 Connecting to Redis...")
		var err error
		redisService, err = services.NewRedisService(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (per-client rate limiting disabled)", err)
			redisService = nil
		} else {
			defer redisService.Close()
		}
	} else {
		log.Println("⚠️ REDIS_URL not set - per-client rate limiting disabled")
	}

	// Session store + metrics
	sessionStore := services.NewSessionStore()
	metrics := services.InitMetrics(sessionStore)
	log.Println("✅ Session store initialized")

	// Persona profiles (built-in defaults, optional YAML overrides)
	personaService, err := services.NewPersonaService(cfg.PersonasFile)
	if err != nil {
		log.Fatalf("❌ Failed to load persona profiles: %v", err)
	}

	// Classification/reply oracle: live LLM endpoint when a key is
	// configured, the built-in stub otherwise (demo mode)
	var oracle services.Oracle
	if cfg.OracleAPIKey != "" {
		oracle = services.NewOracleService(cfg, metrics)
		log.Printf("✅ Oracle gateway initialized (model: %s)", cfg.OracleModel)
	} else {
		oracle = services.NewStubOracle(time.Now().UnixNano())
		log.Println("⚠️ ORACLE_API_KEY not set - using built-in stub oracle (demo mode)")
	}

	engagementService := services.NewEngagementService(
		oracle, personaService, sessionStore, metrics,
		cfg.ActionThreshold, cfg.ContextTurns,
	)

	// Session retention sweeper (only when a TTL is configured)
	var retentionService *services.RetentionService
	if cfg.SessionTTL > 0 {
		retentionService, err = services.NewRetentionService(sessionStore, cfg.SessionTTL, cfg.SweepInterval)
		if err != nil {
			log.Fatalf("❌ Failed to create retention sweeper: %v", err)
		}
		if err := retentionService.Start(); err != nil {
			log.Fatalf("❌ Failed to start retention sweeper: %v", err)
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Honeynet v1.0",
		ReadTimeout:  cfg.OracleTimeout * 3, // a turn can cost two oracle calls
		WriteTimeout: cfg.OracleTimeout * 3,
		BodyLimit:    1 * 1024 * 1024, // 1MB is plenty for text messages
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("honeynet")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Analyze=%d/min, PerClient=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.AnalyzeMax,
		rateLimitConfig.PerClientMax,
	)

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-API-Key",
	}))

	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))
	app.Use("/api", middleware.RateLimitByClient(redisService, rateLimitConfig.PerClientMax))

	// Initialize handlers
	rootHandler := handlers.NewRootHandler()
	healthHandler := handlers.NewHealthHandler(sessionStore)
	analyzeHandler := handlers.NewAnalyzeHandler(engagementService)
	conversationHandler := handlers.NewConversationHandler(sessionStore)

	// Routes
	apiKeyAuth := middleware.APIKeyMiddleware(cfg.APIKey)

	app.Get("/", rootHandler.Handle)
	app.Get("/health", healthHandler.Handle)
	app.Get("/test", apiKeyAuth, rootHandler.HandleTest)
	app.Post("/test", apiKeyAuth, rootHandler.HandleTest)
	app.Post("/api/honeypot/analyze", apiKeyAuth, middleware.AnalyzeRateLimiter(rateLimitConfig), analyzeHandler.Handle)
	app.Get("/api/conversation/:id", apiKeyAuth, conversationHandler.Get)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if retentionService != nil {
			if err := retentionService.Stop(); err != nil {
				log.Printf("⚠️ Error stopping retention sweeper: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
