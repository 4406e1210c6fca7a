package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"mira/internal/audio"
	"mira/internal/config"
	"mira/internal/database"
	"mira/internal/dispatch"
	"mira/internal/handlers"
	"mira/internal/intent"
	"mira/internal/jobs"
	"mira/internal/launcher"
	"mira/internal/llm"
	"mira/internal/logging"
	"mira/internal/search"
	"mira/internal/services"
	"mira/internal/turn"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Mira Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabasePath)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	chatService := services.NewChatService(db)
	factService := services.NewFactService(db)
	services.InitMetrics()

	// Language model (intent parsing and conversation)
	if cfg.GeminiAPIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY environment variable is required")
	}
	gemini, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("❌ Failed to create Gemini client: %v", err)
	}
	log.Printf("🤖 Language model ready (%s)", cfg.GeminiModel)

	// Web search (optional; callers fall back to a generic search URL)
	searchService := search.NewService(cfg.SearchAPIKey, cfg.SearchCX)
	if cfg.SearchAPIKey == "" || cfg.SearchCX == "" {
		log.Println("⚠️  Google CSE not configured, top-result lookups disabled")
	}

	// Native application launcher
	launcherService := launcher.NewService(cfg.AliasConfigPath)
	defer launcherService.Close()

	// Speech in and out
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("❌ Failed to create upload dir: %v", err)
	}
	transcriber := audio.NewTranscriber(cfg.UploadDir, cfg.WhisperModel)

	var speaker *audio.Speaker
	if cfg.CartesiaAPIKey != "" {
		speaker = audio.NewSpeaker(cfg.CartesiaAPIKey, cfg.CartesiaVoice)
		log.Println("🔊 Cartesia speech enabled")
	} else {
		log.Println("⚠️  CARTESIA_API_KEY not set, replies will not be spoken")
	}
	voice := audio.NewVoice(speaker, cfg.UploadDir)

	// Turn pipeline
	responder := dispatch.NewResponder(gemini, chatService, factService, cfg.ChatMemoryLimit, cfg.FactsLimit)
	dispatcher := dispatch.NewDispatcher(searchService, launcherService, launcher.NewBrowser(), responder)
	parser := intent.NewParser(gemini)
	controller := turn.NewController(transcriber, parser, dispatcher, voice, chatService, cfg.WatchdogTimeout)

	// Background reminder checks
	reminderJob, err := jobs.NewReminderJob(controller, factService, cfg.ReminderInterval)
	if err != nil {
		log.Fatalf("❌ Failed to create reminder job: %v", err)
	}
	if err := reminderJob.Start(); err != nil {
		log.Fatalf("❌ Failed to start reminder job: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "Mira",
		BodyLimit: 25 * 1024 * 1024, // clip uploads
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("mira")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))

	// Transcription runs external tools; give it a stricter bucket
	audioLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	})

	// Handlers
	healthHandler := handlers.NewHealthHandler(controller)
	chatHandler := handlers.NewChatHandler(chatService)
	factHandler := handlers.NewFactHandler(factService)
	sttHandler := handlers.NewSTTHandler(transcriber, cfg.UploadDir)
	speakHandler := handlers.NewSpeakHandler(speaker)
	softwareHandler := handlers.NewSoftwareHandler(launcherService)
	turnHandler := handlers.NewTurnHandler(controller, cfg.UploadDir)

	// Routes
	app.Get("/health", healthHandler.Handle)
	app.Get("/chat", chatHandler.List)
	app.Post("/chat", chatHandler.Append)
	app.Get("/facts", factHandler.List)
	app.Post("/facts", factHandler.Create)
	app.Patch("/facts/:id", factHandler.Update)
	app.Get("/reminders", factHandler.ListDue)
	app.Patch("/reminders/:id", factHandler.Update)
	app.Post("/stt", audioLimiter, sttHandler.Transcribe)
	app.Post("/speak", speakHandler.Speak)
	app.Post("/open-software", softwareHandler.Open)
	app.Post("/turn", audioLimiter, turnHandler.Run)

	// Session-start flow: greeting, problem follow-up, overdue reminders
	greeter := jobs.NewSessionGreeter(controller, factService)
	go func() {
		if err := greeter.Run(context.Background()); err != nil {
			log.Printf("⚠️ Session greeting failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		reminderJob.Stop()
		launcherService.Close()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
