package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mycorner-service/internal/config"
	"mycorner-service/internal/email"
	"mycorner-service/internal/fcm"
	"mycorner-service/internal/identity"
	"mycorner-service/internal/media"
	"mycorner-service/internal/notify"
	"mycorner-service/internal/prompts"
	"mycorner-service/internal/reminder"
	"mycorner-service/internal/store"
	syncengine "mycorner-service/internal/sync"
	transport "mycorner-service/internal/transport/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

var startTime time.Time

func main() {
	startTime = time.Now()
	cfg := config.Load()

	db, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("❌ [DB] %v", err)
	}
	users := store.NewUserStore(db)
	settings := store.NewSettingsStore(db)

	clerk := identity.NewClient(cfg.ClerkAPIURL, cfg.ClerkSecretKey)
	log.Printf("🔐 [CLERK] Identity client initialized (API: %s)", cfg.ClerkAPIURL)

	s3Client, err := media.NewS3Client(context.Background(), media.S3Config{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		BucketName:      cfg.AWSBucketName,
	})
	if err != nil {
		log.Fatalf("❌ [S3] Failed to initialize client: %v", err)
	}
	log.Printf("✅ [S3] Media client initialized (bucket: %s)", cfg.AWSBucketName)

	emailSender := email.NewSender(cfg)

	var fcmClient *fcm.Client
	if fcmCredsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON"); fcmCredsJSON != "" {
		client, err := fcm.NewClient(context.Background(), []byte(fcmCredsJSON))
		if err != nil {
			log.Fatalf("❌ Failed to initialize FCM: %v", err)
		}
		fcmClient = client
		log.Println("✅ FCM client initialized")
	} else {
		log.Println("⚠️ FCM disabled (no FIREBASE_CREDENTIALS_JSON)")
	}

	loc, err := time.LoadLocation(cfg.ReminderTimezone)
	if err != nil {
		log.Fatalf("❌ Invalid REMINDER_TIMEZONE %q: %v", cfg.ReminderTimezone, err)
	}

	reconciler := syncengine.NewReconciler(users, clerk)
	scheduler := reminder.NewScheduler(settings, users, loc)
	notifier := notify.NewNotifier(users, settings, emailSender, fcmClient)
	dispatcher := reminder.NewDispatcher(notifier, 256)

	promptsClient := prompts.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterURL)
	if cfg.OpenRouterAPIKey == "" {
		log.Println("⚠️ OPENROUTER_API_KEY not set, prompt generation will fail")
	}

	handler := transport.NewHandler(users, settings, reconciler, scheduler, dispatcher, promptsClient, s3Client, cfg.ClerkWebhookSecret)
	log.Println("✅ [SERVICE] Handlers initialized")

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher.Start(dispatchCtx)
	go reconciler.StartDailySchedule(cfg.ReconcileHour)
	go scheduler.Run(dispatcher)
	log.Printf("⏰ [SCHEDULE] Daily reconciliation at %02d:00, reminder tick every minute (zone: %s)", cfg.ReconcileHour, cfg.ReminderTimezone)

	app := fiber.New(fiber.Config{
		AppName:      "mycorner-service",
		ErrorHandler: customErrorHandler,
		BodyLimit:    64 * 1024 * 1024, // media uploads
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Service-Token,Cache-Control",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${ua}\n",
	}))

	// 1. Frontend-facing routes
	app.Post("/sync-user", handler.SyncUser)
	app.Post("/webhook/clerk", handler.ClerkWebhook)
	app.Post("/prompts/generate", handler.GeneratePrompt)

	userRoutes := app.Group("/user")
	userRoutes.Put("/:user_id/settings", handler.UpdateSettings)
	userRoutes.Post("/:user_id/fcm-token", handler.RegisterFCMToken)
	userRoutes.Delete("/:user_id/fcm-token", handler.UnregisterFCMToken)

	mediaRoutes := app.Group("/media")
	mediaRoutes.Post("/upload", handler.UploadMedia)
	mediaRoutes.Get("/list/:media_type", handler.ListMedia)
	log.Println("✅ [ROUTES] Registered frontend routes: /sync-user, /webhook/clerk, /prompts, /user, /media")

	// 2. Service-to-service triggers
	svcRoutes := app.Group("/svc/v1", serviceAuth(cfg))
	svcRoutes.Post("/sync/check-deletions", handler.CheckDeletions)
	svcRoutes.Post("/sync/check-deletion/:user_id", handler.CheckDeletion)
	svcRoutes.Post("/reminder/check", handler.CheckReminders)
	log.Println("✅ [ROUTES] Registered service routes: /svc/v1/sync/*, /svc/v1/reminder/check")

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		uptime := time.Since(startTime).Round(time.Second)
		return c.JSON(fiber.Map{
			"status":        "ok",
			"service":       "mycorner-service",
			"uptime":        uptime.String(),
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
			"reminder_zone": cfg.ReminderTimezone,
			"fcm_enabled":   fcmClient != nil,
		})
	})
	log.Println("✅ [ROUTES] Registered /health")

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("🛑 [SHUTDOWN] Graceful shutdown initiated...")
		stopDispatch()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ [SHUTDOWN] Error: %v", err)
		}
	}()

	log.Printf("🚀 mycorner-service starting...")
	log.Printf("   🔗 Listening on port: %s", cfg.ServerPort)
	log.Printf("   🌐 CORS allowed origins: %s", cfg.AllowedOrigins)
	log.Printf("   📦 S3 bucket: %s", cfg.AWSBucketName)
	log.Printf("   🕐 Reminder reference zone: %s", cfg.ReminderTimezone)
	log.Println("✅ Server ready.")

	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("❌ [STARTUP] Server failed to start: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var errMsg string
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		errMsg = e.Message
	} else {
		errMsg = err.Error()
	}
	log.Printf("🔥 [ERROR] [%d] %s %s → %v | IP=%s | UA=%s",
		code,
		c.Method(),
		c.Path(),
		errMsg,
		c.IP(),
		c.Get("User-Agent"),
	)
	return c.Status(code).JSON(fiber.Map{
		"error":      "something went wrong",
		"request_id": c.Get("X-Request-ID"),
	})
}

func serviceAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Service-Token")
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		if token != cfg.ServiceExpectedToken {
			log.Printf("[SERVICE-AUTH] ❌ REJECTED | IP=%s | Path=%s", c.IP(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: invalid or missing service token",
			})
		}
		return c.Next()
	}
}
