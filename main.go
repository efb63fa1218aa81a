package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"notetaker/internal/handlers"
	"notetaker/internal/middleware"
	"notetaker/internal/models"
	"notetaker/internal/repositories"
	"notetaker/internal/services"
	"notetaker/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Loaded once at startup and immutable thereafter.
	viper.SetDefault("APP_PORT", ":4000")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("TOKEN_TTL_HOURS", 168) // 7 days
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	databaseURL := viper.GetString("DATABASE_URL")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	tokenTTL := time.Duration(viper.GetInt("TOKEN_TTL_HOURS")) * time.Hour

	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// --- Initialize Repositories ---
	// With DATABASE_URL set, state lives in Postgres and email uniqueness is
	// backed by the unique index. Without it, the in-memory repositories are
	// used: fine for development, no durability.
	var userRepo repositories.UserRepository
	var noteRepo repositories.NoteRepository

	if databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.User{}, &models.Note{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		userRepo = repositories.NewGORMUserRepository(db)
		noteRepo = repositories.NewGORMNoteRepository(db)
		log.Println("Using Postgres-backed repositories")
	} else {
		userRepo = repositories.NewMockUserRepository()
		noteRepo = repositories.NewMockNoteRepository()
		log.Println("DATABASE_URL not set, using in-memory repositories (no durability)")
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, note event publishing disabled")
	}

	// --- Initialize Services ---
	// The publisher stays a nil interface when RabbitMQ is not configured;
	// assigning the nil *rabbitmq.Client directly would defeat the service's
	// nil check.
	var eventPublisher services.EventPublisher
	if mqClient != nil {
		eventPublisher = mqClient
	}

	authService := services.NewAuthService(userRepo, jwtSecret, tokenTTL)
	noteService := services.NewNoteService(noteRepo, eventPublisher)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	noteHandler := handlers.NewNoteHandler(noteService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	authRequired := middleware.AuthRequired(authService)

	// --- API Routes ---
	authHandler.RegisterRoutes(app, authRequired)
	noteHandler.RegisterRoutes(app, authRequired)

	// --- Status Endpoints ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Notetaker backend running",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// The consumer logs note lifecycle events. Downstream processing (audit
	// trails, cache invalidation) would hang off this handler.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for note events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received note event %s (tag %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeNoteEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
