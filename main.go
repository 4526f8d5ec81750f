package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cuero/internal/handlers"
	"cuero/internal/middleware"
	"cuero/internal/models"
	"cuero/internal/repositories"
	"cuero/internal/services"
	"cuero/internal/storage"
	"cuero/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // empty = in-memory dev mode
	viper.SetDefault("CLOUDINARY_URL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("ADMIN_EMAIL", "admin@example.com")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	cloudinaryURL := viper.GetString("CLOUDINARY_URL")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	jwtSecret := viper.GetString("JWT_SECRET")

	// --- Initialize Repositories ---
	// Without a DATABASE_DSN the whole stack runs in-memory, which is the
	// dev-mode default; anything postgres-looking uses the postgres driver,
	// everything else is treated as a SQLite path.
	var (
		productRepo  repositories.ProductRepository
		settingsRepo repositories.SettingsRepository
		userRepo     repositories.UserRepository
	)
	if databaseDSN == "" {
		log.Println("DATABASE_DSN not set, running with in-memory repositories")
		productRepo = repositories.NewMockProductRepository()
		settingsRepo = repositories.NewMockSettingsRepository()
		userRepo = repositories.NewMockUserRepository()
	} else {
		var dialector gorm.Dialector
		if strings.HasPrefix(databaseDSN, "postgres://") || strings.Contains(databaseDSN, "host=") {
			dialector = postgres.Open(databaseDSN)
		} else {
			dialector = sqlite.Open(databaseDSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		err = db.AutoMigrate(&models.Product{}, &models.ProductImage{}, &models.SiteSettings{}, &models.User{})
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		if err := provisionSettings(db); err != nil {
			log.Fatalf("Failed to provision site settings row: %v", err)
		}
		productRepo = repositories.NewGORMProductRepository(db)
		settingsRepo = repositories.NewGORMSettingsRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
	}

	// --- Initialize Object Storage ---
	var store storage.ObjectStorage
	if cloudinaryURL != "" {
		cloudStore, err := storage.NewCloudinaryStorage(cloudinaryURL)
		if err != nil {
			log.Fatalf("Failed to initialize Cloudinary storage: %v", err)
		}
		store = cloudStore
	} else {
		log.Println("CLOUDINARY_URL not set, running with in-memory object storage")
		store = storage.NewMemoryStorage()
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Catalog events are best-effort; the storefront runs fine without a
	// broker, so a missing or unreachable RABBITMQ_URL only disables them.
	var events services.EventPublisher
	if rabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Failed to initialize RabbitMQ client, catalog events disabled: %v", err)
		} else {
			defer mqClient.Close()
			events = mqClient

			go func() {
				log.Println("Starting RabbitMQ consumer for catalog events...")
				messageHandler := func(msg amqp.Delivery) error {
					log.Printf("Received Catalog Event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
					return nil // Return nil to acknowledge
				}
				if consumerErr := mqClient.ConsumeCatalogEvents(messageHandler); consumerErr != nil {
					log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
				}
			}()
		}
	}

	// --- Initialize Services ---
	catalogService := services.NewCatalogService(productRepo, store, events)
	settingsService := services.NewSettingsService(settingsRepo, store)
	bulkService := services.NewBulkUploadService(catalogService)
	authService := services.NewAuthService(userRepo, jwtSecret)

	// Seed the admin account so the back office is reachable on first run.
	seedAdmin(authService, userRepo)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(catalogService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	bulkHandler := handlers.NewBulkUploadHandler(bulkService)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // bulk uploads carry several images per request
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public storefront routes
	productHandler.RegisterPublicRoutes(apiV1)
	settingsHandler.RegisterPublicRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)

	// Administrative routes (require a session)
	adminRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterAdminRoutes(adminRoutes)
	bulkHandler.RegisterAdminRoutes(adminRoutes)
	settingsHandler.RegisterAdminRoutes(adminRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// provisionSettings makes sure the singleton site-settings row exists. The
// services only ever read and patch it; creation happens exactly once, here.
func provisionSettings(db *gorm.DB) error {
	var settings models.SiteSettings
	err := db.First(&settings).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return db.Create(&models.SiteSettings{ID: uuid.New().String()}).Error
}

// seedAdmin creates the configured admin account if it does not exist yet.
func seedAdmin(authService *services.AuthService, userRepo repositories.UserRepository) {
	email := viper.GetString("ADMIN_EMAIL")
	if _, err := userRepo.GetByEmail(email); err == nil {
		return
	}

	admin := &models.User{
		Email:    email,
		Password: viper.GetString("ADMIN_PASSWORD"),
	}
	if err := authService.RegisterAdmin(admin); err != nil {
		log.Printf("Error seeding admin account %s: %v", email, err)
	} else {
		log.Printf("Seeded admin account: %s", email)
	}
}
