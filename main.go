package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"catalogo/internal/handlers"
	"catalogo/internal/middleware"
	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
	"catalogo/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("API_BASE_URL", "") // empty: use the seeded in-memory repository
	viper.SetDefault("RABBITMQ_URL", "") // empty: event publishing disabled
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 10)
	viper.SetDefault("ID_CHECK_DEBOUNCE_MS", 250)
	viper.SetDefault("DEFAULT_PAGE_SIZE", 5)
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	apiBaseURL := viper.GetString("API_BASE_URL")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	debounce := time.Duration(viper.GetInt("ID_CHECK_DEBOUNCE_MS")) * time.Millisecond

	// --- Initialize RabbitMQ Client (optional) ---
	// Without a broker URL the catalog still works; mutation events are
	// simply not published.
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
	}

	// --- Initialize Repository ---
	// With an upstream API configured the catalog is fully remote;
	// otherwise a seeded in-memory repository backs local development.
	var productRepo repositories.ProductRepository
	if apiBaseURL != "" {
		httpClient := &http.Client{
			Timeout: time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		}
		productRepo = repositories.NewHTTPProductRepository(apiBaseURL, httpClient)
		log.Printf("Using products API at %s", apiBaseURL)
	} else {
		memRepo := repositories.NewInMemoryProductRepository()
		seedProducts(memRepo)
		productRepo = memRepo
		log.Println("No API_BASE_URL configured, using in-memory repository")
	}

	// --- Initialize Services ---
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	productService := services.NewProductService(productRepo, publisher)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService, debounce, viper.GetInt("DEFAULT_PAGE_SIZE"))

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(middleware.RequestID())
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// The consumer just logs catalog mutation events; downstream
	// systems would hook their own consumers onto the same queue.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for product events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received Product Event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

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

// seedProducts populates the in-memory repository with a few catalog
// records so the list and form pages have something to show locally.
func seedProducts(repo repositories.ProductRepository) {
	today := time.Now().Format(time.DateOnly)
	inOneYear := time.Now().AddDate(1, 0, 0).Format(time.DateOnly)

	products := []models.Product{
		{
			ID:           "trj-crd",
			Name:         "Tarjeta de crédito",
			Description:  "Tarjeta de consumo bajo la modalidad de crédito",
			Logo:         "https://images.example.com/logos/visa.png",
			DateRelease:  today,
			DateRevision: inOneYear,
		},
		{
			ID:           "cta-aho",
			Name:         "Cuenta de ahorro",
			Description:  "Producto financiero para ahorro personal",
			Logo:         "https://images.example.com/logos/ahorro.png",
			DateRelease:  today,
			DateRevision: inOneYear,
		},
		{
			ID:           "cred-emp",
			Name:         "Crédito empresarial",
			Description:  "Línea de crédito para pequeñas empresas",
			Logo:         "https://images.example.com/logos/empresa.png",
			DateRelease:  today,
			DateRevision: inOneYear,
		},
	}

	for i := range products {
		if _, err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
