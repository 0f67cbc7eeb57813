package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"spiritbeads/internal/config"
	"spiritbeads/internal/handlers"
	"spiritbeads/internal/models"
	"spiritbeads/internal/repositories"
	"spiritbeads/internal/services"
	"spiritbeads/pkg/mailer"
	"spiritbeads/pkg/rabbitmq"
	"spiritbeads/pkg/stripe"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProcessedEvent{},
		&models.CustomOrderRequest{},
	); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional; the shop runs without a broker) ---
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		logrus.Warnf("RabbitMQ unavailable, order events disabled: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	customOrderRepo := repositories.NewGORMCustomOrderRepository(db)

	// --- External collaborators ---
	stripeClient := stripe.NewClient(stripe.Config{
		SecretKey: cfg.StripeSecretKey,
		BaseURL:   cfg.StripeAPIBaseURL,
	})
	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.FromEmail,
	})

	// --- Services ---
	catalogService := services.NewCatalogService(productRepo, categoryRepo)
	checkoutService := services.NewCheckoutService(orderRepo, productRepo, stripeClient, mqClient, cfg)
	webhookService := services.NewWebhookService(orderRepo, mqClient)
	customOrderService := services.NewCustomOrderService(
		customOrderRepo, afero.NewOsFs(), smtpMailer, cfg.MediaRoot, cfg.MediaURL, cfg.AdminEmail)

	if err := catalogService.SeedIfEmpty(); err != nil {
		logrus.Warnf("Catalog seeding failed: %v", err)
	}

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(catalogService)
	paymentHandler := handlers.NewPaymentHandler(checkoutService, webhookService, cfg.StripeWebhookSecret)
	customOrderHandler := handlers.NewCustomOrderHandler(customOrderService)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		BodyLimit: (services.MaxUploadFiles + 1) * services.MaxUploadBytes,
	})
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	// Payment and intake endpoints keep their storefront-facing paths.
	paymentHandler.RegisterRoutes(app)
	customOrderHandler.RegisterRoutes(app)

	app.Static("/media", cfg.MediaRoot)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	// Confirmation email happens here, off the webhook request path: the
	// webhook handler only touches the database and the queue.
	if mqClient != nil {
		if consumerErr := mqClient.ConsumeOrderEvents(orderEventHandler(smtpMailer, cfg.FromEmail)); consumerErr != nil {
			logrus.Warnf("Failed to start order event consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP server ---
	logrus.Infof("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	logrus.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logrus.Errorf("Error during Fiber shutdown: %v", err)
	}
	logrus.Info("Server gracefully stopped")
}

// openDatabase opens postgres when DATABASE_URL is set, the sqlite file
// otherwise. TranslateError lets the repositories catch unique-index hits
// as gorm.ErrDuplicatedKey on both drivers.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
}

// orderEventHandler reacts to order lifecycle events from the queue. Only
// order.paid does anything today: it sends the customer their confirmation
// email, best-effort.
func orderEventHandler(mail mailer.Mailer, fromEmail string) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		if msg.Type != rabbitmq.RoutingKeyOrderPaid {
			logrus.Debugf("ignoring order event %s", msg.Type)
			return nil
		}

		var payload struct {
			OrderID       string `json:"order_id"`
			CustomerEmail string `json:"customer_email"`
			AmountTotal   int64  `json:"amount_total"`
			Currency      string `json:"currency"`
		}
		if err := json.Unmarshal(msg.Body, &payload); err != nil {
			logrus.Errorf("malformed order event payload: %v", err)
			return nil // not retryable, ack and drop
		}
		if payload.CustomerEmail == "" {
			return nil
		}

		body := fmt.Sprintf(
			"Thank you for your order!\n\nOrder ID: %s\nTotal: %.2f %s\n\nWe will let you know as soon as it ships.\n",
			payload.OrderID, float64(payload.AmountTotal)/100, payload.Currency)
		if err := mail.Send([]string{payload.CustomerEmail}, "Order Confirmation - Spirit Beads", body); err != nil {
			logrus.Warnf("failed to send confirmation email for order %s: %v", payload.OrderID, err)
		}
		return nil
	}
}
