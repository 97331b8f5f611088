package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v79"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mMahabub/proshopp-api/auth"
	"github.com/mMahabub/proshopp-api/config"
	checkoutController "github.com/mMahabub/proshopp-api/controllers/checkout"
	paymentController "github.com/mMahabub/proshopp-api/controllers/payment"
	"github.com/mMahabub/proshopp-api/events"
	"github.com/mMahabub/proshopp-api/mailer"
	"github.com/mMahabub/proshopp-api/models"
	"github.com/mMahabub/proshopp-api/redisx"
	"github.com/mMahabub/proshopp-api/routes"
)

func main() {
	log.Println("Starting proshopp-api...")

	_ = godotenv.Load()
	cfg := config.Load()

	db := initDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.GuestUser{},
		&models.Product{},
		&models.Category{},
		&models.Admin{},
		&models.Cart{},
		&models.CartItem{},
		&models.GuestCart{},
		&models.GuestCartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	stripe.Key = cfg.StripeSecretKey

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auth.SetSigningKey(cfg.JWTSecret)
	if err := auth.InitFirebase(rootCtx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON); err != nil {
		log.Printf("Firebase init failed, auth endpoints disabled: %v", err)
	}

	rdb := redisx.New(cfg.RedisAddr)

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.ServiceName, 256)
	producer.Start(rootCtx)

	checkout := &checkoutController.Controller{
		DB:             db,
		Redis:          rdb,
		Producer:       producer,
		Cookies:        checkoutController.NewShippingCodec(cfg.CookieSecret),
		PublishableKey: cfg.StripePublishableKey,
	}
	webhook := &paymentController.WebhookHandler{
		DB:            db,
		Redis:         rdb,
		Producer:      producer,
		Mailer:        mailer.New(cfg.ResendAPIKey, cfg.EmailFrom),
		WebhookSecret: cfg.StripeWebhookSecret,
	}

	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20 // 32MB

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded product images
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		log.Fatalf("Failed to create uploads dir: %v", err)
	}
	r.Static("/uploads", cfg.UploadsDir)

	routes.SetupRoutes(r, db, routes.Deps{
		Checkout:    checkout,
		Webhook:     webhook,
		JWTSecret:   cfg.JWTSecret,
		AdminAPIKey: cfg.AdminAPIKey,
	})

	// Expired guest accounts and their carts are swept daily at 03:00.
	go startDailyGuestCleanup(rootCtx, db, 3, 0)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		log.Printf("Server running on port %s...", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	cancel()
	producer.WaitClosed()
	log.Println("Bye.")
}

// initDatabase sets up the GORM DB connection.
func initDatabase(cfg config.Config) *gorm.DB {
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	return db
}

// startDailyGuestCleanup runs auth.CleanupExpiredGuests every day at the
// given local time until ctx is cancelled.
func startDailyGuestCleanup(ctx context.Context, db *gorm.DB, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}

		if err := auth.CleanupExpiredGuests(db); err != nil {
			log.Printf("Guest cleanup failed: %v", err)
		} else {
			log.Println("Expired guest accounts cleaned up")
		}
	}
}
