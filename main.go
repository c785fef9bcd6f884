package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	analyticsControllers "github.com/orderstack/checkout-api/controllers/analytics"
	orderControllers "github.com/orderstack/checkout-api/controllers/order"
	paymentControllers "github.com/orderstack/checkout-api/controllers/payment"
	"github.com/orderstack/checkout-api/events"
	"github.com/orderstack/checkout-api/metrics"
	"github.com/orderstack/checkout-api/models"
	"github.com/orderstack/checkout-api/routes"
)

func main() {
	log.Println("✅ Starting checkout API...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Event publisher: kafka when brokers are configured, no-op otherwise
	var publisher events.Publisher = events.Noop{}
	if kp := events.NewKafkaPublisher(os.Getenv("KAFKA_BROKERS"), eventTopic()); kp != nil {
		log.Println("✅ Kafka order-event publisher enabled")
		publisher = kp
	}
	defer publisher.Close()

	// Payment processor client
	processor, err := paymentControllers.NewStripeClientFromEnv()
	if err != nil {
		log.Fatalf("❌ Payment processor config: %v", err)
	}

	// Services
	coreMetrics := metrics.New(nil)
	feed := orderControllers.NewFeed()
	orderSvc := orderControllers.NewService(db, publisher, coreMetrics, feed)
	paymentSvc := paymentControllers.NewService(db, orderSvc, processor, publisher, coreMetrics, feed)
	analyticsSvc := analyticsControllers.NewService(db)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:        db,
		Orders:    orderSvc,
		Payments:  paymentSvc,
		Analytics: analyticsSvc,
		Feed:      feed,
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

func eventTopic() string {
	if topic := os.Getenv("KAFKA_ORDER_TOPIC"); topic != "" {
		return topic
	}
	return "order-events"
}
