package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-backoffice/config"
	"shop-backoffice/internal/api"
	"shop-backoffice/internal/broker"
	"shop-backoffice/internal/redisclient"
	"shop-backoffice/internal/service"
	"shop-backoffice/internal/store"
	"shop-backoffice/internal/util"
	"shop-backoffice/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting shop backoffice")

	tp, err := util.InitTracer("shop-backoffice", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// Sessions fall back to an in-process store when Redis is unreachable.
	// Sessions then do not survive a restart, which beats not starting.
	var sessionStore service.SessionStore
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, using in-memory session store: %v", err)
		sessionStore = service.NewMemorySessionStore()
	} else {
		defer redisClient.Close()
		sessionStore = redisClient
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	shippingCost, err := decimal.NewFromString(cfg.Business.ShippingCost)
	if err != nil {
		log.Fatalf("Invalid SHIPPING_COST: %v", err)
	}

	audit := service.NewAuditRecorder(producer)
	pricing := service.NewPricingResolver(db)
	authenticator := service.NewAuthenticator(db, db, cfg.Auth.AdminTokenSecret)
	sessions := service.NewSessionGuard(sessionStore,
		time.Duration(cfg.Business.SessionTimeoutSeconds)*time.Second)
	catalogService := service.NewCatalogService(db, pricing)
	promotionService := service.NewPromotionService(db, db, audit)
	reviewService := service.NewReviewService(db, db, db)
	inventoryLedger := service.NewInventoryLedger(db, producer, audit)
	cartService := service.NewCartService(db, db, db, pricing, producer, audit, shippingCost)
	orderService := service.NewOrderService(db, db, pricing, producer, audit)
	statsService := service.NewStatsService(db)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	auditWorker := worker.NewAuditWorker(consumer, db)
	go func() {
		if err := auditWorker.Start(workerCtx); err != nil {
			log.Printf("Audit worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(
		authenticator,
		sessions,
		catalogService,
		promotionService,
		reviewService,
		inventoryLedger,
		cartService,
		orderService,
		statsService,
		db,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	auditWorker.Stop()

	log.Println("Server exited")
}
