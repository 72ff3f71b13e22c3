package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/tinttrack/inventory-service/config"
	categoryHandler "github.com/tinttrack/inventory-service/internal/category/handler"
	categoryRepository "github.com/tinttrack/inventory-service/internal/category/repository"
	categoryUseCase "github.com/tinttrack/inventory-service/internal/category/usecase"
	"github.com/tinttrack/inventory-service/internal/entitlement"
	"github.com/tinttrack/inventory-service/internal/inventory"
	inventoryHandler "github.com/tinttrack/inventory-service/internal/inventory/handler"
	inventoryRepository "github.com/tinttrack/inventory-service/internal/inventory/repository"
	inventoryUseCase "github.com/tinttrack/inventory-service/internal/inventory/usecase"
	"github.com/tinttrack/inventory-service/internal/replication"
	shoppingHandler "github.com/tinttrack/inventory-service/internal/shopping/handler"
	shoppingRepository "github.com/tinttrack/inventory-service/internal/shopping/repository"
	shoppingUseCase "github.com/tinttrack/inventory-service/internal/shopping/usecase"
	visitHandler "github.com/tinttrack/inventory-service/internal/visit/handler"
	visitRepository "github.com/tinttrack/inventory-service/internal/visit/repository"
	visitUseCase "github.com/tinttrack/inventory-service/internal/visit/usecase"
	"github.com/tinttrack/inventory-service/pkg/broker"
	"github.com/tinttrack/inventory-service/pkg/cache"
	"github.com/tinttrack/inventory-service/pkg/database"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"github.com/tinttrack/inventory-service/pkg/search"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; containers inject real environment variables.
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	log := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv != "production",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer log.Sync()

	log.Info("starting inventory service", zap.String("env", cfg.Server.AppEnv))

	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	deviceID := cfg.Replication.DeviceID
	if deviceID == "" {
		deviceID = uuid.New().String()
		log.Warn("REPLICATION_DEVICE_ID not set, generated ephemeral device id",
			zap.String("device_id", deviceID))
	}

	var publisher inventory.Publisher
	var producer *broker.KafkaProducer
	var consumer *broker.KafkaConsumer
	if cfg.Replication.Enabled {
		brokerCfg := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		producer = broker.NewProducer(brokerCfg)
		defer producer.Close()
		publisher = producer

		consumer = broker.NewConsumer(brokerCfg)
		defer consumer.Close()
	}

	// Search is optional: a dead cluster degrades /items/search, nothing else.
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		log.Warn("elasticsearch unavailable, search disabled", zap.Error(err))
		esClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := inventoryUseCase.EnsureSearchIndex(ctx, esClient); err != nil {
		log.Warn("failed to ensure search index", zap.Error(err))
	}

	itemRepo := inventoryRepository.NewPGRepository(db)
	categoryRepo := categoryRepository.NewPGRepository(db)
	visitRepo := visitRepository.NewPGRepository(db)
	shoppingRepo := shoppingRepository.NewPGRepository(db)

	gate := entitlement.NewConfigGate(cfg.Entitlement.SubscriptionActive, cfg.Entitlement.DebugBypass)

	itemUC := inventoryUseCase.NewInventoryUseCase(itemRepo, redisClient, publisher, esClient, deviceID, log)
	categoryUC := categoryUseCase.NewCategoryUseCase(categoryRepo, log)
	visitUC := visitUseCase.NewVisitUseCase(visitRepo, itemRepo, gate, redisClient, publisher, deviceID, log)
	shoppingUC := shoppingUseCase.NewShoppingUseCase(shoppingRepo, itemRepo, log)

	if consumer != nil {
		listener := replication.NewListener(consumer, itemUC, deviceID, log)
		go listener.Start(ctx)
	}

	if cfg.Server.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	inventoryHandler.NewInventoryHandler(itemUC, log).RegisterRoutes(v1)
	categoryHandler.NewCategoryHandler(categoryUC, log).RegisterRoutes(v1)
	visitHandler.NewVisitHandler(visitUC, log).RegisterRoutes(v1)
	shoppingHandler.NewShoppingHandler(shoppingUC, log).RegisterRoutes(v1)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
