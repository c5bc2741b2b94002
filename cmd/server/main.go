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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"rakitin/internal/activity"
	"rakitin/internal/cache"
	"rakitin/internal/config"
	"rakitin/internal/dashboard"
	"rakitin/internal/database"
	"rakitin/internal/handlers"
	"rakitin/internal/logging"
	"rakitin/internal/repository"
	"rakitin/internal/router"
	"rakitin/internal/services"
	"rakitin/internal/session"
	"rakitin/internal/store"
	"rakitin/internal/supabase"
	"rakitin/internal/view"
)

const (
	eventBuffer     = 256
	shutdownTimeout = 5 * time.Second
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logger.Fatal("failed to initialize supabase client", zap.Error(err))
	}

	docs, closeStore := openStore(ctx, cfg, supabaseClient, logger)
	defer closeStore()

	var revocations session.Revocations
	if cfg.RedisAddr != "" {
		redisClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()
		revocations = session.NewCacheRevocations(redisClient)
		logger.Info("session revocation enabled", zap.String("redis", cfg.RedisAddr))
	}

	var events activity.Publisher = activity.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := activity.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, eventBuffer, logger)
		// Close drains the queue after in-flight requests finish.
		publisher.Start()
		defer publisher.Close()
		events = publisher
		logger.Info("activity events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	var archiver services.Archiver
	if cfg.SupabaseStorageBucket != "" {
		archiver = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	}

	renderer, err := view.New()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	repos := repository.New(docs, logger)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure, revocations, logger)
	aggregator := dashboard.NewAggregator(repos.Stock, repos.Orders, logger)
	designService := services.NewDesignService(repos.Designs, archiver, logger)

	engine := router.New(router.Handlers{
		Auth:    handlers.NewAuthHandler(supabase.NewIdentityProvider(supabaseClient), repos.Users, sessions, events, logger),
		Pages:   handlers.NewPageHandler(repos, aggregator, logger),
		Stock:   handlers.NewStockHandler(repos.Stock, events, logger),
		Tools:   handlers.NewToolHandler(repos.Tools, events, logger),
		Designs: handlers.NewDesignHandler(designService, events, logger),
		Orders:  handlers.NewOrderHandler(repos.Orders, events, logger),
		Reports: handlers.NewReportHandler(repos.Stock, repos.Tools, logger),
	}, sessions, renderer, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore selects the document store backend. The postgres driver applies
// pending migrations before serving.
func openStore(ctx context.Context, cfg *config.Config, client *supabase.Client, logger *zap.Logger) (store.Store, func()) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.NewMigrator(db.DB(), logger).Run(ctx); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		return db, func() { db.Close() }
	case config.StoreDriverMemory:
		logger.Warn("using in-memory document store; data is lost on restart")
		return store.NewMemoryStore(), func() {}
	default:
		docs, err := supabase.NewDocumentStore(client)
		if err != nil {
			logger.Fatal("failed to initialize document store", zap.Error(err))
		}
		return docs, func() {}
	}
}
