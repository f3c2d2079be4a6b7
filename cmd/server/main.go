package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/billmate/backend/internal/application/billing"
	"github.com/billmate/backend/internal/infrastructure/cache"
	"github.com/billmate/backend/internal/infrastructure/config"
	"github.com/billmate/backend/internal/infrastructure/logger"
	"github.com/billmate/backend/internal/infrastructure/persistence"
	"github.com/billmate/backend/internal/interfaces/http/handler"
	"github.com/billmate/backend/internal/interfaces/http/middleware"
	"github.com/billmate/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BillMate Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	salesBillRepo := persistence.NewGormSalesBillRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionBillRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db)

	// Summary cache: Redis when enabled, otherwise in-process
	var summaryCache cache.SummaryCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisSummaryCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		summaryCache = redisCache
		log.Info("Summary cache backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		summaryCache = cache.NewInMemorySummaryCache()
		log.Info("Summary cache running in-process")
	}

	// Initialize application services
	reportService := billingapp.NewReportService(salesBillRepo, collectionRepo, summaryCache, log)
	customerService := billingapp.NewCustomerService(customerRepo, salesBillRepo)
	salesBillService := billingapp.NewSalesBillService(salesBillRepo, collectionRepo, customerRepo, uow, reportService, log)
	collectionService := billingapp.NewCollectionService(collectionRepo, uow, reportService, log)

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	salesBillHandler := handler.NewSalesBillHandler(salesBillService)
	collectionHandler := handler.NewCollectionHandler(collectionService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Configure validator to report JSON field names
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(customerHandler).
		Register(salesBillHandler).
		Register(collectionHandler).
		Register(reportHandler).
		Register(systemHandler)
	r.Setup()

	// Background sweep flags overdue bills on a fixed interval
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Sweep.Enabled {
		go runOverdueSweep(sweepCtx, salesBillService, cfg.Sweep.Interval, log)
		log.Info("Overdue sweep enabled", zap.Duration("interval", cfg.Sweep.Interval))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runOverdueSweep periodically flags bills past their due date. One pass
// runs at startup so a restarted instance catches up immediately.
func runOverdueSweep(ctx context.Context, bills *billingapp.SalesBillService, interval time.Duration, log *zap.Logger) {
	sweep := func() {
		flagged, err := bills.SweepOverdue(ctx, time.Now())
		if err != nil {
			log.Error("Overdue sweep failed", zap.Error(err))
			return
		}
		if flagged > 0 {
			log.Info("Overdue sweep completed", zap.Int("flagged", flagged))
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
