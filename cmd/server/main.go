package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/ims/backend/internal/application/catalog"
	identityapp "github.com/ims/backend/internal/application/identity"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	locationapp "github.com/ims/backend/internal/application/location"
	partnerapp "github.com/ims/backend/internal/application/partner"
	purchasingapp "github.com/ims/backend/internal/application/purchasing"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/infrastructure/event"
	"github.com/ims/backend/internal/infrastructure/logger"
	"github.com/ims/backend/internal/infrastructure/persistence"
	"github.com/ims/backend/internal/infrastructure/telemetry"
	"github.com/ims/backend/internal/interfaces/http/handler"
	"github.com/ims/backend/internal/interfaces/http/middleware"
	"github.com/ims/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting inventory backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Token blacklist: Redis when configured, in-memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	jwtService := auth.NewJWTService(cfg.JWT, blacklist)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Transaction scopes
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	purchasingScope := persistence.NewGormPurchasingTransactionScope(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Business metrics
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		log.Fatal("Failed to create metrics", zap.Error(err))
	}

	// Application services
	ledgerService := inventoryapp.NewLedgerService(ledgerScope, stockRepo, movementRepo, eventBus, metrics, log)
	productService := catalogapp.NewProductService(productRepo, stockRepo, log)
	locationService := locationapp.NewLocationService(locationRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, orderRepo, log)
	orderService := purchasingapp.NewPurchaseOrderService(
		purchasingScope, orderRepo, productRepo, locationRepo,
		ledgerService, eventBus, metrics, log,
	)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	accessService := identityapp.NewAccessService(userRepo, locationRepo)

	// HTTP engine and middleware
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS())

	r := router.New(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(middleware.JWTConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
		},
		Logger: log,
	}))

	// Handlers
	productHandler := handler.NewProductHandler(productService)
	locationHandler := handler.NewLocationHandler(locationService)
	supplierHandler := handler.NewSupplierHandler(supplierService, orderService)
	inventoryHandler := handler.NewInventoryHandler(ledgerService, accessService)
	orderHandler := handler.NewPurchaseOrderHandler(orderService, accessService)
	authHandler := handler.NewAuthHandler(authService, accessService)

	adminOnly := middleware.AdminOnly()
	r.Register(productHandler).
		Register(supplierHandler).
		Register(inventoryHandler).
		Register(orderHandler).
		Register(router.RegistrarFunc(func(rg *gin.RouterGroup) {
			locationHandler.RegisterRoutes(rg, adminOnly)
		})).
		Register(router.RegistrarFunc(func(rg *gin.RouterGroup) {
			authHandler.RegisterRoutes(rg, adminOnly)
		}))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
