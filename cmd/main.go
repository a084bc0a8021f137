package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shop-service/internal/dto"
	"shop-service/internal/handler"
	mid "shop-service/internal/middleware"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/pkg/cache"
	"shop-service/pkg/config"
	"shop-service/pkg/database"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"
	"shop-service/pkg/oauth"
	"shop-service/pkg/storage"
	"shop-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting shop-service", appConfig.LogConfig()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Prometheus metrics
	metrics := prometheus.NewMetrics(prom.DefaultRegisterer, appConfig.Metrics.Prefix)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(appConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if appConfig.DB.Seed {
		if err := database.Seed(ctx, db, log); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
	}
	log.Info("Database connection established")

	// Product list cache is optional
	var listCache cache.Cache = cache.Noop{}
	if appConfig.Redis.Addr != "" {
		client, err := cache.SetupRedisConnection(ctx, appConfig.Redis)
		if err != nil {
			log.Warn("Redis unavailable, product list cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			listCache = cache.NewRedisCache(client)
			log.Info("Redis connection established", zap.String("addr", appConfig.Redis.Addr))
		}
	}

	files, err := storage.NewLocalStorage(appConfig.Upload)
	if err != nil {
		log.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	jwt := jwtutil.NewJWTUtil(appConfig.JWT)

	var provider service.OAuthProvider
	if appConfig.OAuth.Enabled() {
		provider = oauth.NewGoogleProvider(appConfig.OAuth)
		log.Info("Google login enabled")
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	sizeRepo := repository.NewSizeRepository(db)

	authService := service.NewAuthService(userRepo, jwt, provider, metrics, log)
	productService := service.NewProductService(productRepo, catalogRepo, files, listCache, appConfig.Redis.ListTTL, metrics, log)

	handlers := &handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, appConfig.Cookie, jwt.RefreshTTL()),
		User:     handler.NewUserHandler(service.NewUserService(userRepo, log), authService),
		Product:  handler.NewProductHandler(productService),
		Photo:    handler.NewPhotoHandler(service.NewPhotoService(productRepo, files, productService.InvalidateList, log), appConfig.Upload.MaxFiles),
		Catalog:  handler.NewCatalogHandler(service.NewCatalogService(catalogRepo, sizeRepo, log)),
		Cart:     handler.NewCartHandler(service.NewCartService(repository.NewCartRepository(db), productRepo, sizeRepo, metrics, log)),
		Wishlist: handler.NewWishlistHandler(service.NewWishlistService(repository.NewWishlistRepository(db), productRepo, metrics, log)),
		Order:    handler.NewOrderHandler(service.NewOrderService(repository.NewOrderRepository(db))),
	}

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = dto.NewValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("50M"))
	e.Use(mid.RequestIDMiddleware(log))
	e.Use(logger.Middleware(log))
	e.Use(mid.MetricsMiddleware(metrics))

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static(appConfig.Upload.PublicPrefix, files.Dir())

	handler.RegisterRoutes(e, handlers, jwt)

	// Start server
	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server stopped")
}
