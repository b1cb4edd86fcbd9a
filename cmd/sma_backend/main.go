package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/esmaelhussen/stock-managment-api/cmd/docs"
	"github.com/esmaelhussen/stock-managment-api/internal/core/services"
	"github.com/esmaelhussen/stock-managment-api/internal/handlers"
	"github.com/esmaelhussen/stock-managment-api/internal/middleware"
	"github.com/esmaelhussen/stock-managment-api/internal/platform/cache"
	"github.com/esmaelhussen/stock-managment-api/internal/repositories/database/pgsql"
	"github.com/esmaelhussen/stock-managment-api/pkg/config"
	"github.com/esmaelhussen/stock-managment-api/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Stock Managment API
// @version 1.0
// @description Sales transaction and credit payment backend for the stock management dashboard.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		os.Exit(1)
	}

	// Stock snapshot cache is optional; without Redis the gate reads the DB.
	var stockCache *cache.StockCache
	if cfg.RedisAddr != "" {
		stockCache = cache.NewStockCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StockCacheTTL)
		if err := stockCache.Ping(context.Background()); err != nil {
			logger.Warn("Redis unreachable, continuing without stock cache", slog.String("error", err.Error()))
			stockCache = nil
		} else {
			defer stockCache.Close()
			logger.Info("Redis stock cache connected.")
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.GET("/health", handlers.GetHome)

	// Public routes (login)
	authService := services.NewAuthService(pgsql.NewUserRepository(dbPool), cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	authHandler := handlers.NewAuthHandler(authService)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	setupAPIV1Routes(r, cfg, dbPool, stockCache)
	setupSwaggerRoutes(r, cfg)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a standard sql.DB connection for migrations using the pgx stdlib driver
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, stockCache *cache.StockCache) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	commitLimiter := limiter.New(memorystore.NewStore(), limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  cfg.RateLimitRequests,
	})

	addSalesAPI(v1, dbPool, stockCache, commitLimiter)
	addStockAPI(v1, dbPool, stockCache)
}

func addSalesAPI(v1 *gin.RouterGroup, dbPool *pgxpool.Pool, stockCache *cache.StockCache, commitLimiter *limiter.Limiter) {
	saleRepo := pgsql.NewSaleRepository(dbPool)
	pricing := services.NewPricingService(pgsql.NewProductRepository(dbPool), pgsql.NewStockRepository(dbPool))

	var invalidator services.StockCacheInvalidator
	if stockCache != nil {
		invalidator = stockCache
	}
	saleService := services.NewSaleService(saleRepo, pricing, invalidator)
	creditService := services.NewCreditService(saleRepo)
	saleHandler := handlers.NewSaleHandler(saleService, creditService)

	sales := v1.Group("/sales-transactions")
	{
		sales.POST("", middleware.RateLimit(commitLimiter), saleHandler.CreateSale)
		sales.GET("", saleHandler.ListSales)
		sales.POST("/check-overdue", saleHandler.CheckOverdue)
		sales.GET("/:saleID", saleHandler.GetSale)
		sales.POST("/:saleID/credit-payment", middleware.RateLimit(commitLimiter), saleHandler.ApplyCreditPayment)
	}
}

func addStockAPI(v1 *gin.RouterGroup, dbPool *pgxpool.Pool, stockCache *cache.StockCache) {
	stockService := services.NewStockService(pgsql.NewStockRepository(dbPool), stockCache)
	stockHandler := handlers.NewStockHandler(stockService)

	stock := v1.Group("/stock-transactions")
	stock.GET("/all-stock", stockHandler.AllStock)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
