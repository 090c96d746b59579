package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mc-exchange-api/internal/cache"
	"mc-exchange-api/internal/config"
	"mc-exchange-api/internal/handler"
	"mc-exchange-api/internal/identity"
	"mc-exchange-api/internal/middleware"
	"mc-exchange-api/internal/model"
	"mc-exchange-api/internal/repository"
	"mc-exchange-api/internal/router"
	"mc-exchange-api/internal/service"
	"mc-exchange-api/internal/spatial"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting MC Exchange API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize event and catalog stores based on config
	var (
		exchangeRepo repository.ExchangeRepository
		catalogRepo  repository.CatalogRepository
	)
	switch cfg.StoreDB.Type {
	case "postgres", "postgresql":
		pgExchange, err := repository.NewPostgresExchangeRepository(cfg.StoreDB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL exchange store: %v", err)
		}
		defer pgExchange.Close()
		exchangeRepo = pgExchange

		pgCatalog, err := repository.NewPostgresCatalogRepository(cfg.StoreDB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL catalog store: %v", err)
		}
		defer pgCatalog.Close()
		catalogRepo = pgCatalog
		log.Println("PostgreSQL store initialized")
	default: // sqlite
		sqliteExchange, err := repository.NewSQLiteExchangeRepository(cfg.StoreDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite exchange store: %v", err)
		}
		defer sqliteExchange.Close()
		exchangeRepo = sqliteExchange

		sqliteCatalog, err := repository.NewSQLiteCatalogRepository(cfg.StoreDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite catalog store: %v", err)
		}
		defer sqliteCatalog.Close()
		catalogRepo = sqliteCatalog
		log.Println("SQLite store initialized")
	}

	// Initialize MySQL connection for the accounts database (optional)
	var userRepo repository.UserRepository
	if cfg.Accounts.Enabled {
		mysqlDB, err := sql.Open("mysql", cfg.Accounts.DSN())
		if err != nil {
			log.Printf("Warning: MySQL connection failed: %v", err)
		} else {
			mysqlDB.SetMaxOpenConns(10)
			mysqlDB.SetMaxIdleConns(5)
			mysqlDB.SetConnMaxLifetime(5 * time.Minute)

			if err := mysqlDB.Ping(); err != nil {
				log.Printf("Warning: MySQL ping failed: %v", err)
				mysqlDB.Close()
			} else {
				if err := repository.CreateUserTable(mysqlDB); err != nil {
					log.Printf("Warning: accounts table setup failed: %v", err)
				}
				userRepo = repository.NewMySQLUserRepository(mysqlDB)
				defer mysqlDB.Close()
				log.Println("MySQL accounts repository initialized")
			}
		}
	}

	// Initialize cache: Redis when configured, in-memory otherwise
	var appCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
		} else {
			appCache = redisCache
			log.Println("Redis cache initialized")
		}
	}
	if appCache == nil {
		appCache = cache.NewMemoryCache()
		log.Println("Memory cache initialized")
	}
	defer appCache.Close()

	// Initialize the identity provider client (optional: without it, the
	// authenticated surface stays closed)
	var verifier service.TokenVerifier
	if cfg.Identity.BaseURL != "" {
		verifier = identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.ServiceKey)
		log.Println("Identity client initialized")
	} else {
		log.Println("Warning: no identity provider configured, authenticated endpoints disabled")
	}

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, appCache)
	resolver := spatial.NewResolver(catalogService)
	exchangeService := service.NewExchangeService(exchangeRepo, resolver)

	var authService *service.AuthService
	if verifier != nil {
		authService = service.NewAuthService(verifier, userRepo, appCache)
	}

	// Start the retention sweeper
	sweeper := service.NewRetentionSweeper(exchangeRepo, service.RetentionConfig{
		MaxAge:        cfg.Retention.MaxAge,
		SweepInterval: cfg.Retention.SweepInterval,
	})
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Version)
	exchangeHandler := handler.NewExchangeHandler(exchangeService)
	regionHandler := handler.NewRegionHandler(catalogService)
	shopHandler := handler.NewShopHandler(catalogService)

	var adminHandler *handler.AdminHandler
	if authService != nil {
		adminHandler = handler.NewAdminHandler(catalogService, authService)
	}

	// Create auth middleware with injected dependencies (NO GLOBALS!)
	var authMiddleware func(http.Handler) http.Handler
	if authService != nil {
		authMiddleware = middleware.NewAuthMiddleware(authService)
	} else {
		authMiddleware = middleware.NewAuthMiddleware(noAuth{})
	}

	// Create router
	r := router.New(router.Config{
		Handler:            healthHandler,
		ExchangeHandler:    exchangeHandler,
		RegionHandler:      regionHandler,
		ShopHandler:        shopHandler,
		AdminHandler:       adminHandler,
		AuthMiddleware:     authMiddleware,
		RelayKeyMiddleware: middleware.NewRelayKeyMiddleware(cfg.Relay.APIKeys),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}

// noAuth rejects every token. Used when no identity provider is configured
// so the authenticated route groups stay mounted but closed.
type noAuth struct{}

func (noAuth) Authenticate(ctx context.Context, token string) (*model.AuthUser, error) {
	return nil, fmt.Errorf("no identity provider configured")
}
