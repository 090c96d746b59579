package router

import (
	"net/http"

	"mc-exchange-api/internal/handler"
	"mc-exchange-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler            *handler.Handler
	ExchangeHandler    *handler.ExchangeHandler
	RegionHandler      *handler.RegionHandler
	ShopHandler        *handler.ShopHandler
	AdminHandler       *handler.AdminHandler
	AuthMiddleware     func(http.Handler) http.Handler
	RelayKeyMiddleware func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
		r.Get("/api/health", cfg.Handler.Health)
	}

	if cfg.ExchangeHandler != nil {
		// Ingestion is gated by the relay API key, not user auth.
		r.Group(func(r chi.Router) {
			if cfg.RelayKeyMiddleware != nil {
				r.Use(cfg.RelayKeyMiddleware)
			}
			r.Post("/api/exchanges", cfg.ExchangeHandler.Ingest)
		})

		r.Get("/api/exchanges/shop", cfg.ExchangeHandler.ListByShop)
		r.Get("/export.csv", cfg.ExchangeHandler.ExportCSV)
		r.Get("/export.json", cfg.ExchangeHandler.ExportJSON)
	}

	if cfg.RegionHandler != nil {
		r.Get("/api/regions", cfg.RegionHandler.List)
		r.Get("/api/regions/{slug}/shops", cfg.RegionHandler.Shops)
	}

	if cfg.AdminHandler != nil {
		r.Get("/api/users/{id}", cfg.AdminHandler.UserName)
	}

	// AUTHENTICATED routes (use Group to apply auth middleware only to these)
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		// Owner endpoints: any authenticated user, ownership checked per
		// region in the service.
		if cfg.ShopHandler != nil {
			r.Route("/api/owner", func(r chi.Router) {
				r.Get("/regions", cfg.ShopHandler.OwnerRegions)
				r.Route("/regions/{id}/shops", func(r chi.Router) {
					r.Post("/", cfg.ShopHandler.Create)
					r.Patch("/", cfg.ShopHandler.Update)
					r.Delete("/{shopID}", cfg.ShopHandler.Delete)
				})
			})
		}

		// Admin endpoints
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			if cfg.ExchangeHandler != nil {
				r.Get("/exchanges", cfg.ExchangeHandler.List)
				r.Get("/stats", cfg.ExchangeHandler.Stats)
			}

			if cfg.AdminHandler != nil {
				r.Post("/regions", cfg.AdminHandler.CreateRegion)
				r.Patch("/regions/{id}", cfg.AdminHandler.UpdateRegion)
				r.Delete("/regions/{id}", cfg.AdminHandler.DeleteRegion)
				r.Get("/users", cfg.AdminHandler.ListUsers)
				r.Patch("/users/{id}", cfg.AdminHandler.SetRole)
			}
		})
	})

	return r
}
