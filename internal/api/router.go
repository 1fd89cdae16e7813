package api

import (
	"log/slog"
	"net/http"

	"github.com/dom/asset-vault-api/internal/api/handlers"
	"github.com/dom/asset-vault-api/internal/api/middleware"
	"github.com/dom/asset-vault-api/internal/config"
	"github.com/dom/asset-vault-api/internal/repository"
	"github.com/dom/asset-vault-api/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, repos *repository.Repositories, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	assetHandler := handlers.NewAssetHandler(services.Asset)
	adminHandler := handlers.NewAdminHandler(repos.User)

	// Public auth routes
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(services.Auth))

		r.Get("/user", authHandler.Me)

		// Logout answers GET as well; some clients still follow the old
		// link-style flow.
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
		r.Post("/logout-all", authHandler.LogoutAll)

		// Asset routes
		r.Route("/assets", func(r chi.Router) {
			r.Get("/", assetHandler.List)
			r.Post("/", assetHandler.Create)
			r.Get("/{id}", assetHandler.Get)
			r.Put("/{id}", assetHandler.Update)
			r.Delete("/{id}", assetHandler.Delete)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.AdminEmails))
			r.Get("/users", adminHandler.ListUsers)
		})
	})

	return r
}
