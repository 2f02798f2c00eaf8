package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskledger/taskledger-api/internal/api"
	apiMiddleware "github.com/taskledger/taskledger-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.logger)
	itemHandler := api.NewItemHandler(app.itemService, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.dashboardService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryService, app.logger)
	auditHandler := api.NewAuditHandler(app.auditService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Item endpoints
			r.Post("/items", itemHandler.Create)
			r.Get("/items", itemHandler.List)
			r.Post("/items/bulk-delete", itemHandler.BulkDelete)
			r.Get("/items/{id}", itemHandler.Get)
			r.Put("/items/{id}", itemHandler.Update)
			r.Delete("/items/{id}", itemHandler.Delete)
			r.Post("/items/{id}/toggle", itemHandler.Toggle)

			// Attachment endpoints, present only when a blob store is
			// configured
			if app.attachmentService != nil {
				attachmentHandler := api.NewAttachmentHandler(app.attachmentService, app.logger)
				r.Post("/items/{id}/attachments", attachmentHandler.Create)
				r.Get("/items/{id}/attachments", attachmentHandler.List)
				r.Get("/items/{id}/attachments/{attachmentID}/url", attachmentHandler.DownloadURL)
				r.Delete("/items/{id}/attachments/{attachmentID}", attachmentHandler.Delete)
			}

			// Dashboard
			r.Get("/dashboard", dashboardHandler.Get)

			// Categories
			r.Get("/categories", categoryHandler.List)

			// Admin-only endpoints
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)
				r.Post("/categories", categoryHandler.Create)
				r.Get("/audit-logs", auditHandler.List)
				r.Post("/items/samples", itemHandler.SeedSamples)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
