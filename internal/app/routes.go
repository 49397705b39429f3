package app

import (
	"github.com/gorilla/mux"

	"dashboard-cache/internal/handlers"
	"dashboard-cache/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers) {
	router.Use(middleware.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Entry operations
	api.HandleFunc("/cache/{key}", h.GetEntry).Methods("GET")
	api.HandleFunc("/cache/{key}", h.SetEntry).Methods("PUT")
	api.HandleFunc("/cache/{key}", h.DeleteEntry).Methods("DELETE")

	// Bulk operations
	api.HandleFunc("/invalidate", h.InvalidatePattern).Methods("POST")
	api.HandleFunc("/warm", h.WarmCache).Methods("POST")

	// Introspection
	api.HandleFunc("/metrics", h.GetMetrics).Methods("GET")
}
