package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"dashboard-cache/internal/handlers"
	"dashboard-cache/internal/server"
)

// RunServer builds the HTTP surface and returns the server ready to start
func (app *App) RunServer() (*server.Server, http.Handler) {
	h := handlers.New(app.Cache, app.WarmLoader, app.Logger)

	router := mux.NewRouter()
	SetupRoutes(router, h)

	srv := server.New(router, app.Config.Port)
	return srv, router
}
