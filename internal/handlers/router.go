package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/grupomacor/vigilancia/internal/config"
	"github.com/grupomacor/vigilancia/internal/core"
	"github.com/grupomacor/vigilancia/internal/middleware"
	ws "github.com/grupomacor/vigilancia/internal/websocket"
)

// Router wraps the mux router, the application core and the push hub
type Router struct {
	*mux.Router
	app *core.App
	cfg *config.Config
	hub *ws.Hub
}

// NewRouter creates the local HTTP facade the UI webview talks to
func NewRouter(app *core.App, cfg *config.Config, hub *ws.Hub) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		app:    app,
		cfg:    cfg,
		hub:    hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Push channel for state-change events
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(hub, w, req)
	})

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")

	// View-facing surface (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))
	api.HandleFunc("/logout", r.logout).Methods("POST")
	api.HandleFunc("/state", r.getState).Methods("GET")
	api.HandleFunc("/submissions", r.listSubmissions).Methods("GET")
	api.HandleFunc("/submissions/{id}", r.getSubmission).Methods("GET")
	api.HandleFunc("/refresh", r.refresh).Methods("POST")
	api.HandleFunc("/alert", r.getAlert).Methods("GET")
	api.HandleFunc("/theme/toggle", r.toggleTheme).Methods("POST")
	api.HandleFunc("/notifications", r.pushNotification).Methods("POST")
	api.HandleFunc("/notifications/{id}", r.dismissNotification).Methods("DELETE")
	api.HandleFunc("/checklist", r.getChecklist).Methods("GET")

	// Static files for the bundled UI
	if dir := os.Getenv("FRONTEND_DIR"); dir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
	}

	return r
}

// healthCheck returns the health status of the facade
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
