package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/grupomacor/vigilancia/internal/models"
)

// stateResponse is the composed snapshot the UI renders from
type stateResponse struct {
	User          *models.User             `json:"user"`
	Submissions   []models.Submission      `json:"submissions"`
	Syncing       bool                     `json:"syncing"`
	Notifications []models.Notification    `json:"notifications"`
	ActiveAlert   *models.BroadcastMessage `json:"activeAlert"`
	IsDark        bool                     `json:"isDark"`
}

// getState returns the whole composed client state in one call
func (r *Router) getState(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, stateResponse{
		User:          r.app.Session(),
		Submissions:   r.app.Submissions(),
		Syncing:       r.app.Syncing(),
		Notifications: r.app.Notifications(),
		ActiveAlert:   r.app.ActiveAlert(),
		IsDark:        r.app.DarkTheme(),
	})
}

// listSubmissions returns the current normalized window
func (r *Router) listSubmissions(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": r.app.Submissions(),
		"syncing":     r.app.Syncing(),
	})
}

// getSubmission returns one record of the window by id
func (r *Router) getSubmission(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	for _, sub := range r.app.Submissions() {
		if sub.ID == id {
			respondJSON(w, http.StatusOK, sub)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Registro não encontrado")
}

// refresh triggers both user-initiated refreshes and returns immediately
func (r *Router) refresh(w http.ResponseWriter, req *http.Request) {
	r.app.RefreshSubmissions()
	r.app.RefreshAlert()
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

// getAlert returns the active broadcast alert, if any
func (r *Router) getAlert(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"activeAlert": r.app.ActiveAlert(),
	})
}

// toggleTheme flips and persists the theme preference
func (r *Router) toggleTheme(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{
		"isDark": r.app.ToggleTheme(),
	})
}

// pushNotification queues a notification on behalf of the view layer
func (r *Router) pushNotification(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Message string                  `json:"message"`
		Type    models.NotificationType `json:"type"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	id := r.app.Notify(body.Message, body.Type)
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// dismissNotification removes a notification early
func (r *Router) dismissNotification(w http.ResponseWriter, req *http.Request) {
	r.app.Dismiss(mux.Vars(req)["id"])
	respondJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// getChecklist returns the fixed inspection catalog
func (r *Router) getChecklist(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"itens":  models.ItensVerificacao,
		"postos": models.ListaPostos,
	})
}
