package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/grupomacor/vigilancia/internal/models"
	"github.com/grupomacor/vigilancia/internal/utils"
)

// login establishes the session for an operator the login screen already
// validated against the coordination office, and issues the facade token.
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var u models.User
	if err := json.NewDecoder(req.Body).Decode(&u); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if u.Username == "" || u.Name == "" {
		respondError(w, http.StatusBadRequest, "username and name are required")
		return
	}

	r.app.Login(u)

	token, err := utils.IssueToken(u, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

// logout tears the session down
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	r.app.Logout()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Sessão finalizada"})
}
