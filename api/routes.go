package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewAdminRouter serves the gateway's own operational endpoints, as
// opposed to the proxied domain services.
func NewAdminRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/admin/sessions", SessionsHandler).Methods("GET")
	router.HandleFunc("/admin/sessions/{user_id}", SessionByUserHandler).Methods("GET")
	router.HandleFunc("/admin/heartbeat", HeartbeatHandler).Methods("GET")

	return router
}

func SessionsHandler(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		http.Error(w, "Auth service unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authService.GetActiveSessions())
}

func SessionByUserHandler(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		http.Error(w, "Auth service unavailable", http.StatusInternalServerError)
		return
	}
	userID := mux.Vars(r)["user_id"]
	for _, s := range authService.GetActiveSessions() {
		if s.UserID == userID {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(s)
			return
		}
	}
	http.Error(w, "no active session for user", http.StatusNotFound)
}

func HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
