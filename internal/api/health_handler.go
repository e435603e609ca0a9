package api

import (
	"encoding/json"
	"net/http"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// SessionCounter reports open trade screen sessions
type SessionCounter interface {
	Count() int
}

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	Clients() int
}

// HealthHandler responds to health check requests
func HealthHandler(sessions SessionCounter, clients ClientCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ok",
			"version":  Version,
			"sessions": sessions.Count(),
			"clients":  clients.Clients(),
		})
	}
}
