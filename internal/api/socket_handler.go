package api

import (
	"net/http"

	"github.com/vikasavnish/hunterbot/internal/services"
)

// SessionSocketHandler only lets a websocket through for a session that is
// open, so a client can only watch a trade screen whose id it already holds.
func SessionSocketHandler(desk services.DeskService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := r.URL.Query().Get("session")
		if session == "" {
			http.Error(w, "session is required", http.StatusBadRequest)
			return
		}
		if _, err := desk.Get(session); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		next(w, r)
	}
}
