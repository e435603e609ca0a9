package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vikasavnish/hunterbot/internal/models"
	"github.com/vikasavnish/hunterbot/internal/services"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService services.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// Login handles user login and returns a JWT token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Authenticate(loginReq.Username, loginReq.Password)
	if err != nil {
		h.log.Warn().Str("username", loginReq.Username).Msg("failed login")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	tokenString, err := h.authService.GenerateToken(user)
	if err != nil {
		http.Error(w, "Could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
	})
}
