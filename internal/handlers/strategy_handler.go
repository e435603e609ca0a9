package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/hunterbot/internal/strategies"
)

// StrategyHandler serves the bot strategy catalog
type StrategyHandler struct {
	catalog *strategies.Catalog
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(catalog *strategies.Catalog) *StrategyHandler {
	return &StrategyHandler{catalog: catalog}
}

// RegisterRoutes registers strategy routes
func (h *StrategyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/strategies", h.GetStrategies).Methods("GET")
}

// GetStrategies returns all strategies in selector order
func (h *StrategyHandler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Strategies)
}
