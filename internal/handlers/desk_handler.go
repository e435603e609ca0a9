package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/hunterbot/internal/models"
	"github.com/vikasavnish/hunterbot/internal/services"
)

// DeskHandler handles the trade screen session requests
type DeskHandler struct {
	deskService services.DeskService
}

// NewDeskHandler creates a new desk handler
func NewDeskHandler(deskService services.DeskService) *DeskHandler {
	return &DeskHandler{
		deskService: deskService,
	}
}

// RegisterRoutes registers session routes
func (h *DeskHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.OpenSession).Methods("POST")
	router.HandleFunc("/sessions/{sid}", h.GetSession).Methods("GET")
	router.HandleFunc("/sessions/{sid}", h.CloseSession).Methods("DELETE")
	router.HandleFunc("/sessions/{sid}/mode", h.SetMode).Methods("PUT")
	router.HandleFunc("/sessions/{sid}/rows", h.AddRow).Methods("POST")
	router.HandleFunc("/sessions/{sid}/rows", h.ReplaceRows).Methods("PUT")
	router.HandleFunc("/sessions/{sid}/rows/{rid}", h.EditRow).Methods("PATCH")
	router.HandleFunc("/sessions/{sid}/rows/{rid}", h.RemoveRow).Methods("DELETE")
	router.HandleFunc("/sessions/{sid}/submit", h.Submit).Methods("POST")
	router.HandleFunc("/sessions/{sid}/bot", h.GenerateBot).Methods("POST")
	router.HandleFunc("/sessions/{sid}/trades", h.GetTrades).Methods("GET")
}

type modeRequest struct {
	Mode services.Mode `json:"mode"`
}

type editRequest struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

type botRequest struct {
	Strategy string `json:"strategy"`
}

// OpenSession starts a new trade screen session
func (h *DeskHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.deskService.Open())
}

// GetSession returns the session's mode, draft and submitted trades
func (h *DeskHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.deskService.Get(mux.Vars(r)["sid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CloseSession discards a session
func (h *DeskHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.deskService.Close(mux.Vars(r)["sid"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetMode switches between manual entry and the bot
func (h *DeskHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	view, err := h.deskService.SetMode(mux.Vars(r)["sid"], req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddRow appends a blank row
func (h *DeskHandler) AddRow(w http.ResponseWriter, r *http.Request) {
	row, err := h.deskService.AddRow(mux.Vars(r)["sid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// ReplaceRows replaces the whole draft
func (h *DeskHandler) ReplaceRows(w http.ResponseWriter, r *http.Request) {
	var rows []models.TradeInstruction
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	draft, err := h.deskService.ReplaceRows(mux.Vars(r)["sid"], rows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// EditRow sets a single field on a row
func (h *DeskHandler) EditRow(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	row, err := h.deskService.EditRow(vars["sid"], vars["rid"], req.Field, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// RemoveRow deletes a row; the last row is never removed
func (h *DeskHandler) RemoveRow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rows, err := h.deskService.RemoveRow(vars["sid"], vars["rid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Submit validates and submits the draft
func (h *DeskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	trades, err := h.deskService.Submit(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

// GenerateBot starts the mock bot; the result arrives over the websocket
// and through GetSession once it is done
func (h *DeskHandler) GenerateBot(w http.ResponseWriter, r *http.Request) {
	var req botRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	view, err := h.deskService.GenerateBot(mux.Vars(r)["sid"], req.Strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, view)
}

// GetTrades returns the display projection of the submitted list
func (h *DeskHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.deskService.Trades(mux.Vars(r)["sid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}
