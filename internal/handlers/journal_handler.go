package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/hunterbot/internal/services"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// JournalHandler exposes the submission journal
type JournalHandler struct {
	journalService services.JournalService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService services.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// RegisterRoutes registers journal routes
func (h *JournalHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/submissions", h.GetSubmissions).Methods("GET")
	router.HandleFunc("/submissions/{id}", h.GetSubmission).Methods("GET")
}

// GetSubmissions returns the most recent submissions, newest first
func (h *JournalHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := defaultJournalLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxJournalLimit)
	}

	subs, err := h.journalService.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// GetSubmission returns a specific submission by ID
func (h *JournalHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid submission ID", http.StatusBadRequest)
		return
	}

	sub, err := h.journalService.Get(r.Context(), uint(id))
	if err != nil {
		http.Error(w, "Submission not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
