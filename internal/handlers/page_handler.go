package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

// PageHandler serves the landing, about and trade pages and their static assets
type PageHandler struct {
	assets fs.FS
	static http.Handler
}

// NewPageHandler creates a page handler over the given web root
func NewPageHandler(assets fs.FS) *PageHandler {
	return &PageHandler{
		assets: assets,
		static: http.StripPrefix("/static/", http.FileServer(http.FS(mustSub(assets, "static")))),
	}
}

// RegisterRoutes registers page routes
func (h *PageHandler) RegisterRoutes(router *mux.Router) {
	router.PathPrefix("/static/").Handler(h.static).Methods("GET")
	router.HandleFunc("/", h.page("index.html")).Methods("GET")
	router.HandleFunc("/about", h.page("about.html")).Methods("GET")
	router.HandleFunc("/trade", h.page("trade.html")).Methods("GET")
}

func (h *PageHandler) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := fs.ReadFile(h.assets, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	}
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
