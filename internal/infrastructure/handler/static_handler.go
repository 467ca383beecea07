package handler

import (
	"net/http"
	"path/filepath"

	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/gorilla/mux"
)

// StaticHandler serves the front end pages and ancillary files
type StaticHandler struct {
	dir          string
	verification string
	logger       logger.Logger
}

// NewStaticHandler creates a handler serving files from dir. verification is the
// Google site verification token; an empty token disables that route.
func NewStaticHandler(dir, verification string, log logger.Logger) *StaticHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &StaticHandler{
		dir:          dir,
		verification: verification,
		logger:       log,
	}
}

// file returns a handler that always serves name, with contentType when given
func (h *StaticHandler) file(name, contentType string) http.HandlerFunc {
	path := filepath.Join(h.dir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		http.ServeFile(w, r, path)
	}
}

// RegisterRoutes registers the page routes and a catch-all file server.
// Register it last: the catch-all matches every GET.
func (h *StaticHandler) RegisterRoutes(router *mux.Router) {
	methods := []string{http.MethodGet, http.MethodHead}
	routes := []string{"/", "/blog", "/blog/guide-franc-cfa", "/robots.txt"}

	router.HandleFunc("/", h.file("index.html", "")).Methods(methods...)
	router.HandleFunc("/blog", h.file("blog.html", "")).Methods(methods...)
	router.HandleFunc("/blog/guide-franc-cfa", h.file("guide-franc-cfa.html", "")).Methods(methods...)
	router.HandleFunc("/robots.txt", h.file("robots.txt", "text/plain; charset=utf-8")).Methods(methods...)

	if h.verification != "" {
		name := "google" + h.verification + ".html"
		router.HandleFunc("/"+name, h.file(name, "text/html; charset=utf-8")).Methods(methods...)
		routes = append(routes, "/"+name)
	}

	router.PathPrefix("/").Handler(http.FileServer(http.Dir(h.dir))).Methods(methods...).Name("static")

	h.logger.Info("Static routes registered", map[string]interface{}{
		"dir":    h.dir,
		"routes": routes,
	})
}
