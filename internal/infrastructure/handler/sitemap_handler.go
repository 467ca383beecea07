package handler

import (
	"encoding/xml"
	"net/http"
	"path/filepath"
	"time"

	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/gorilla/mux"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// XMLContentType is sent with every sitemap response
const XMLContentType = "application/xml; charset=utf-8"

// SitemapPage is one entry of the generated sitemap
type SitemapPage struct {
	Path       string
	ChangeFreq string
	Priority   string
}

// DefaultSitemapPages lists the pages of the site
var DefaultSitemapPages = []SitemapPage{
	{Path: "/", ChangeFreq: "daily", Priority: "1.0"},
	{Path: "/blog", ChangeFreq: "weekly", Priority: "0.9"},
	{Path: "/blog/guide-franc-cfa", ChangeFreq: "monthly", Priority: "0.8"},
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// SitemapHandler serves the sitemap, either generated per request or from a file
type SitemapHandler struct {
	baseURL   string
	pages     []SitemapPage
	static    bool
	staticDir string
	now       func() time.Time
	logger    logger.Logger
}

// SitemapOptions configures a SitemapHandler
type SitemapOptions struct {
	BaseURL string
	Pages   []SitemapPage
	// Static serves StaticDir/sitemap.xml and redirects the alternate paths
	Static    bool
	StaticDir string
	Now       func() time.Time
}

// NewSitemapHandler creates a new sitemap handler
func NewSitemapHandler(opts SitemapOptions, log logger.Logger) *SitemapHandler {
	if opts.Pages == nil {
		opts.Pages = DefaultSitemapPages
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SitemapHandler{
		baseURL:   opts.BaseURL,
		pages:     opts.Pages,
		static:    opts.Static,
		staticDir: opts.StaticDir,
		now:       opts.Now,
		logger:    log,
	}
}

// Generate renders the sitemap with every page last modified on the current UTC date
func (h *SitemapHandler) Generate() ([]byte, error) {
	today := h.now().UTC().Format("2006-01-02")

	set := urlSet{Xmlns: sitemapNamespace}
	for _, p := range h.pages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.baseURL + p.Path,
			LastMod:    today,
			ChangeFreq: p.ChangeFreq,
			Priority:   p.Priority,
		})
	}

	body, err := xml.MarshalIndent(set, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// ServeGenerated writes a freshly generated sitemap with caching disabled
func (h *SitemapHandler) ServeGenerated(w http.ResponseWriter, r *http.Request) {
	body, err := h.Generate()
	if err != nil {
		h.logger.Error("Failed to generate sitemap", map[string]interface{}{"error": err.Error()})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", XMLContentType)
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ServeFile writes the sitemap file from the static directory
func (h *SitemapHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", XMLContentType)
	http.ServeFile(w, r, filepath.Join(h.staticDir, "sitemap.xml"))
}

// RedirectToCanonical permanently redirects alternate sitemap paths
func (h *SitemapHandler) RedirectToCanonical(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/sitemap.xml", http.StatusMovedPermanently)
}

// RegisterRoutes registers the sitemap routes for the configured mode
func (h *SitemapHandler) RegisterRoutes(router *mux.Router) {
	methods := []string{http.MethodGet, http.MethodHead}
	alternates := []string{"/sitemap-v2.xml", "/sitemap-{timestamp}.xml"}

	if h.static {
		router.HandleFunc("/sitemap.xml", h.ServeFile).Methods(methods...)
		for _, p := range alternates {
			router.HandleFunc(p, h.RedirectToCanonical).Methods(methods...)
		}
	} else {
		router.HandleFunc("/sitemap.xml", h.ServeGenerated).Methods(methods...)
		for _, p := range alternates {
			router.HandleFunc(p, h.ServeGenerated).Methods(methods...)
		}
	}

	h.logger.Info("Sitemap routes registered", map[string]interface{}{
		"static": h.static,
		"routes": append([]string{"/sitemap.xml"}, alternates...),
	})
}
