package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/damon-houk/xof-converter/internal/infrastructure/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSite creates a minimal static directory and returns its path
func writeSite(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"index.html":                  "<html>home</html>",
		"blog.html":                   "<html>blog</html>",
		"guide-franc-cfa.html":        "<html>guide</html>",
		"robots.txt":                  "User-agent: *\nAllow: /\n",
		"google5b9d6a33a63bfe61.html": "google-site-verification: google5b9d6a33a63bfe61.html",
		"app.js":                      "console.log('converter')",
		"sitemap.xml":                 "<urlset></urlset>",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestStaticHandler(t *testing.T) {
	dir := writeSite(t)
	router := mux.NewRouter()
	NewStaticHandler(dir, "5b9d6a33a63bfe61", logger.NewJSONLogger(nil, logger.FatalLevel)).RegisterRoutes(router)

	cases := []struct {
		path        string
		body        string
		contentType string
	}{
		{"/", "<html>home</html>", "text/html; charset=utf-8"},
		{"/blog", "<html>blog</html>", "text/html; charset=utf-8"},
		{"/blog/guide-franc-cfa", "<html>guide</html>", "text/html; charset=utf-8"},
		{"/robots.txt", "User-agent: *\nAllow: /\n", "text/plain; charset=utf-8"},
		{"/google5b9d6a33a63bfe61.html", "google-site-verification: google5b9d6a33a63bfe61.html", "text/html; charset=utf-8"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
			assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
		})
	}

	t.Run("Assets through the file server", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app.js", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "console.log('converter')", w.Body.String())
	})

	t.Run("Missing file", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope.css", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStaticHandlerWithoutVerificationToken(t *testing.T) {
	dir := writeSite(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "google5b9d6a33a63bfe61.html")))

	router := mux.NewRouter()
	NewStaticHandler(dir, "", logger.NewJSONLogger(nil, logger.FatalLevel)).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/google5b9d6a33a63bfe61.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
