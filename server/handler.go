package server

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/gorgon-dev/gorgon/transform"
)

// siteHandler serves the built output directory: directory URLs map to
// index.html, HTML gets the reload script injected, and there are no
// directory listings.
type siteHandler struct {
	fs     afero.Fs
	root   string
	script string
}

func (h *siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	urlPath := strings.TrimPrefix(r.URL.Path, "/")
	if strings.Contains(urlPath, "..") {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}

	rel := filepath.FromSlash(urlPath)
	full := filepath.Join(h.root, rel)

	if isDir, _ := afero.IsDir(h.fs, full); isDir || urlPath == "" {
		full = filepath.Join(full, "index.html")
	}

	data, err := afero.ReadFile(h.fs, full)
	if err != nil {
		h.serveNotFound(w)
		return
	}

	if strings.HasSuffix(full, ".html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(transform.InjectLiveReload(string(data), h.script)))
		return
	}

	if ct := mime.TypeByExtension(filepath.Ext(full)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// serveNotFound prefers the site's own 404 page when the build
// produced one.
func (h *siteHandler) serveNotFound(w http.ResponseWriter) {
	for _, candidate := range []string{"404.html", filepath.Join("404", "index.html")} {
		data, err := afero.ReadFile(h.fs, filepath.Join(h.root, candidate))
		if err != nil {
			continue
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(transform.InjectLiveReload(string(data), h.script)))
		return
	}
	http.Error(w, "404 page not found", http.StatusNotFound)
}
