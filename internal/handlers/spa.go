package handlers

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// assetsDir holds the fingerprinted build output, which never changes under a name.
const assetsDir = "assets/"

type spaHandler struct {
	dist  fs.FS
	files http.Handler
	index []byte
}

// SPA serves the embedded front-end. Unknown paths without an extension get
// index.html so client-side routes work; /api paths never fall back.
func SPA(dist fs.FS) (http.Handler, error) {
	index, err := fs.ReadFile(dist, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded index.html: %w", err)
	}
	return &spaHandler{dist: dist, files: http.FileServer(http.FS(dist)), index: index}, nil
}

func (s *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	if clean == "/api" || strings.HasPrefix(clean, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	name := strings.TrimPrefix(clean, "/")
	if name == "" || name == "index.html" {
		s.serveIndex(w, r)
		return
	}
	if info, err := fs.Stat(s.dist, name); err == nil && !info.IsDir() {
		if strings.HasPrefix(name, assetsDir) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		s.files.ServeHTTP(w, r)
		return
	}
	if strings.Contains(path.Base(clean), ".") {
		// Missing static file: let the file server answer 404.
		s.files.ServeHTTP(w, r)
		return
	}
	s.serveIndex(w, r)
}

func (s *spaHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(s.index))
}
