package handler

import (
	"net/http"
	"strings"

	"livemusicnotes/internal/httputil"
)

// MediaHandler serves photos written by the local storage backend.
type MediaHandler struct {
	files http.Handler
}

// NewMediaHandler serves files under root at urlPrefix (e.g. "/media").
func NewMediaHandler(root, urlPrefix string) *MediaHandler {
	prefix := strings.TrimSuffix(urlPrefix, "/")
	return &MediaHandler{
		files: http.StripPrefix(prefix, http.FileServer(http.Dir(root))),
	}
}

// Serve handles GET /media/*. Directory listings are refused.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/") {
		httputil.WriteNotFound(w, "File not found")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	h.files.ServeHTTP(w, r)
}
