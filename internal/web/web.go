// internal/web/web.go
// Package web handles serving the embedded frontend application.
package web

import (
	"bytes"
	"cidcheck/internal/logging"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// spaHandler serves a single-page application from an embedded filesystem.
type spaHandler struct {
	contentFS fs.FS
	indexPath string // e.g., "index.html"
}

// ServeHTTP serves the requested asset, falling back to the index page.
func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filePath := path.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if filePath == "" || filePath == "." || filePath == "/" {
		filePath = h.indexPath
	}

	file, err := h.contentFS.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			h.serveIndex(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		logging.Log.Errorf("spaHandler error opening file %s: %v", filePath, err)
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		logging.Log.Errorf("spaHandler error stating file %s: %v", filePath, err)
		return
	}
	if fileInfo.IsDir() {
		h.serveIndex(w, r)
		return
	}

	// embed.FS files implement io.ReadSeeker, other fs.FS implementations may not.
	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		fileBytes, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			logging.Log.Errorf("spaHandler error reading file %s: %v", filePath, err)
			return
		}
		seeker = bytes.NewReader(fileBytes)
	}

	http.ServeContent(w, r, filePath, fileInfo.ModTime(), seeker)
}

func (h spaHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	indexBytes, err := fs.ReadFile(h.contentFS, h.indexPath)
	if err != nil {
		http.Error(w, "Internal server error: index.html not found", http.StatusInternalServerError)
		logging.Log.Errorf("spaHandler could not find %s: %v", h.indexPath, err)
		return
	}
	http.ServeContent(w, r, h.indexPath, time.Time{}, bytes.NewReader(indexBytes))
}

// AddRoutes mounts the frontend handler on every path not claimed by the API.
func AddRoutes(router *mux.Router, content fs.FS, indexPath string) {
	router.PathPrefix("/").Handler(spaHandler{
		contentFS: content,
		indexPath: indexPath,
	})
}
