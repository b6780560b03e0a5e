package fakeapi

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxUploadMemory = 32 << 20
	uploadField     = "files[]"
)

// handleUpload zips every files[] part into one archive and answers with the
// link it can be downloaded from.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed multipart body.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File[uploadField]
	if len(parts) == 0 {
		var v validation
		v.add("files", "The files field is required.")
		writeValidation(w, v.errs, v.message())
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, fh := range parts {
		src, err := fh.Open()
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}
		dst, err := zw.Create(fh.Filename)
		if err == nil {
			_, err = io.Copy(dst, src)
		}
		_ = src.Close()
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}
	}
	if err := zw.Close(); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	name := uuid.NewString() + ".zip"
	expires := time.Now().Add(s.linkTTL).UTC()

	s.mu.Lock()
	s.archives[name] = archive{Name: name, Data: buf.Bytes(), ExpiresAt: expires}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"download_url": fmt.Sprintf("%s%s/download/%s", origin(r), Prefix, name),
		"expires_at":   expires.Format(time.RFC3339),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	a, ok := s.archives[name]
	s.mu.Unlock()

	if !ok || time.Now().After(a.ExpiresAt) {
		writeMessage(w, http.StatusNotFound, "File not found or link expired.")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Name))
	_, _ = w.Write(a.Data)
}

func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
