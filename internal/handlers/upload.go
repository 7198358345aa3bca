package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/collager/internal/session"
	"github.com/lehigh-university-libraries/collager/internal/upload"
)

const maxBatchFiles = 50

func (h *Handler) handleImageUpload(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	// Check if this is a JSON request with image URLs
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		h.handleURLUpload(w, r, sess)
		return
	}
	h.handleFileUpload(w, r, sess)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var request struct {
		ImageURLs []string `json:"image_urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(request.ImageURLs) == 0 {
		h.writeError(w, "image_urls is required", http.StatusBadRequest)
		return
	}
	if len(request.ImageURLs) > maxBatchFiles {
		h.writeError(w, fmt.Sprintf("Too many files (max %d)", maxBatchFiles), http.StatusBadRequest)
		return
	}

	files, err := h.fetcher.Fetch(r.Context(), request.ImageURLs)
	if err != nil {
		h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.ingest(w, r, sess, files)
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	limit := h.cfg.MaxUploadBytes
	if err := r.ParseMultipartForm(limit); err != nil {
		h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		h.writeError(w, "No files in upload", http.StatusBadRequest)
		return
	}
	if len(headers) > maxBatchFiles {
		h.writeError(w, fmt.Sprintf("Too many files (max %d)", maxBatchFiles), http.StatusBadRequest)
		return
	}

	files := make([]upload.File, 0, len(headers))
	for _, header := range headers {
		data, err := readPart(header, limit)
		if err != nil {
			h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusBadRequest)
			return
		}
		files = append(files, upload.File{Name: header.Filename, Data: data})
	}

	h.ingest(w, r, sess, files)
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request, sess *session.Session, files []upload.File) {
	images, err := sess.Upload(r.Context(), files)
	response := map[string]any{
		"session_id": sess.ID,
		"message":    fmt.Sprintf("Successfully uploaded %d of %d images", len(images), len(files)),
		"images":     images,
	}
	if err != nil {
		response["error"] = err.Error()
	}
	if len(images) == 0 {
		h.writeJSONStatus(w, response, http.StatusUnprocessableEntity)
		return
	}
	h.writeJSON(w, response)
}

// readPart reads one uploaded file. Files over limit are read one byte past
// it so the ingester rejects them as too large.
func readPart(header *multipart.FileHeader, limit int64) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, limit+1))
}
