package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// defaultMaxUploadBytes caps uploaded markdown files when config gives no limit.
const defaultMaxUploadBytes = 5 << 20 // 5 MB

var allowedExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".txt":      {},
}

var allowedMIMETypes = map[string]struct{}{
	"text/markdown": {},
	"text/plain":    {},
}

// UploadHandler accepts markdown file uploads for conversion.
type UploadHandler struct {
	h        *Handler
	maxBytes int64
}

// NewUploadHandler creates an upload handler with the given size cap.
func NewUploadHandler(h *Handler, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &UploadHandler{h: h, maxBytes: maxBytes}
}

// acceptable reports whether an uploaded file may reach the converter: the
// extension must be .md/.markdown/.txt or the declared MIME type must be
// text/markdown or text/plain.
func acceptable(filename, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; ok {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := allowedMIMETypes[mediaType]
	return ok
}

// Convert handles POST /api/convert/upload (multipart/form-data, field "file").
//
//	@Summary		Convert an uploaded markdown file
//	@Tags			convert
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Markdown file (.md, .markdown, .txt)"
//	@Success		200		{object}	ConversionDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/upload [post]
func (u *UploadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes)

	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	if !acceptable(header.Filename, header.Header.Get("Content-Type")) {
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported file type; expected .md, .markdown, or .txt"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, u.maxBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}
	if int64(len(data)) > u.maxBytes {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large"))
		return
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("file is empty"))
		return
	}

	detail, err := u.h.svc.Convert(r.Context(), string(data))
	if err != nil {
		slog.Error("upload convert failed", slog.String("filename", header.Filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
