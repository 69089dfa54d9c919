package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
)

// maxUploadBytes caps uploaded documents
const maxUploadBytes = 32 << 20

// DocumentHandler answers questions about an uploaded document.
// Every request gets its own session, so uploads never share an index.
type DocumentHandler struct {
	newSession SessionFactory
	logger     arbor.ILogger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(newSession SessionFactory, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		newSession: newSession,
		logger:     logger,
	}
}

// AskHandler handles POST /api/documents/ask as multipart form data
// with a "file" part and a "question" field.
func (h *DocumentHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		WriteError(w, http.StatusBadRequest, "Field 'question' is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Field 'file' is required")
		return
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "fundalyst-upload-")
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create upload directory")
		WriteError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(header.Filename))
	if err := saveUpload(path, file); err != nil {
		h.logger.Error().Err(err).Msg("Failed to store upload")
		WriteError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	session, err := h.newSession()
	if err != nil {
		WriteError(w, StatusForError(err), err.Error())
		return
	}

	if err := session.IngestFile(r.Context(), path); err != nil {
		h.logger.Warn().Err(err).Str("file", header.Filename).Msg("Failed to ingest document")
		WriteError(w, StatusForError(err), err.Error())
		return
	}

	answer, err := session.Ask(r.Context(), question)
	if err != nil {
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("Failed to answer document question")
		WriteError(w, StatusForError(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"file":     header.Filename,
		"question": question,
		"answer":   answer,
	})
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
