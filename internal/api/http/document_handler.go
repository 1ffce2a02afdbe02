package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/service"

	"github.com/gorilla/mux"
)

const multipartMemory = 8 << 20

// DocumentHandler handles startup document uploads and signed downloads.
type DocumentHandler struct {
	documentSvc service.DocumentService
	bucket      string
	maxBytes    int64
}

func NewDocumentHandler(documentSvc service.DocumentService, bucket string, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{documentSvc: documentSvc, bucket: bucket, maxBytes: maxBytes}
}

// Upload takes a multipart form with "file" and "document_type". The startup id may be
// "draft" while the application is not yet submitted.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		// room for the other form fields
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, domain.NewValidationError("file", "Le fichier dépasse la taille maximale autorisée"))
			return
		}
		writeError(w, r, domain.NewValidationError("file", "Formulaire d'envoi invalide"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.NewValidationError("file", "Fichier manquant"))
		return
	}
	defer file.Close()

	res, err := h.documentSvc.Upload(r.Context(), sessionOf(r), service.UploadInput{
		StartupID:    mux.Vars(r)["id"],
		DocumentType: r.FormValue("document_type"),
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
	}, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *DocumentHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	signed, err := h.documentSvc.SignedURL(r.Context(), sessionOf(r), req.Path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signed)
}

// Download streams a file addressed by a signed URL.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if vars["bucket"] != h.bucket {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	key := vars["key"]
	expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if err != nil {
		writeError(w, r, domain.ErrForbidden)
		return
	}

	file, err := h.documentSvc.Open(r.Context(), key, expires, r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": path.Base(key)}))
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream document", "key", key, "error", err)
	}
}

type DocumentRequestHandler struct {
	docReqSvc service.DocumentRequestService
}

func NewDocumentRequestHandler(docReqSvc service.DocumentRequestService) *DocumentRequestHandler {
	return &DocumentRequestHandler{docReqSvc: docReqSvc}
}

func (h *DocumentRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.docReqSvc.ListForApplication(r.Context(), sessionOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *DocumentRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.DocumentRequestInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ApplicationID = mux.Vars(r)["id"]
	req, err := h.docReqSvc.Create(r.Context(), sessionOf(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *DocumentRequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.docReqSvc.Cancel(r.Context(), sessionOf(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentRequestHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentPath string `json:"document_path"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.docReqSvc.Fulfill(r.Context(), sessionOf(r), mux.Vars(r)["id"], req.DocumentPath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
