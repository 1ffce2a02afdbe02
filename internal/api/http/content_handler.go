package http

import (
	"net/http"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/service"

	"github.com/gorilla/mux"
)

// ContentHandler serves the public label pages: events, opportunities, resources, the
// directory and platform stats.
type ContentHandler struct {
	contentSvc service.ContentService
}

func NewContentHandler(contentSvc service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

func (h *ContentHandler) kind(w http.ResponseWriter, r *http.Request) (domain.ContentKind, bool) {
	kind, ok := domain.ParseContentKind(mux.Vars(r)["kind"])
	if !ok {
		writeError(w, r, domain.ErrNotFound)
	}
	return kind, ok
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	items, err := h.contentSvc.ListContent(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.LabelContent{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	var content domain.LabelContent
	if err := readJSON(r, &content); err != nil {
		writeError(w, r, err)
		return
	}
	content.Kind = kind
	res, err := h.contentSvc.CreateContent(r.Context(), sessionOf(r), &content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"content": content, "notification": res})
}

func (h *ContentHandler) Directory(w http.ResponseWriter, r *http.Request) {
	startups, err := h.contentSvc.Directory(r.Context(), r.URL.Query().Get("sector"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if startups == nil {
		startups = []domain.Startup{}
	}
	writeJSON(w, http.StatusOK, startups)
}

func (h *ContentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contentSvc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
