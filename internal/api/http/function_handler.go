package http

import (
	"net/http"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/service"
)

// FunctionHandler exposes the notification functions under /functions/v1.
type FunctionHandler struct {
	notifySvc  service.NotifyService
	contactSvc service.ContactService
	newsSvc    service.NewsService
}

func NewFunctionHandler(notifySvc service.NotifyService, contactSvc service.ContactService, newsSvc service.NewsService) *FunctionHandler {
	return &FunctionHandler{notifySvc: notifySvc, contactSvc: contactSvc, newsSvc: newsSvc}
}

func (h *FunctionHandler) NotifyDocumentRequest(w http.ResponseWriter, r *http.Request) {
	var in service.NotifyDocumentRequestInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.notifySvc.NotifyDocumentRequest(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "emailId": id})
}

func (h *FunctionHandler) NotifyNewContent(w http.ResponseWriter, r *http.Request) {
	var in service.NewContentInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.notifySvc.NotifyNewContent(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionHandler) SendContactEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.contactSvc.Send(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// StartupNews accepts an empty body as the default query.
func (h *FunctionHandler) StartupNews(w http.ResponseWriter, r *http.Request) {
	var q domain.NewsQuery
	if r.ContentLength != 0 {
		if err := readJSON(r, &q); err != nil {
			writeError(w, r, err)
			return
		}
	}
	res, err := h.newsSvc.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
