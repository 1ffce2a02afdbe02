package http

import (
	"encoding/json"
	"net/http"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/service"

	"github.com/gorilla/mux"
)

type ApplicationHandler struct {
	appSvc service.ApplicationService
}

func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

func (h *ApplicationHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.appSvc.GetDraft(r.Context(), sessionOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *ApplicationHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentStep int             `json:"current_step"`
		Data        json.RawMessage `json:"data"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.appSvc.SaveDraft(r.Context(), sessionOf(r), req.CurrentStep, req.Data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ApplicationHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.appSvc.DeleteDraft(r.Context(), sessionOf(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	app, err := h.appSvc.Submit(r.Context(), sessionOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	apps, err := h.appSvc.Track(r.Context(), sessionOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, ok := domain.ParseApplicationStatus(req.Status)
	if !ok {
		writeError(w, r, domain.NewValidationError("status", "Statut inconnu"))
		return
	}
	app, err := h.appSvc.ChangeStatus(r.Context(), sessionOf(r), mux.Vars(r)["id"], status, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
