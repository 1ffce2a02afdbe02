package http

import (
	"net/http"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/service"

	"github.com/gorilla/mux"
)

// ReviewHandler serves the evaluation dashboard: applications, evaluations and voting.
type ReviewHandler struct {
	dashboardSvc  service.DashboardService
	evaluationSvc service.EvaluationService
	votingSvc     service.VotingService
}

func NewReviewHandler(dashboardSvc service.DashboardService, evaluationSvc service.EvaluationService, votingSvc service.VotingService) *ReviewHandler {
	return &ReviewHandler{dashboardSvc: dashboardSvc, evaluationSvc: evaluationSvc, votingSvc: votingSvc}
}

func (h *ReviewHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	views, err := h.dashboardSvc.Load(r.Context(), sessionOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ReviewHandler) Application(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboardSvc.LoadOne(r.Context(), sessionOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ReviewHandler) Evaluations(w http.ResponseWriter, r *http.Request) {
	views, err := h.evaluationSvc.ListForApplication(r.Context(), sessionOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ReviewHandler) MyEvaluation(w http.ResponseWriter, r *http.Request) {
	eval, err := h.evaluationSvc.GetMine(r.Context(), sessionOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

// SaveEvaluation stores a draft, or submits when ?mode=submit.
func (h *ReviewHandler) SaveEvaluation(w http.ResponseWriter, r *http.Request) {
	mode := service.SaveModeDraft
	if m := r.URL.Query().Get("mode"); m != "" {
		parsed, ok := service.ParseSaveMode(m)
		if !ok {
			writeError(w, r, domain.NewValidationError("mode", "Mode d'enregistrement inconnu"))
			return
		}
		mode = parsed
	}
	var in service.EvaluationInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	eval, err := h.evaluationSvc.Save(r.Context(), sessionOf(r), mux.Vars(r)["id"], in, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (h *ReviewHandler) Voting(w http.ResponseWriter, r *http.Request) {
	decision, err := h.votingSvc.Get(r.Context(), sessionOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

func (h *ReviewHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision"`
		Notes    string `json:"notes"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	decision, err := h.votingSvc.Finalize(r.Context(), sessionOf(r), mux.Vars(r)["id"], domain.Decision(req.Decision), req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

func (h *ReviewHandler) SetQuorum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quorum int `json:"quorum"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	decision, err := h.votingSvc.SetQuorum(r.Context(), sessionOf(r), mux.Vars(r)["id"], req.Quorum)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
