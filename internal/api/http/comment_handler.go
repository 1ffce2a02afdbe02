package http

import (
	"net/http"
	"strconv"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/realtime"
	"labelstartup-backend/internal/service"

	"github.com/gorilla/mux"
)

type CommentHandler struct {
	commentSvc service.CommentService
	hub        *realtime.Hub
}

func NewCommentHandler(commentSvc service.CommentService, hub *realtime.Hub) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc, hub: hub}
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	thread, err := h.commentSvc.List(r.Context(), sessionOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (h *CommentHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParentID *string `json:"parent_id"`
		Content  string  `json:"content"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	comment, err := h.commentSvc.Post(r.Context(), sessionOf(r), mux.Vars(r)["id"], req.ParentID, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	comment, err := h.commentSvc.Edit(r.Context(), sessionOf(r), mux.Vars(r)["commentId"], req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.commentSvc.Delete(r.Context(), sessionOf(r), mux.Vars(r)["commentId"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentHandler) Participants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.commentSvc.Participants(r.Context(), sessionOf(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, participants)
}

// Mentions completes the "@" token under ?cursor= in ?text=. The cursor defaults to the end.
func (h *CommentHandler) Mentions(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	cursor := len(text)
	if c := r.URL.Query().Get("cursor"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			writeError(w, r, domain.NewValidationError("cursor", "Position invalide"))
			return
		}
		cursor = n
	}
	res, err := h.commentSvc.Mentions(r.Context(), sessionOf(r), mux.Vars(r)["id"], text, cursor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Chat upgrades to a websocket subscribed to the application's comment channel.
func (h *CommentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	session := sessionOf(r)
	applicationID := mux.Vars(r)["id"]

	participants, err := h.commentSvc.Participants(r.Context(), session, applicationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	member := realtime.Member{UserID: session.UserID, FullName: session.Email}
	for _, p := range participants {
		if p.UserID == session.UserID {
			member.FullName = p.FullName
			break
		}
	}

	if err := h.hub.Serve(w, r, applicationID, member); err != nil {
		logger.Warn("Websocket upgrade failed", "applicationID", applicationID, "error", err)
	}
}
