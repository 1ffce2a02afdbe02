package service

import (
	"context"
	"fmt"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/storage"
	"labelstartup-backend/internal/validation"
)

type DocumentRequestInput struct {
	ApplicationID string `json:"application_id" validate:"required,max=64"`
	DocumentType  string `json:"document_type" validate:"required,max=60"`
	DocumentLabel string `json:"document_label" validate:"required,min=2,max=200"`
	Message       string `json:"message" validate:"max=2000"`
}

var documentRequestFieldMessages = map[string]string{
	"document_type":  "Le type de document est requis",
	"document_label": "Le libellé du document est requis (2-200 caractères)",
	"message":        "Le message ne doit pas dépasser 2000 caractères",
}

type documentRequestService struct {
	docReqRepo repository.DocumentRequestRepository
	appRepo    repository.ApplicationRepository
	notify     NotifyService
	notifier   NotificationService
	now        func() time.Time
}

func NewDocumentRequestService(
	docReqRepo repository.DocumentRequestRepository,
	appRepo repository.ApplicationRepository,
	notify NotifyService,
	notifier NotificationService,
) DocumentRequestService {
	return &documentRequestService{
		docReqRepo: docReqRepo,
		appRepo:    appRepo,
		notify:     notify,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Create records the request, marks the application incomplete and notifies the applicant.
// Notification failures do not undo the request.
func (s *documentRequestService) Create(ctx context.Context, session security.Session, in DocumentRequestInput) (*domain.DocumentRequest, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := validation.Struct(in, documentRequestFieldMessages); err != nil {
		return nil, err
	}
	app, err := s.appRepo.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.Status.IsOpen() {
		return nil, fmt.Errorf("application is %s: %w", app.Status, domain.ErrInvalidTransition)
	}

	req := &domain.DocumentRequest{
		ApplicationID: app.ID,
		RequestedBy:   session.UserID,
		DocumentType:  in.DocumentType,
		DocumentLabel: in.DocumentLabel,
		Message:       in.Message,
	}
	if err := s.docReqRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create document request: %w", err)
	}

	if app.Status.CanTransition(domain.ApplicationStatusIncomplete) {
		if err := s.appRepo.UpdateStatus(ctx, app.ID, domain.ApplicationStatusIncomplete, app.Notes); err != nil {
			logger.Warn("Failed to mark application incomplete", "applicationID", app.ID, "error", err)
		}
	}

	if err := s.notifier.Notify(ctx, &domain.Notification{
		UserID:     app.ApplicantID,
		Kind:       domain.NotificationKindDocumentRequest,
		Title:      "Document requis",
		Message:    fmt.Sprintf("Le comité demande le document suivant : %s.", in.DocumentLabel),
		Link:       "/suivi-candidature",
		Attributes: map[string]string{"application_id": app.ID, "request_id": req.ID},
	}); err != nil {
		logger.Warn("Failed to notify applicant", "requestID", req.ID, "error", err)
	}
	if _, err := s.notify.NotifyDocumentRequest(ctx, NotifyDocumentRequestInput{
		ApplicationID: app.ID,
		DocumentType:  in.DocumentType,
		DocumentLabel: in.DocumentLabel,
		Message:       in.Message,
	}); err != nil {
		logger.Warn("Failed to email document request", "requestID", req.ID, "error", err)
	}
	return req, nil
}

func (s *documentRequestService) Cancel(ctx context.Context, session security.Session, requestID string) error {
	if err := session.RequireAdmin(); err != nil {
		return err
	}
	req, err := s.docReqRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !req.IsOpen() {
		return fmt.Errorf("request is %s: %w", req.Status(), domain.ErrInvalidTransition)
	}
	if err := s.docReqRepo.Cancel(ctx, requestID, s.now()); err != nil {
		return fmt.Errorf("cancel document request: %w", err)
	}

	app, err := s.appRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		logger.Warn("Failed to load application of cancelled request", "requestID", requestID, "error", err)
		return nil
	}
	if err := s.notifier.Notify(ctx, &domain.Notification{
		UserID:     app.ApplicantID,
		Kind:       domain.NotificationKindDocumentRequest,
		Title:      "Demande de document annulée",
		Message:    fmt.Sprintf("La demande « %s » a été annulée, aucune action n'est requise.", req.DocumentLabel),
		Link:       "/suivi-candidature",
		Attributes: map[string]string{"application_id": app.ID, "request_id": req.ID},
	}); err != nil {
		logger.Warn("Failed to notify cancellation", "requestID", requestID, "error", err)
	}
	s.reopenIfComplete(ctx, app)
	return nil
}

// Fulfill attaches an uploaded document to an open request. Only the applicant may fulfil it,
// with a file they uploaded.
func (s *documentRequestService) Fulfill(ctx context.Context, session security.Session, requestID, documentPath string) (*domain.DocumentRequest, error) {
	if err := session.RequireAuth(); err != nil {
		return nil, err
	}
	if documentPath == "" || storage.KeyOwner(documentPath) != session.UserID {
		return nil, domain.NewValidationError("document_path", "Document invalide")
	}
	req, err := s.docReqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	app, err := s.appRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != session.UserID {
		return nil, domain.ErrForbidden
	}
	if !req.IsOpen() {
		return nil, fmt.Errorf("request is %s: %w", req.Status(), domain.ErrInvalidTransition)
	}

	now := s.now()
	if err := s.docReqRepo.Fulfill(ctx, requestID, documentPath, now); err != nil {
		return nil, fmt.Errorf("fulfill document request: %w", err)
	}
	req.FulfilledAt = &now
	req.DocumentPath = documentPath

	if err := s.notifier.Notify(ctx, &domain.Notification{
		UserID:     req.RequestedBy,
		Kind:       domain.NotificationKindDocumentRequest,
		Title:      "Document reçu",
		Message:    fmt.Sprintf("Le document « %s » a été déposé.", req.DocumentLabel),
		Link:       "/admin/applications/" + app.ID,
		Attributes: map[string]string{"application_id": app.ID, "request_id": req.ID},
	}); err != nil {
		logger.Warn("Failed to notify requester", "requestID", requestID, "error", err)
	}
	s.reopenIfComplete(ctx, app)
	return req, nil
}

// reopenIfComplete puts an incomplete application back in the queue once no request is open.
func (s *documentRequestService) reopenIfComplete(ctx context.Context, app *domain.Application) {
	if app.Status != domain.ApplicationStatusIncomplete {
		return
	}
	counts, err := s.docReqRepo.CountOpenByApplications(ctx, []string{app.ID})
	if err != nil {
		logger.Warn("Failed to count open requests", "applicationID", app.ID, "error", err)
		return
	}
	if counts[app.ID] > 0 {
		return
	}
	if err := s.appRepo.UpdateStatus(ctx, app.ID, domain.ApplicationStatusPending, app.Notes); err != nil {
		logger.Warn("Failed to reopen application", "applicationID", app.ID, "error", err)
	}
}

func (s *documentRequestService) ListForApplication(ctx context.Context, session security.Session, applicationID string) ([]domain.DocumentRequest, error) {
	if err := session.RequireAuth(); err != nil {
		return nil, err
	}
	if !session.Role.CanEvaluate() {
		app, err := s.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			return nil, err
		}
		if app.ApplicantID != session.UserID {
			return nil, domain.ErrForbidden
		}
	}
	return s.docReqRepo.ListByApplication(ctx, applicationID)
}
