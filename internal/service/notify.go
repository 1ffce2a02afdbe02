package service

import (
	"context"
	"encoding/json"
	"fmt"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/validation"
)

// NotifyDocumentRequestInput is the body of notify-document-request.
type NotifyDocumentRequestInput struct {
	ApplicationID string `json:"application_id" validate:"required,max=64"`
	DocumentType  string `json:"document_type" validate:"required,max=60"`
	DocumentLabel string `json:"document_label" validate:"required,max=200"`
	Message       string `json:"message" validate:"max=2000"`
}

// NewContentInput is the body of notify-new-content.
type NewContentInput struct {
	ContentType string `json:"content_type" validate:"required,oneof=event opportunity resource"`
	ContentID   string `json:"content_id" validate:"required,max=64"`
	Title       string `json:"title" validate:"required,max=200"`
	Message     string `json:"message" validate:"max=500"`
}

type NewContentResult struct {
	Success  bool `json:"success"`
	Notified int  `json:"notified"`
	Queued   bool `json:"queued,omitempty"`
}

// fanOutJob is the queued unit of work: one notification copied to every recipient.
type fanOutJob struct {
	UserIDs      []string            `json:"user_ids"`
	Notification domain.Notification `json:"notification"`
}

type notifyService struct {
	appRepo     repository.ApplicationRepository
	startupRepo repository.StartupRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	notifier    NotificationService
	queue       FanOutQueue
}

// NewNotifyService builds the notification functions. With a nil queue fan-outs run inline.
func NewNotifyService(
	appRepo repository.ApplicationRepository,
	startupRepo repository.StartupRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	notifier NotificationService,
	queue FanOutQueue,
) NotifyService {
	return &notifyService{
		appRepo:     appRepo,
		startupRepo: startupRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		notifier:    notifier,
		queue:       queue,
	}
}

// NotifyDocumentRequest emails the applicant and returns the email id.
func (s *notifyService) NotifyDocumentRequest(ctx context.Context, in NotifyDocumentRequestInput) (string, error) {
	if err := validation.Struct(in, nil); err != nil {
		return "", err
	}
	app, err := s.appRepo.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return "", err
	}
	startupName := domain.UnknownStartupName
	if st, err := s.startupRepo.GetByID(ctx, app.StartupID); err == nil {
		startupName = st.Name
	}
	to, err := ApplicantRecipient(ctx, s.userRepo, app.ApplicantID)
	if err != nil {
		return "", fmt.Errorf("resolve applicant: %w", err)
	}

	id, err := s.emailSvc.SendDocumentRequest(ctx, to, startupName, in.DocumentLabel, in.Message)
	if err != nil {
		return "", err
	}
	logger.Info("Document request email sent", "applicationID", app.ID, "documentType", in.DocumentType, "emailID", id)
	return id, nil
}

// NotifyNewContent notifies every user holding an approved application.
func (s *notifyService) NotifyNewContent(ctx context.Context, in NewContentInput) (*NewContentResult, error) {
	if err := validation.Struct(in, nil); err != nil {
		return nil, err
	}
	kind, _ := domain.ParseContentKind(in.ContentType)

	recipients, err := s.appRepo.ListApplicantIDsByStatus(ctx, domain.ApplicationStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list labeled applicants: %w", err)
	}
	recipients = uniqueStrings(recipients)
	if len(recipients) == 0 {
		return &NewContentResult{Success: true}, nil
	}

	message := in.Message
	if message == "" {
		message = fmt.Sprintf("%s est disponible sur le portail : %s", kind.Label(), in.Title)
	}
	job := fanOutJob{
		UserIDs: recipients,
		Notification: domain.Notification{
			Kind:    domain.NotificationKindNewContent,
			Title:   fmt.Sprintf("%s : %s", kind.Label(), in.Title),
			Message: message,
			Link:    kind.Path(),
			Attributes: map[string]string{
				"content_id":   in.ContentID,
				"content_type": in.ContentType,
			},
		},
	}

	if s.queue != nil {
		body, err := json.Marshal(job)
		if err != nil {
			return nil, err
		}
		err = s.queue.Publish(ctx, body)
		if err == nil {
			return &NewContentResult{Success: true, Notified: len(recipients), Queued: true}, nil
		}
		logger.Warn("Queue publish failed, running fan-out inline", "error", err)
	}

	n, err := s.notifier.NotifyMany(ctx, job.UserIDs, job.Notification)
	if err != nil {
		return nil, err
	}
	return &NewContentResult{Success: true, Notified: n}, nil
}

func (s *notifyService) HandleFanOut(ctx context.Context, body []byte) error {
	var job fanOutJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode fan-out job: %w", err)
	}
	n, err := s.notifier.NotifyMany(ctx, job.UserIDs, job.Notification)
	if err != nil {
		return err
	}
	logger.Info("Fan-out delivered", "kind", job.Notification.Kind, "notified", n)
	return nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
