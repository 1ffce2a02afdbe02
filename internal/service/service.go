package service

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/security"
)

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, session security.Session) (*Account, error)
	AssignRole(ctx context.Context, session security.Session, userID string, role domain.Role) error
}

type ApplicationService interface {
	GetDraft(ctx context.Context, session security.Session) (*domain.ApplicationDraft, error)
	SaveDraft(ctx context.Context, session security.Session, step int, data json.RawMessage) (*DraftSaveResult, error)
	DeleteDraft(ctx context.Context, session security.Session) error
	Submit(ctx context.Context, session security.Session) (*domain.Application, error)
	ChangeStatus(ctx context.Context, session security.Session, applicationID string, status domain.ApplicationStatus, notes string) (*domain.Application, error)
	// Decide closes voting: the final decision and the matching terminal status commit together.
	Decide(ctx context.Context, session security.Session, applicationID string, decision domain.Decision, notes string) (*domain.Application, error)
	Track(ctx context.Context, session security.Session) ([]TrackedApplication, error)
}

type EvaluationService interface {
	Save(ctx context.Context, session security.Session, applicationID string, in EvaluationInput, mode SaveMode) (*domain.Evaluation, error)
	GetMine(ctx context.Context, session security.Session, applicationID string) (*domain.Evaluation, error)
	ListForApplication(ctx context.Context, session security.Session, applicationID string) ([]EvaluationView, error)
}

type VotingService interface {
	// Recompute aggregates the submitted evaluations and stores the result as the cached row.
	Recompute(ctx context.Context, applicationID string) (*domain.VotingDecision, error)
	Get(ctx context.Context, session security.Session, applicationID string) (*domain.VotingDecision, error)
	Finalize(ctx context.Context, session security.Session, applicationID string, decision domain.Decision, notes string) (*domain.VotingDecision, error)
	SetQuorum(ctx context.Context, session security.Session, applicationID string, quorum int) (*domain.VotingDecision, error)
}

type DashboardService interface {
	Load(ctx context.Context, session security.Session) ([]ApplicationView, error)
	LoadOne(ctx context.Context, session security.Session, applicationID string) (*ApplicationView, error)
}

type CommentService interface {
	List(ctx context.Context, session security.Session, applicationID string) ([]domain.ThreadNode, error)
	Post(ctx context.Context, session security.Session, applicationID string, parentID *string, content string) (*domain.Comment, error)
	Edit(ctx context.Context, session security.Session, commentID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, session security.Session, commentID string) error
	Participants(ctx context.Context, session security.Session, applicationID string) ([]domain.Participant, error)
	Mentions(ctx context.Context, session security.Session, applicationID, text string, cursor int) (*MentionSuggestions, error)
}

type DocumentRequestService interface {
	Create(ctx context.Context, session security.Session, in DocumentRequestInput) (*domain.DocumentRequest, error)
	Cancel(ctx context.Context, session security.Session, requestID string) error
	Fulfill(ctx context.Context, session security.Session, requestID, documentPath string) (*domain.DocumentRequest, error)
	ListForApplication(ctx context.Context, session security.Session, applicationID string) ([]domain.DocumentRequest, error)
}

type DocumentService interface {
	Upload(ctx context.Context, session security.Session, in UploadInput, r io.Reader) (*UploadResult, error)
	SignedURL(ctx context.Context, session security.Session, key string) (*SignedURL, error)
	// Open serves a signed download; the signature stands in for the session.
	Open(ctx context.Context, key string, expires int64, token string) (io.ReadCloser, error)
}

// NotifyService backs the notification functions.
type NotifyService interface {
	NotifyDocumentRequest(ctx context.Context, in NotifyDocumentRequestInput) (string, error)
	NotifyNewContent(ctx context.Context, in NewContentInput) (*NewContentResult, error)
	// HandleFanOut executes a fan-out job taken from the queue.
	HandleFanOut(ctx context.Context, body []byte) error
}

type ContactService interface {
	Send(ctx context.Context, req domain.ContactRequest) (*ContactResult, error)
}

type NewsService interface {
	Search(ctx context.Context, q domain.NewsQuery) (*domain.NewsResult, error)
}

type ContentService interface {
	ListContent(ctx context.Context, kind domain.ContentKind) ([]domain.LabelContent, error)
	CreateContent(ctx context.Context, session security.Session, content *domain.LabelContent) (*NewContentResult, error)
	Directory(ctx context.Context, sector string) ([]domain.Startup, error)
	Stats(ctx context.Context) ([]domain.PlatformStat, error)
}

type NotificationService interface {
	List(ctx context.Context, session security.Session, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkRead(ctx context.Context, session security.Session, notificationID string) error
	RegisterPushToken(ctx context.Context, session security.Session, token string) error
	// Notify stores an in-app notification and pushes it to the user's devices.
	Notify(ctx context.Context, note *domain.Notification) error
	NotifyMany(ctx context.Context, userIDs []string, template domain.Notification) (int, error)
}

// EmailService renders and sends the portal's transactional emails. Each call returns the
// provider's message id.
type EmailService interface {
	SendDocumentRequest(ctx context.Context, to Recipient, startupName, documentLabel, message string) (string, error)
	SendDocumentRequestReminder(ctx context.Context, to Recipient, startupName, documentLabel string, requestedAt time.Time) (string, error)
	SendApplicationStatus(ctx context.Context, to Recipient, startupName string, status domain.ApplicationStatus, notes string) (string, error)
	SendContactConfirmation(ctx context.Context, req domain.ContactRequest) (string, error)
	SendContactNotification(ctx context.Context, req domain.ContactRequest) (string, error)
}

// PushService delivers device notifications. It returns the tokens the provider reported as
// no longer registered.
type PushService interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error)
}

// EventPublisher broadcasts realtime events on a per-application channel. Publishing is
// best effort and never fails the caller.
type EventPublisher interface {
	Publish(channel, event string, payload any)
}

// FanOutQueue hands fan-out jobs to a worker.
type FanOutQueue interface {
	Publish(ctx context.Context, body []byte) error
}
