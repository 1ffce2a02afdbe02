package repository

import (
	"context"
	"time"

	"labelstartup-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Profiles
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	ListProfiles(ctx context.Context, userIDs []string) ([]domain.Profile, error)

	// Roles
	AddRole(ctx context.Context, userID string, role domain.Role) error
	ListRoles(ctx context.Context, userID string) ([]domain.Role, error)
	ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
}

type StartupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Startup, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Startup, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Startup, error)
	UpdateDocuments(ctx context.Context, startup *domain.Startup) error
	ListDirectory(ctx context.Context, sector string) ([]domain.Startup, error)
	CountLabeled(ctx context.Context) (int64, error)
}

type ApplicationRepository interface {
	// Submit creates the startup and its application in one transaction.
	Submit(ctx context.Context, startup *domain.Startup, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListByStatuses(ctx context.Context, statuses []domain.ApplicationStatus) ([]domain.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, notes string) error
	// Transition writes the status together with the startup label and the final decision it carries.
	Transition(ctx context.Context, change domain.StatusChange) error
	ListApplicantIDsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]string, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
}

type DraftRepository interface {
	Get(ctx context.Context, userID string) (*domain.ApplicationDraft, error)
	Upsert(ctx context.Context, draft *domain.ApplicationDraft) error
	Delete(ctx context.Context, userID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type EvaluationRepository interface {
	Create(ctx context.Context, eval *domain.Evaluation) error
	Update(ctx context.Context, eval *domain.Evaluation) error
	GetByApplicationAndEvaluator(ctx context.Context, applicationID, evaluatorID string) (*domain.Evaluation, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.Evaluation, error)
	ListByApplications(ctx context.Context, applicationIDs []string) ([]domain.Evaluation, error)
	CountSubmitted(ctx context.Context) (int64, error)
}

type VotingRepository interface {
	Get(ctx context.Context, applicationID string) (*domain.VotingDecision, error)
	ListByApplications(ctx context.Context, applicationIDs []string) ([]domain.VotingDecision, error)
	// SaveResult writes the calculated columns only; the final decision is left untouched.
	SaveResult(ctx context.Context, applicationID string, result domain.VotingResult) error
	SetQuorum(ctx context.Context, applicationID string, quorum int) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (time.Time, error)
	Delete(ctx context.Context, id string) error
}

type DocumentRequestRepository interface {
	Create(ctx context.Context, req *domain.DocumentRequest) error
	GetByID(ctx context.Context, id string) (*domain.DocumentRequest, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.DocumentRequest, error)
	CountOpenByApplications(ctx context.Context, applicationIDs []string) (map[string]int, error)
	Cancel(ctx context.Context, id string, at time.Time) error
	Fulfill(ctx context.Context, id, documentPath string, at time.Time) error
	ListOpenCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.DocumentRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

type PushTokenRepository interface {
	Upsert(ctx context.Context, token *domain.PushToken) error
	ListByUsers(ctx context.Context, userIDs []string) ([]domain.PushToken, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

type ContentRepository interface {
	Create(ctx context.Context, content *domain.LabelContent) error
	GetByID(ctx context.Context, id string) (*domain.LabelContent, error)
	ListPublished(ctx context.Context, kind domain.ContentKind) ([]domain.LabelContent, error)
}

type StatsRepository interface {
	List(ctx context.Context) ([]domain.PlatformStat, error)
	Upsert(ctx context.Context, key string, value int64) error
}

type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
}
