package service_test

import (
	"context"
	"encoding/json"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockUserRepo) ListProfiles(ctx context.Context, userIDs []string) ([]domain.Profile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockUserRepo) AddRole(ctx context.Context, userID string, role domain.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockUserRepo) ListRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *MockUserRepo) ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockStartupRepo struct {
	mock.Mock
}

func (m *MockStartupRepo) GetByID(ctx context.Context, id string) (*domain.Startup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Startup), args.Error(1)
}

func (m *MockStartupRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Startup, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Startup), args.Error(1)
}

func (m *MockStartupRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Startup, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Startup), args.Error(1)
}

func (m *MockStartupRepo) UpdateDocuments(ctx context.Context, startup *domain.Startup) error {
	args := m.Called(ctx, startup)
	return args.Error(0)
}

func (m *MockStartupRepo) ListDirectory(ctx context.Context, sector string) ([]domain.Startup, error) {
	args := m.Called(ctx, sector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Startup), args.Error(1)
}

func (m *MockStartupRepo) CountLabeled(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Submit(ctx context.Context, startup *domain.Startup, app *domain.Application) error {
	args := m.Called(ctx, startup, app)
	return args.Error(0)
}

func (m *MockApplicationRepo) Transition(ctx context.Context, change domain.StatusChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByStatuses(ctx context.Context, statuses []domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

func (m *MockApplicationRepo) ListApplicantIDsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]string, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockApplicationRepo) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ApplicationStatus]int64), args.Error(1)
}

type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Get(ctx context.Context, userID string) (*domain.ApplicationDraft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationDraft), args.Error(1)
}

func (m *MockDraftRepo) Upsert(ctx context.Context, draft *domain.ApplicationDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftRepo) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockDraftRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockEvaluationRepo struct {
	mock.Mock
}

func (m *MockEvaluationRepo) Create(ctx context.Context, eval *domain.Evaluation) error {
	args := m.Called(ctx, eval)
	return args.Error(0)
}

func (m *MockEvaluationRepo) Update(ctx context.Context, eval *domain.Evaluation) error {
	args := m.Called(ctx, eval)
	return args.Error(0)
}

func (m *MockEvaluationRepo) GetByApplicationAndEvaluator(ctx context.Context, applicationID string, evaluatorID string) (*domain.Evaluation, error) {
	args := m.Called(ctx, applicationID, evaluatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.Evaluation, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepo) ListByApplications(ctx context.Context, applicationIDs []string) ([]domain.Evaluation, error) {
	args := m.Called(ctx, applicationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepo) CountSubmitted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockVotingRepo struct {
	mock.Mock
}

func (m *MockVotingRepo) Get(ctx context.Context, applicationID string) (*domain.VotingDecision, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VotingDecision), args.Error(1)
}

func (m *MockVotingRepo) ListByApplications(ctx context.Context, applicationIDs []string) ([]domain.VotingDecision, error) {
	args := m.Called(ctx, applicationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VotingDecision), args.Error(1)
}

func (m *MockVotingRepo) SaveResult(ctx context.Context, applicationID string, result domain.VotingResult) error {
	args := m.Called(ctx, applicationID, result)
	return args.Error(0)
}

func (m *MockVotingRepo) SetQuorum(ctx context.Context, applicationID string, quorum int) error {
	args := m.Called(ctx, applicationID, quorum)
	return args.Error(0)
}

type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.Comment, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *MockCommentRepo) UpdateContent(ctx context.Context, id string, content string) (time.Time, error) {
	args := m.Called(ctx, id, content)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockCommentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDocumentRequestRepo struct {
	mock.Mock
}

func (m *MockDocumentRequestRepo) Create(ctx context.Context, req *domain.DocumentRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockDocumentRequestRepo) GetByID(ctx context.Context, id string) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.DocumentRequest, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestRepo) CountOpenByApplications(ctx context.Context, applicationIDs []string) (map[string]int, error) {
	args := m.Called(ctx, applicationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockDocumentRequestRepo) Cancel(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockDocumentRequestRepo) Fulfill(ctx context.Context, id string, documentPath string, at time.Time) error {
	args := m.Called(ctx, id, documentPath, at)
	return args.Error(0)
}

func (m *MockDocumentRequestRepo) ListOpenCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.DocumentRequest, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRequest), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit int32, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockPushTokenRepo struct {
	mock.Mock
}

func (m *MockPushTokenRepo) Upsert(ctx context.Context, token *domain.PushToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPushTokenRepo) ListByUsers(ctx context.Context, userIDs []string) ([]domain.PushToken, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PushToken), args.Error(1)
}

func (m *MockPushTokenRepo) DeleteTokens(ctx context.Context, tokens []string) error {
	args := m.Called(ctx, tokens)
	return args.Error(0)
}

type MockContentRepo struct {
	mock.Mock
}

func (m *MockContentRepo) Create(ctx context.Context, content *domain.LabelContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepo) GetByID(ctx context.Context, id string) (*domain.LabelContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LabelContent), args.Error(1)
}

func (m *MockContentRepo) ListPublished(ctx context.Context, kind domain.ContentKind) ([]domain.LabelContent, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LabelContent), args.Error(1)
}

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) List(ctx context.Context) ([]domain.PlatformStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlatformStat), args.Error(1)
}

func (m *MockStatsRepo) Upsert(ctx context.Context, key string, value int64) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Services

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, session security.Session, page int32, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, session, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, session security.Session, notificationID string) error {
	args := m.Called(ctx, session, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) RegisterPushToken(ctx context.Context, session security.Session, token string) error {
	args := m.Called(ctx, session, token)
	return args.Error(0)
}

func (m *MockNotificationService) Notify(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyMany(ctx context.Context, userIDs []string, template domain.Notification) (int, error) {
	args := m.Called(ctx, userIDs, template)
	return args.Int(0), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDocumentRequest(ctx context.Context, to service.Recipient, startupName string, documentLabel string, message string) (string, error) {
	args := m.Called(ctx, to, startupName, documentLabel, message)
	return args.String(0), args.Error(1)
}

func (m *MockEmailService) SendDocumentRequestReminder(ctx context.Context, to service.Recipient, startupName string, documentLabel string, requestedAt time.Time) (string, error) {
	args := m.Called(ctx, to, startupName, documentLabel, requestedAt)
	return args.String(0), args.Error(1)
}

func (m *MockEmailService) SendApplicationStatus(ctx context.Context, to service.Recipient, startupName string, status domain.ApplicationStatus, notes string) (string, error) {
	args := m.Called(ctx, to, startupName, status, notes)
	return args.String(0), args.Error(1)
}

func (m *MockEmailService) SendContactConfirmation(ctx context.Context, req domain.ContactRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockEmailService) SendContactNotification(ctx context.Context, req domain.ContactRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockVotingService struct {
	mock.Mock
}

func (m *MockVotingService) Recompute(ctx context.Context, applicationID string) (*domain.VotingDecision, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VotingDecision), args.Error(1)
}

func (m *MockVotingService) Get(ctx context.Context, session security.Session, applicationID string) (*domain.VotingDecision, error) {
	args := m.Called(ctx, session, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VotingDecision), args.Error(1)
}

func (m *MockVotingService) Finalize(ctx context.Context, session security.Session, applicationID string, decision domain.Decision, notes string) (*domain.VotingDecision, error) {
	args := m.Called(ctx, session, applicationID, decision, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VotingDecision), args.Error(1)
}

func (m *MockVotingService) SetQuorum(ctx context.Context, session security.Session, applicationID string, quorum int) (*domain.VotingDecision, error) {
	args := m.Called(ctx, session, applicationID, quorum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VotingDecision), args.Error(1)
}

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) GetDraft(ctx context.Context, session security.Session) (*domain.ApplicationDraft, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationDraft), args.Error(1)
}

func (m *MockApplicationService) SaveDraft(ctx context.Context, session security.Session, step int, data json.RawMessage) (*service.DraftSaveResult, error) {
	args := m.Called(ctx, session, step, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DraftSaveResult), args.Error(1)
}

func (m *MockApplicationService) DeleteDraft(ctx context.Context, session security.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockApplicationService) Submit(ctx context.Context, session security.Session) (*domain.Application, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) ChangeStatus(ctx context.Context, session security.Session, applicationID string, status domain.ApplicationStatus, notes string) (*domain.Application, error) {
	args := m.Called(ctx, session, applicationID, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) Decide(ctx context.Context, session security.Session, applicationID string, decision domain.Decision, notes string) (*domain.Application, error) {
	args := m.Called(ctx, session, applicationID, decision, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) Track(ctx context.Context, session security.Session) ([]service.TrackedApplication, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TrackedApplication), args.Error(1)
}

type MockNotifyService struct {
	mock.Mock
}

func (m *MockNotifyService) NotifyDocumentRequest(ctx context.Context, in service.NotifyDocumentRequestInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockNotifyService) NotifyNewContent(ctx context.Context, in service.NewContentInput) (*service.NewContentResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NewContentResult), args.Error(1)
}

func (m *MockNotifyService) HandleFanOut(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) Send(ctx context.Context, tokens []string, title string, body string, data map[string]string) ([]string, error) {
	args := m.Called(ctx, tokens, title, body, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(channel string, event string, payload any) {
	m.Called(channel, event, payload)
}

type MockFanOutQueue struct {
	mock.Mock
}

func (m *MockFanOutQueue) Publish(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}
