package http

import (
	"context"
	"encoding/json"
	"io"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email string, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, session security.Session) (*service.Account, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Account), args.Error(1)
}

func (m *MockAuthService) AssignRole(ctx context.Context, session security.Session, userID string, role domain.Role) error {
	args := m.Called(ctx, session, userID, role)
	return args.Error(0)
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

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Load(ctx context.Context, session security.Session) ([]service.ApplicationView, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ApplicationView), args.Error(1)
}

func (m *MockDashboardService) LoadOne(ctx context.Context, session security.Session, applicationID string) (*service.ApplicationView, error) {
	args := m.Called(ctx, session, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApplicationView), args.Error(1)
}

type MockEvaluationService struct {
	mock.Mock
}

func (m *MockEvaluationService) Save(ctx context.Context, session security.Session, applicationID string, in service.EvaluationInput, mode service.SaveMode) (*domain.Evaluation, error) {
	args := m.Called(ctx, session, applicationID, in, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationService) GetMine(ctx context.Context, session security.Session, applicationID string) (*domain.Evaluation, error) {
	args := m.Called(ctx, session, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationService) ListForApplication(ctx context.Context, session security.Session, applicationID string) ([]service.EvaluationView, error) {
	args := m.Called(ctx, session, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.EvaluationView), args.Error(1)
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

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, session security.Session, applicationID string) ([]domain.ThreadNode, error) {
	args := m.Called(ctx, session, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ThreadNode), args.Error(1)
}

func (m *MockCommentService) Post(ctx context.Context, session security.Session, applicationID string, parentID *string, content string) (*domain.Comment, error) {
	args := m.Called(ctx, session, applicationID, parentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentService) Edit(ctx context.Context, session security.Session, commentID string, content string) (*domain.Comment, error) {
	args := m.Called(ctx, session, commentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, session security.Session, commentID string) error {
	args := m.Called(ctx, session, commentID)
	return args.Error(0)
}

func (m *MockCommentService) Participants(ctx context.Context, session security.Session, applicationID string) ([]domain.Participant, error) {
	args := m.Called(ctx, session, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}

func (m *MockCommentService) Mentions(ctx context.Context, session security.Session, applicationID string, text string, cursor int) (*service.MentionSuggestions, error) {
	args := m.Called(ctx, session, applicationID, text, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MentionSuggestions), args.Error(1)
}

type MockDocumentRequestService struct {
	mock.Mock
}

func (m *MockDocumentRequestService) Create(ctx context.Context, session security.Session, in service.DocumentRequestInput) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, session, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestService) Cancel(ctx context.Context, session security.Session, requestID string) error {
	args := m.Called(ctx, session, requestID)
	return args.Error(0)
}

func (m *MockDocumentRequestService) Fulfill(ctx context.Context, session security.Session, requestID string, documentPath string) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, session, requestID, documentPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestService) ListForApplication(ctx context.Context, session security.Session, applicationID string) ([]domain.DocumentRequest, error) {
	args := m.Called(ctx, session, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRequest), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, session security.Session, in service.UploadInput, r io.Reader) (*service.UploadResult, error) {
	args := m.Called(ctx, session, in, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) SignedURL(ctx context.Context, session security.Session, key string) (*service.SignedURL, error) {
	args := m.Called(ctx, session, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignedURL), args.Error(1)
}

func (m *MockDocumentService) Open(ctx context.Context, key string, expires int64, token string) (io.ReadCloser, error) {
	args := m.Called(ctx, key, expires, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

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

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) ListContent(ctx context.Context, kind domain.ContentKind) ([]domain.LabelContent, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LabelContent), args.Error(1)
}

func (m *MockContentService) CreateContent(ctx context.Context, session security.Session, content *domain.LabelContent) (*service.NewContentResult, error) {
	args := m.Called(ctx, session, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NewContentResult), args.Error(1)
}

func (m *MockContentService) Directory(ctx context.Context, sector string) ([]domain.Startup, error) {
	args := m.Called(ctx, sector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Startup), args.Error(1)
}

func (m *MockContentService) Stats(ctx context.Context) ([]domain.PlatformStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlatformStat), args.Error(1)
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

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Send(ctx context.Context, req domain.ContactRequest) (*service.ContactResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContactResult), args.Error(1)
}

type MockNewsService struct {
	mock.Mock
}

func (m *MockNewsService) Search(ctx context.Context, q domain.NewsQuery) (*domain.NewsResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NewsResult), args.Error(1)
}
