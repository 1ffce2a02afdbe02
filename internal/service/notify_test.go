package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notifyMocks struct {
	appRepo     *MockApplicationRepo
	startupRepo *MockStartupRepo
	userRepo    *MockUserRepo
	emailSvc    *MockEmailService
	notifier    *MockNotificationService
	queue       *MockFanOutQueue
}

func newNotifyService(withQueue bool) (service.NotifyService, *notifyMocks) {
	m := &notifyMocks{
		appRepo:     new(MockApplicationRepo),
		startupRepo: new(MockStartupRepo),
		userRepo:    new(MockUserRepo),
		emailSvc:    new(MockEmailService),
		notifier:    new(MockNotificationService),
		queue:       new(MockFanOutQueue),
	}
	var queue service.FanOutQueue
	if withQueue {
		queue = m.queue
	}
	return service.NewNotifyService(m.appRepo, m.startupRepo, m.userRepo, m.emailSvc, m.notifier, queue), m
}

func TestNotifyService_NotifyDocumentRequest(t *testing.T) {
	ctx := context.Background()
	in := service.NotifyDocumentRequestInput{ApplicationID: "app-1", DocumentType: "statutes", DocumentLabel: "Statuts signés", Message: "Merci"}

	t.Run("Emails the applicant", func(t *testing.T) {
		svc, m := newNotifyService(false)
		m.appRepo.On("GetByID", ctx, "app-1").Return(&domain.Application{ID: "app-1", StartupID: "st-1", ApplicantID: "founder-1"}, nil).Once()
		m.startupRepo.On("GetByID", ctx, "st-1").Return(&domain.Startup{ID: "st-1", Name: "Kiosque"}, nil).Once()
		m.userRepo.On("GetProfile", ctx, "founder-1").Return(&domain.Profile{FullName: "", Email: ""}, nil).Once()
		m.userRepo.On("GetByID", ctx, "founder-1").Return(&domain.User{ID: "founder-1", Email: "yao@kiosque.ci"}, nil).Once()
		m.emailSvc.On("SendDocumentRequest", ctx, service.Recipient{Email: "yao@kiosque.ci"}, "Kiosque", "Statuts signés", "Merci").Return("email-1", nil).Once()

		id, err := svc.NotifyDocumentRequest(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, "email-1", id)
	})

	t.Run("Missing field", func(t *testing.T) {
		svc, _ := newNotifyService(false)
		bad := in
		bad.DocumentLabel = ""

		_, err := svc.NotifyDocumentRequest(ctx, bad)

		assert.True(t, domain.IsValidationError(err))
	})
}

func TestNotifyService_NotifyNewContent(t *testing.T) {
	ctx := context.Background()
	in := service.NewContentInput{ContentType: "event", ContentID: "ev-1", Title: "Demo Day"}

	t.Run("Inline fan-out without a queue", func(t *testing.T) {
		svc, m := newNotifyService(false)
		m.appRepo.On("ListApplicantIDsByStatus", ctx, domain.ApplicationStatusApproved).Return([]string{"u1", "u2", "u1"}, nil).Once()
		m.notifier.On("NotifyMany", ctx, []string{"u1", "u2"}, mock.MatchedBy(func(n domain.Notification) bool {
			return n.Kind == domain.NotificationKindNewContent && n.Attributes["content_id"] == "ev-1"
		})).Return(2, nil).Once()

		res, err := svc.NotifyNewContent(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, 2, res.Notified)
		assert.False(t, res.Queued)
	})

	t.Run("Queued fan-out", func(t *testing.T) {
		svc, m := newNotifyService(true)
		m.appRepo.On("ListApplicantIDsByStatus", ctx, domain.ApplicationStatusApproved).Return([]string{"u1"}, nil).Once()
		m.queue.On("Publish", ctx, mock.AnythingOfType("[]uint8")).Return(nil).Once()

		res, err := svc.NotifyNewContent(ctx, in)

		require.NoError(t, err)
		assert.True(t, res.Queued)
		assert.Equal(t, 1, res.Notified)
		m.notifier.AssertNotCalled(t, "NotifyMany", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Queue failure falls back to inline", func(t *testing.T) {
		svc, m := newNotifyService(true)
		m.appRepo.On("ListApplicantIDsByStatus", ctx, domain.ApplicationStatusApproved).Return([]string{"u1"}, nil).Once()
		m.queue.On("Publish", ctx, mock.Anything).Return(errors.New("channel closed")).Once()
		m.notifier.On("NotifyMany", ctx, []string{"u1"}, mock.Anything).Return(1, nil).Once()

		res, err := svc.NotifyNewContent(ctx, in)

		require.NoError(t, err)
		assert.False(t, res.Queued)
		assert.Equal(t, 1, res.Notified)
	})

	t.Run("No labeled startup", func(t *testing.T) {
		svc, m := newNotifyService(false)
		m.appRepo.On("ListApplicantIDsByStatus", ctx, domain.ApplicationStatusApproved).Return([]string{}, nil).Once()

		res, err := svc.NotifyNewContent(ctx, in)

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Zero(t, res.Notified)
	})

	t.Run("Unknown content type", func(t *testing.T) {
		svc, _ := newNotifyService(false)
		bad := in
		bad.ContentType = "podcast"

		_, err := svc.NotifyNewContent(ctx, bad)

		assert.True(t, domain.IsValidationError(err))
	})
}

func TestNotifyService_HandleFanOut(t *testing.T) {
	ctx := context.Background()
	svc, m := newNotifyService(true)

	// Capture the queued body, then feed it back the way the worker does.
	var body []byte
	m.appRepo.On("ListApplicantIDsByStatus", ctx, domain.ApplicationStatusApproved).Return([]string{"u1", "u2"}, nil).Once()
	m.queue.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
		body = args.Get(1).([]byte)
	}).Return(nil).Once()

	_, err := svc.NotifyNewContent(ctx, service.NewContentInput{ContentType: "opportunity", ContentID: "op-1", Title: "Appel à projets"})
	require.NoError(t, err)
	require.True(t, json.Valid(body))

	m.notifier.On("NotifyMany", ctx, []string{"u1", "u2"}, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Attributes["content_type"] == "opportunity"
	})).Return(2, nil).Once()

	assert.NoError(t, svc.HandleFanOut(ctx, body))
	assert.Error(t, svc.HandleFanOut(ctx, []byte("not json")))
	m.notifier.AssertExpectations(t)
}
