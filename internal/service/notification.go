package service

import (
	"context"
	"fmt"
	"strings"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type notificationService struct {
	noteRepo  repository.NotificationRepository
	tokenRepo repository.PushTokenRepository
	push      PushService
}

func NewNotificationService(noteRepo repository.NotificationRepository, tokenRepo repository.PushTokenRepository, push PushService) NotificationService {
	if push == nil {
		push = NewDisabledPush()
	}
	return &notificationService{noteRepo: noteRepo, tokenRepo: tokenRepo, push: push}
}

func (s *notificationService) List(ctx context.Context, session security.Session, page, pageSize int32) ([]domain.Notification, int32, error) {
	if err := session.RequireAuth(); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, session.UserID, pageSize, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, session security.Session, notificationID string) error {
	if err := session.RequireAuth(); err != nil {
		return err
	}
	return s.noteRepo.MarkAsRead(ctx, notificationID, session.UserID)
}

func (s *notificationService) RegisterPushToken(ctx context.Context, session security.Session, token string) error {
	if err := session.RequireAuth(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" || len(token) > 4096 {
		return domain.NewValidationError("token", "Jeton de notification invalide")
	}
	return s.tokenRepo.Upsert(ctx, &domain.PushToken{UserID: session.UserID, Token: token})
}

func (s *notificationService) Notify(ctx context.Context, note *domain.Notification) error {
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	s.pushTo(ctx, []string{note.UserID}, *note)
	return nil
}

// NotifyMany stores one copy of template per user and returns how many were stored. A failure
// for one user does not stop the others.
func (s *notificationService) NotifyMany(ctx context.Context, userIDs []string, template domain.Notification) (int, error) {
	notified := 0
	var firstErr error
	for _, id := range userIDs {
		note := template
		note.ID = ""
		note.UserID = id
		if err := s.noteRepo.Create(ctx, &note); err != nil {
			logger.Error("Failed to create notification", "userID", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		notified++
	}
	if notified == 0 && firstErr != nil {
		return 0, fmt.Errorf("create notifications: %w", firstErr)
	}
	s.pushTo(ctx, userIDs, template)
	return notified, nil
}

// pushTo is best effort; stale device tokens are removed.
func (s *notificationService) pushTo(ctx context.Context, userIDs []string, note domain.Notification) {
	tokens, err := s.tokenRepo.ListByUsers(ctx, userIDs)
	if err != nil {
		logger.Warn("Failed to load push tokens", "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}
	values := make([]string, 0, len(tokens))
	for _, t := range tokens {
		values = append(values, t.Token)
	}
	data := map[string]string{"kind": string(note.Kind), "link": note.Link}
	stale, err := s.push.Send(ctx, values, note.Title, note.Message, data)
	if err != nil {
		logger.Warn("Push delivery failed", "error", err)
	}
	if len(stale) > 0 {
		if err := s.tokenRepo.DeleteTokens(ctx, stale); err != nil {
			logger.Warn("Failed to delete stale push tokens", "error", err)
		}
	}
}
