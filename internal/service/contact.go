package service

import (
	"context"
	"fmt"
	"strings"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/validation"
)

type ContactResult struct {
	Success        bool   `json:"success"`
	ConfirmationID string `json:"confirmationId"`
	NotificationID string `json:"notificationId"`
}

type contactService struct {
	contactRepo repository.ContactRepository
	emailSvc    EmailService
}

func NewContactService(contactRepo repository.ContactRepository, emailSvc EmailService) ContactService {
	return &contactService{contactRepo: contactRepo, emailSvc: emailSvc}
}

func normalizeContact(req domain.ContactRequest) domain.ContactRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.CompanyEmail = strings.ToLower(strings.TrimSpace(req.CompanyEmail))
	return req
}

// Send validates the form, keeps a copy, then sends the team notification and the sender's
// confirmation. Both emails must go out for the call to succeed.
func (s *contactService) Send(ctx context.Context, req domain.ContactRequest) (*ContactResult, error) {
	req = normalizeContact(req)
	if err := validation.Struct(req, domain.ContactFieldMessages); err != nil {
		return nil, err
	}

	msg := &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		logger.Warn("Failed to store contact message", "error", err)
	}

	notificationID, err := s.emailSvc.SendContactNotification(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("send contact notification: %w", err)
	}
	confirmationID, err := s.emailSvc.SendContactConfirmation(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("send contact confirmation: %w", err)
	}
	logger.Info("Contact message sent", "messageID", msg.ID, "notificationID", notificationID, "confirmationID", confirmationID)
	return &ContactResult{Success: true, ConfirmationID: confirmationID, NotificationID: notificationID}, nil
}
