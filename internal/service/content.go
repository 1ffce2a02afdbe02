package service

import (
	"context"
	"fmt"
	"strings"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/validation"
)

type contentService struct {
	contentRepo repository.ContentRepository
	startupRepo repository.StartupRepository
	statsRepo   repository.StatsRepository
	notify      NotifyService
}

func NewContentService(
	contentRepo repository.ContentRepository,
	startupRepo repository.StartupRepository,
	statsRepo repository.StatsRepository,
	notify NotifyService,
) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		startupRepo: startupRepo,
		statsRepo:   statsRepo,
		notify:      notify,
	}
}

func (s *contentService) ListContent(ctx context.Context, kind domain.ContentKind) ([]domain.LabelContent, error) {
	return s.contentRepo.ListPublished(ctx, kind)
}

// CreateContent stores the item and, when published, notifies labeled startups.
func (s *contentService) CreateContent(ctx context.Context, session security.Session, content *domain.LabelContent) (*NewContentResult, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	if _, ok := domain.ParseContentKind(string(content.Kind)); !ok {
		return nil, domain.NewValidationError("kind", "Type de contenu inconnu")
	}
	content.Title = strings.TrimSpace(content.Title)
	if err := validation.Struct(content, nil); err != nil {
		return nil, err
	}
	content.CreatedBy = session.UserID
	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	if !content.IsPublished {
		return &NewContentResult{Success: true}, nil
	}

	res, err := s.notify.NotifyNewContent(ctx, NewContentInput{
		ContentType: string(content.Kind),
		ContentID:   content.ID,
		Title:       content.Title,
		Message:     content.Summary,
	})
	if err != nil {
		logger.Warn("Failed to notify new content", "contentID", content.ID, "error", err)
		return &NewContentResult{Success: true}, nil
	}
	return res, nil
}

func (s *contentService) Directory(ctx context.Context, sector string) ([]domain.Startup, error) {
	return s.startupRepo.ListDirectory(ctx, strings.TrimSpace(sector))
}

func (s *contentService) Stats(ctx context.Context) ([]domain.PlatformStat, error) {
	return s.statsRepo.List(ctx)
}
