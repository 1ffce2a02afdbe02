package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
)

const maxCommentLength = 2000

// Realtime event names published on an application's channel.
const (
	EventCommentCreated = "comment.created"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"
)

// ApplicationChannel names the realtime channel of an application's thread.
func ApplicationChannel(applicationID string) string {
	return "application:" + applicationID
}

// MentionSuggestions is the participant list matching the "@token" at the cursor.
type MentionSuggestions struct {
	Active       bool                 `json:"active"`
	Query        string               `json:"query"`
	Start        int                  `json:"start"`
	Participants []domain.Participant `json:"participants"`
}

type commentService struct {
	commentRepo repository.CommentRepository
	appRepo     repository.ApplicationRepository
	evalRepo    repository.EvaluationRepository
	userRepo    repository.UserRepository
	notifier    NotificationService
	publisher   EventPublisher
	editWindow  time.Duration
	now         func() time.Time
}

type noopPublisher struct{}

func (noopPublisher) Publish(channel, event string, payload any) {}

func NewCommentService(
	commentRepo repository.CommentRepository,
	appRepo repository.ApplicationRepository,
	evalRepo repository.EvaluationRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	publisher EventPublisher,
	editWindow time.Duration,
) CommentService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if editWindow <= 0 {
		editWindow = domain.DefaultEditWindow
	}
	return &commentService{
		commentRepo: commentRepo,
		appRepo:     appRepo,
		evalRepo:    evalRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		publisher:   publisher,
		editWindow:  editWindow,
		now:         time.Now,
	}
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.NewValidationError("content", "Le commentaire ne peut pas être vide")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", domain.NewValidationError("content", fmt.Sprintf("Le commentaire ne doit pas dépasser %d caractères", maxCommentLength))
	}
	return content, nil
}

func (s *commentService) List(ctx context.Context, session security.Session, applicationID string) ([]domain.ThreadNode, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return domain.BuildThread(comments).Nodes(session.UserID, s.now(), s.editWindow), nil
}

func (s *commentService) Post(ctx context.Context, session security.Session, applicationID string, parentID *string, content string) (*domain.Comment, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}

	// Replies nest one level: answering a reply attaches to its top-level comment.
	if parentID != nil && *parentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ApplicationID != applicationID {
			return nil, domain.NewValidationError("parent_id", "Le commentaire parent appartient à une autre candidature")
		}
		root := parent.ID
		if parent.ParentID != nil {
			root = *parent.ParentID
		}
		parentID = &root
	} else {
		parentID = nil
	}

	c := &domain.Comment{
		ApplicationID: applicationID,
		AuthorID:      session.UserID,
		ParentID:      parentID,
		Content:       content,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if p, err := s.userRepo.GetProfile(ctx, session.UserID); err == nil {
		c.AuthorName = p.DisplayName()
	}

	s.publisher.Publish(ApplicationChannel(applicationID), EventCommentCreated, c)
	s.notifyMentions(ctx, session, c)
	return c, nil
}

func (s *commentService) notifyMentions(ctx context.Context, session security.Session, c *domain.Comment) {
	participants, err := s.participants(ctx, c.ApplicationID)
	if err != nil {
		logger.Warn("Failed to load participants for mentions", "applicationID", c.ApplicationID, "error", err)
		return
	}
	author := c.AuthorName
	if author == "" {
		author = "Un évaluateur"
	}
	for _, p := range domain.MentionedParticipants(c.Content, participants) {
		if p.UserID == session.UserID {
			continue
		}
		note := &domain.Notification{
			UserID:  p.UserID,
			Kind:    domain.NotificationKindMention,
			Title:   "Vous avez été mentionné",
			Message: fmt.Sprintf("%s vous a mentionné dans une discussion.", author),
			Link:    "/admin/applications/" + c.ApplicationID + "#discussion",
			Attributes: map[string]string{
				"application_id": c.ApplicationID,
				"comment_id":     c.ID,
			},
		}
		if err := s.notifier.Notify(ctx, note); err != nil {
			logger.Warn("Failed to notify mention", "userID", p.UserID, "error", err)
		}
	}
}

// authorize loads a comment and checks the caller may change it: the author within the edit
// window, or an admin for deletions.
func (s *commentService) authorize(ctx context.Context, session security.Session, commentID string, adminOverride bool) (*domain.Comment, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if adminOverride && session.Role.CanAdminister() {
		return c, nil
	}
	if c.AuthorID != session.UserID {
		return nil, domain.ErrForbidden
	}
	if !c.CanEdit(session.UserID, s.now(), s.editWindow) {
		return nil, domain.ErrEditWindowClosed
	}
	return c, nil
}

func (s *commentService) Edit(ctx context.Context, session security.Session, commentID, content string) (*domain.Comment, error) {
	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}
	c, err := s.authorize(ctx, session, commentID, false)
	if err != nil {
		return nil, err
	}
	updatedAt, err := s.commentRepo.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	c.Content = content
	c.IsEdited = true
	c.UpdatedAt = updatedAt

	s.publisher.Publish(ApplicationChannel(c.ApplicationID), EventCommentUpdated, c)
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, session security.Session, commentID string) error {
	c, err := s.authorize(ctx, session, commentID, true)
	if err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.publisher.Publish(ApplicationChannel(c.ApplicationID), EventCommentDeleted, map[string]string{
		"id":             c.ID,
		"application_id": c.ApplicationID,
	})
	return nil
}

func (s *commentService) Participants(ctx context.Context, session security.Session, applicationID string) ([]domain.Participant, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	return s.participants(ctx, applicationID)
}

// participants are all evaluators and admins, plus anyone who already evaluated or commented
// on the application, sorted by name.
func (s *commentService) participants(ctx context.Context, applicationID string) ([]domain.Participant, error) {
	roles := map[string]domain.Role{}
	var ids []string
	add := func(id string, role domain.Role) {
		if id == "" {
			return
		}
		if cur, ok := roles[id]; ok {
			if role.Rank() > cur.Rank() {
				roles[id] = role
			}
			return
		}
		roles[id] = role
		ids = append(ids, id)
	}

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleEvaluator} {
		userIDs, err := s.userRepo.ListUserIDsByRole(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("list %s users: %w", role, err)
		}
		for _, id := range userIDs {
			add(id, role)
		}
	}
	evals, err := s.evalRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	for _, e := range evals {
		add(e.EvaluatorID, domain.RoleEvaluator)
	}
	comments, err := s.commentRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		add(c.AuthorID, domain.RoleEvaluator)
	}
	if len(ids) == 0 {
		return []domain.Participant{}, nil
	}

	profiles, err := s.userRepo.ListProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	out := make([]domain.Participant, 0, len(profiles))
	for i := range profiles {
		name := profiles[i].DisplayName()
		if name == "" {
			continue
		}
		out = append(out, domain.Participant{
			UserID:   profiles[i].UserID,
			FullName: name,
			Role:     roles[profiles[i].UserID],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].FullName) < strings.ToLower(out[j].FullName)
	})
	return out, nil
}

func (s *commentService) Mentions(ctx context.Context, session security.Session, applicationID, text string, cursor int) (*MentionSuggestions, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	query, start, ok := domain.MentionQuery(text, cursor)
	if !ok {
		return &MentionSuggestions{Start: -1, Participants: []domain.Participant{}}, nil
	}
	participants, err := s.participants(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return &MentionSuggestions{
		Active:       true,
		Query:        query,
		Start:        start,
		Participants: domain.FilterParticipants(participants, query),
	}, nil
}
