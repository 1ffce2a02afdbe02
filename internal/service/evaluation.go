package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/validation"
)

type SaveMode string

const (
	SaveModeDraft  SaveMode = "draft"
	SaveModeSubmit SaveMode = "submit"
)

func ParseSaveMode(s string) (SaveMode, bool) {
	switch SaveMode(s) {
	case SaveModeDraft, SaveModeSubmit:
		return SaveMode(s), true
	}
	return "", false
}

// EvaluationInput is the evaluation form. Recommendation may stay empty on drafts.
type EvaluationInput struct {
	domain.Scores
	InnovationComment    string                `json:"innovation_comment" validate:"max=2000"`
	BusinessModelComment string                `json:"business_model_comment" validate:"max=2000"`
	TeamComment          string                `json:"team_comment" validate:"max=2000"`
	ImpactComment        string                `json:"impact_comment" validate:"max=2000"`
	Recommendation       domain.Recommendation `json:"recommendation" validate:"omitempty,oneof=approve reject pending"`
	GeneralComment       string                `json:"general_comment" validate:"max=5000"`
}

var evaluationFieldMessages = map[string]string{
	"innovation_score":     "La note d'innovation doit être comprise entre 0 et 20",
	"business_model_score": "La note de modèle économique doit être comprise entre 0 et 20",
	"team_score":           "La note d'équipe doit être comprise entre 0 et 20",
	"impact_score":         "La note d'impact doit être comprise entre 0 et 20",
	"recommendation":       "Recommandation invalide",
}

// EvaluationView is an evaluation with its evaluator's display name.
type EvaluationView struct {
	domain.Evaluation
	EvaluatorName string `json:"evaluator_name"`
}

// UnknownEvaluatorName is shown when an evaluator's profile could not be loaded.
const UnknownEvaluatorName = "Évaluateur inconnu"

type evaluationService struct {
	evalRepo repository.EvaluationRepository
	appRepo  repository.ApplicationRepository
	userRepo repository.UserRepository
	voting   VotingService
	now      func() time.Time
}

func NewEvaluationService(
	evalRepo repository.EvaluationRepository,
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	voting VotingService,
) EvaluationService {
	return &evaluationService{
		evalRepo: evalRepo,
		appRepo:  appRepo,
		userRepo: userRepo,
		voting:   voting,
		now:      time.Now,
	}
}

// Save creates or updates the caller's evaluation of an application. The stored row is only
// replaced once the new values are complete; a submitted evaluation is read-only.
func (s *evaluationService) Save(ctx context.Context, session security.Session, applicationID string, in EvaluationInput, mode SaveMode) (*domain.Evaluation, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	if err := validation.Struct(in, evaluationFieldMessages); err != nil {
		return nil, err
	}
	if mode == SaveModeSubmit && in.Recommendation == "" {
		return nil, domain.NewValidationError("recommendation", "Une recommandation est requise pour soumettre l'évaluation")
	}
	logger.EnterMethod("evaluationService.Save", "applicationID", applicationID, "mode", mode)

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.Status.IsOpen() {
		return nil, fmt.Errorf("application is %s: %w", app.Status, domain.ErrInvalidTransition)
	}

	existing, err := s.evalRepo.GetByApplicationAndEvaluator(ctx, applicationID, session.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsSubmitted {
		return nil, domain.ErrEvaluationLocked
	}

	eval := &domain.Evaluation{
		ApplicationID:        applicationID,
		EvaluatorID:          session.UserID,
		Scores:               in.Scores,
		InnovationComment:    in.InnovationComment,
		BusinessModelComment: in.BusinessModelComment,
		TeamComment:          in.TeamComment,
		ImpactComment:        in.ImpactComment,
		Recommendation:       in.Recommendation,
		GeneralComment:       in.GeneralComment,
		TotalScore:           in.Scores.TotalScore(),
	}
	if eval.Recommendation == "" {
		eval.Recommendation = domain.RecommendationPending
	}
	if mode == SaveModeSubmit {
		now := s.now()
		eval.IsSubmitted = true
		eval.SubmittedAt = &now
	}

	if existing == nil {
		err = s.evalRepo.Create(ctx, eval)
	} else {
		eval.ID = existing.ID
		eval.CreatedAt = existing.CreatedAt
		err = s.evalRepo.Update(ctx, eval)
	}
	if err != nil {
		logger.ExitMethodWithError("evaluationService.Save", err)
		return nil, fmt.Errorf("save evaluation: %w", err)
	}

	if eval.IsSubmitted {
		s.afterSubmit(ctx, app)
	}
	logger.ExitMethod("evaluationService.Save", "evaluationID", eval.ID, "totalScore", eval.TotalScore)
	return eval, nil
}

// afterSubmit moves a pending application into review and refreshes the voting cache. The
// evaluation is already stored, so failures here are logged and left to the reconcile job.
func (s *evaluationService) afterSubmit(ctx context.Context, app *domain.Application) {
	if app.Status == domain.ApplicationStatusPending {
		if err := s.appRepo.UpdateStatus(ctx, app.ID, domain.ApplicationStatusUnderReview, app.Notes); err != nil {
			logger.Warn("Failed to move application under review", "applicationID", app.ID, "error", err)
		}
	}
	if _, err := s.voting.Recompute(ctx, app.ID); err != nil {
		logger.Warn("Failed to recompute voting decision", "applicationID", app.ID, "error", err)
	}
}

func (s *evaluationService) GetMine(ctx context.Context, session security.Session, applicationID string) (*domain.Evaluation, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	return s.evalRepo.GetByApplicationAndEvaluator(ctx, applicationID, session.UserID)
}

func (s *evaluationService) ListForApplication(ctx context.Context, session security.Session, applicationID string) ([]EvaluationView, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	evals, err := s.evalRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	names, err := evaluatorNames(ctx, s.userRepo, evals)
	if err != nil {
		return nil, err
	}
	return evaluationViews(evals, names), nil
}

func evaluatorNames(ctx context.Context, userRepo repository.UserRepository, evals []domain.Evaluation) (map[string]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, e := range evals {
		if !seen[e.EvaluatorID] {
			seen[e.EvaluatorID] = true
			ids = append(ids, e.EvaluatorID)
		}
	}
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	profiles, err := userRepo.ListProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load evaluator profiles: %w", err)
	}
	for i := range profiles {
		names[profiles[i].UserID] = profiles[i].DisplayName()
	}
	return names, nil
}

func evaluationViews(evals []domain.Evaluation, names map[string]string) []EvaluationView {
	out := make([]EvaluationView, 0, len(evals))
	for _, e := range evals {
		name := names[e.EvaluatorID]
		if name == "" {
			name = UnknownEvaluatorName
		}
		out = append(out, EvaluationView{Evaluation: e, EvaluatorName: name})
	}
	return out
}
