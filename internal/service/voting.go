package service

import (
	"context"
	"errors"
	"fmt"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
)

const maxQuorum = 20

type votingService struct {
	votingRepo    repository.VotingRepository
	evalRepo      repository.EvaluationRepository
	appRepo       repository.ApplicationRepository
	apps          ApplicationService
	defaultQuorum int
}

func NewVotingService(
	votingRepo repository.VotingRepository,
	evalRepo repository.EvaluationRepository,
	appRepo repository.ApplicationRepository,
	apps ApplicationService,
	defaultQuorum int,
) VotingService {
	if defaultQuorum <= 0 {
		defaultQuorum = domain.DefaultQuorum
	}
	return &votingService{
		votingRepo:    votingRepo,
		evalRepo:      evalRepo,
		appRepo:       appRepo,
		apps:          apps,
		defaultQuorum: defaultQuorum,
	}
}

// compute loads the stored row (if any) and overlays a fresh aggregate of the submitted
// evaluations. The stored calculated columns are never trusted.
func (s *votingService) compute(ctx context.Context, applicationID string) (*domain.VotingDecision, error) {
	decision, err := s.votingRepo.Get(ctx, applicationID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load voting decision: %w", err)
		}
		decision = &domain.VotingDecision{ApplicationID: applicationID}
	}
	quorum := decision.QuorumRequired
	if quorum <= 0 {
		quorum = s.defaultQuorum
	}

	evals, err := s.evalRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load evaluations: %w", err)
	}
	decision.VotingResult = domain.Aggregate(domain.SubmittedRecommendations(evals), quorum)
	return decision, nil
}

func (s *votingService) Recompute(ctx context.Context, applicationID string) (*domain.VotingDecision, error) {
	logger.EnterMethod("votingService.Recompute", "applicationID", applicationID)
	decision, err := s.compute(ctx, applicationID)
	if err != nil {
		logger.ExitMethodWithError("votingService.Recompute", err)
		return nil, err
	}
	if err := s.votingRepo.SaveResult(ctx, applicationID, decision.VotingResult); err != nil {
		logger.ExitMethodWithError("votingService.Recompute", err)
		return nil, fmt.Errorf("save voting result: %w", err)
	}
	logger.ExitMethod("votingService.Recompute", "totalVotes", decision.TotalVotes, "quorumReached", decision.QuorumReached)
	return decision, nil
}

func (s *votingService) Get(ctx context.Context, session security.Session, applicationID string) (*domain.VotingDecision, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.compute(ctx, applicationID)
}

func (s *votingService) Finalize(ctx context.Context, session security.Session, applicationID string, decision domain.Decision, notes string) (*domain.VotingDecision, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	if !domain.IsFinalDecision(decision) {
		return nil, domain.NewValidationError("decision", "La décision finale doit être « approve » ou « reject »")
	}
	if len(notes) > 2000 {
		return nil, domain.NewValidationError("notes", "Les notes ne doivent pas dépasser 2000 caractères")
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	status := domain.ApplicationStatusRejected
	if decision == domain.DecisionApprove {
		status = domain.ApplicationStatusApproved
	}
	if !app.Status.CanTransition(status) {
		return nil, fmt.Errorf("%s -> %s: %w", app.Status, status, domain.ErrInvalidTransition)
	}

	// Refresh the cached tally before the override is written.
	if _, err := s.Recompute(ctx, applicationID); err != nil {
		return nil, err
	}
	if _, err := s.apps.Decide(ctx, session, applicationID, decision, notes); err != nil {
		return nil, err
	}
	logger.Info("Final decision recorded", "applicationID", applicationID, "decision", decision, "by", session.UserID)
	return s.compute(ctx, applicationID)
}

func (s *votingService) SetQuorum(ctx context.Context, session security.Session, applicationID string, quorum int) (*domain.VotingDecision, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	if quorum < 1 || quorum > maxQuorum {
		return nil, domain.NewValidationError("quorum_required", fmt.Sprintf("Le quorum doit être compris entre 1 et %d", maxQuorum))
	}
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}
	if err := s.votingRepo.SetQuorum(ctx, applicationID, quorum); err != nil {
		return nil, fmt.Errorf("save quorum: %w", err)
	}
	return s.Recompute(ctx, applicationID)
}
