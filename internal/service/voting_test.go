package service_test

import (
	"context"
	"errors"
	"testing"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	adminSession     = security.Session{UserID: "admin-1", Email: "admin@label.ci", Role: domain.RoleAdmin}
	evaluatorSession = security.Session{UserID: "eval-1", Email: "eval@label.ci", Role: domain.RoleEvaluator}
	startupSession   = security.Session{UserID: "founder-1", Email: "founder@startup.ci", Role: domain.RoleStartup}
)

func submitted(evaluatorID string, rec domain.Recommendation) domain.Evaluation {
	return domain.Evaluation{EvaluatorID: evaluatorID, Recommendation: rec, IsSubmitted: true, TotalScore: 60}
}

func TestVotingService_Recompute(t *testing.T) {
	votingRepo := new(MockVotingRepo)
	evalRepo := new(MockEvaluationRepo)
	appRepo := new(MockApplicationRepo)
	apps := new(MockApplicationService)
	svc := service.NewVotingService(votingRepo, evalRepo, appRepo, apps, 3)
	ctx := context.Background()

	t.Run("Quorum reached with approvals", func(t *testing.T) {
		votingRepo.ExpectedCalls = nil
		votingRepo.Calls = nil
		evalRepo.ExpectedCalls = nil
		evalRepo.Calls = nil

		votingRepo.On("Get", ctx, "app-1").Return(nil, domain.ErrNotFound).Once()
		evalRepo.On("ListByApplication", ctx, "app-1").Return([]domain.Evaluation{
			submitted("e1", domain.RecommendationApprove),
			submitted("e2", domain.RecommendationApprove),
			submitted("e3", domain.RecommendationReject),
			{EvaluatorID: "e4", Recommendation: domain.RecommendationReject},
		}, nil).Once()
		votingRepo.On("SaveResult", ctx, "app-1", mock.MatchedBy(func(r domain.VotingResult) bool {
			return r.TotalVotes == 3 && r.QuorumReached
		})).Return(nil).Once()

		res, err := svc.Recompute(ctx, "app-1")

		assert.NoError(t, err)
		assert.Equal(t, 2, res.ApproveCount)
		assert.Equal(t, 1, res.RejectCount)
		assert.Equal(t, 3, res.QuorumRequired)
		if assert.NotNil(t, res.CalculatedDecision) {
			assert.Equal(t, domain.DecisionApprove, *res.CalculatedDecision)
		}
		votingRepo.AssertExpectations(t)
	})

	t.Run("Stored quorum wins over default and stale counts are ignored", func(t *testing.T) {
		votingRepo.ExpectedCalls = nil
		votingRepo.Calls = nil
		evalRepo.ExpectedCalls = nil
		evalRepo.Calls = nil

		final := domain.DecisionReject
		stored := &domain.VotingDecision{
			ApplicationID: "app-2",
			VotingResult:  domain.VotingResult{ApproveCount: 9, TotalVotes: 9, QuorumRequired: 5},
			FinalDecision: &final,
		}
		votingRepo.On("Get", ctx, "app-2").Return(stored, nil).Once()
		evalRepo.On("ListByApplication", ctx, "app-2").Return([]domain.Evaluation{
			submitted("e1", domain.RecommendationApprove),
			submitted("e2", domain.RecommendationReject),
		}, nil).Once()
		votingRepo.On("SaveResult", ctx, "app-2", mock.Anything).Return(nil).Once()

		res, err := svc.Recompute(ctx, "app-2")

		assert.NoError(t, err)
		assert.Equal(t, 1, res.ApproveCount)
		assert.Equal(t, 2, res.TotalVotes)
		assert.Equal(t, 5, res.QuorumRequired)
		assert.False(t, res.QuorumReached)
		assert.Nil(t, res.CalculatedDecision)
		assert.Equal(t, &final, res.FinalDecision)
	})
}

func TestVotingService_Get(t *testing.T) {
	votingRepo := new(MockVotingRepo)
	evalRepo := new(MockEvaluationRepo)
	appRepo := new(MockApplicationRepo)
	svc := service.NewVotingService(votingRepo, evalRepo, appRepo, new(MockApplicationService), 0)
	ctx := context.Background()

	t.Run("Startup cannot read votes", func(t *testing.T) {
		_, err := svc.Get(ctx, startupSession, "app-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Tie", func(t *testing.T) {
		appRepo.On("GetByID", ctx, "app-1").Return(&domain.Application{ID: "app-1", Status: domain.ApplicationStatusUnderReview}, nil).Once()
		votingRepo.On("Get", ctx, "app-1").Return(nil, domain.ErrNotFound).Once()
		evalRepo.On("ListByApplication", ctx, "app-1").Return([]domain.Evaluation{
			submitted("e1", domain.RecommendationApprove),
			submitted("e2", domain.RecommendationReject),
			submitted("e3", domain.RecommendationApprove),
			submitted("e4", domain.RecommendationReject),
		}, nil).Once()

		res, err := svc.Get(ctx, evaluatorSession, "app-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.DefaultQuorum, res.QuorumRequired)
		if assert.NotNil(t, res.CalculatedDecision) {
			assert.Equal(t, domain.DecisionTie, *res.CalculatedDecision)
		}
		votingRepo.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVotingService_Finalize(t *testing.T) {
	votingRepo := new(MockVotingRepo)
	evalRepo := new(MockEvaluationRepo)
	appRepo := new(MockApplicationRepo)
	apps := new(MockApplicationService)
	svc := service.NewVotingService(votingRepo, evalRepo, appRepo, apps, 3)
	ctx := context.Background()

	reset := func() {
		votingRepo.ExpectedCalls = nil
		votingRepo.Calls = nil
		evalRepo.ExpectedCalls = nil
		evalRepo.Calls = nil
		appRepo.ExpectedCalls = nil
		appRepo.Calls = nil
		apps.ExpectedCalls = nil
		apps.Calls = nil
	}

	t.Run("Success", func(t *testing.T) {
		reset()
		appRepo.On("GetByID", ctx, "app-1").Return(&domain.Application{ID: "app-1", Status: domain.ApplicationStatusUnderReview}, nil).Once()
		votingRepo.On("Get", ctx, "app-1").Return(&domain.VotingDecision{ApplicationID: "app-1", VotingResult: domain.VotingResult{QuorumRequired: 3}}, nil)
		evalRepo.On("ListByApplication", ctx, "app-1").Return([]domain.Evaluation{submitted("e1", domain.RecommendationApprove)}, nil)
		votingRepo.On("SaveResult", ctx, "app-1", mock.Anything).Return(nil).Once()
		apps.On("Decide", ctx, adminSession, "app-1", domain.DecisionApprove, "Dossier solide").
			Return(&domain.Application{ID: "app-1", Status: domain.ApplicationStatusApproved}, nil).Once()

		_, err := svc.Finalize(ctx, adminSession, "app-1", domain.DecisionApprove, "Dossier solide")

		assert.NoError(t, err)
		votingRepo.AssertExpectations(t)
		apps.AssertExpectations(t)
	})

	t.Run("Evaluator is not allowed", func(t *testing.T) {
		reset()
		_, err := svc.Finalize(ctx, evaluatorSession, "app-1", domain.DecisionApprove, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Tie is not a final decision", func(t *testing.T) {
		reset()
		_, err := svc.Finalize(ctx, adminSession, "app-1", domain.DecisionTie, "")
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("Failed decision is returned", func(t *testing.T) {
		reset()
		appRepo.On("GetByID", ctx, "app-1").Return(&domain.Application{ID: "app-1", Status: domain.ApplicationStatusUnderReview}, nil).Once()
		votingRepo.On("Get", ctx, "app-1").Return(&domain.VotingDecision{ApplicationID: "app-1", VotingResult: domain.VotingResult{QuorumRequired: 3}}, nil)
		evalRepo.On("ListByApplication", ctx, "app-1").Return([]domain.Evaluation{}, nil)
		votingRepo.On("SaveResult", ctx, "app-1", mock.Anything).Return(nil).Once()
		apps.On("Decide", ctx, adminSession, "app-1", domain.DecisionReject, "").Return(nil, errors.New("update status: tx aborted")).Once()

		_, err := svc.Finalize(ctx, adminSession, "app-1", domain.DecisionReject, "")

		assert.EqualError(t, err, "update status: tx aborted")
		apps.AssertExpectations(t)
	})

	t.Run("Terminal application", func(t *testing.T) {
		reset()
		appRepo.On("GetByID", ctx, "app-1").Return(&domain.Application{ID: "app-1", Status: domain.ApplicationStatusRejected}, nil).Once()

		_, err := svc.Finalize(ctx, adminSession, "app-1", domain.DecisionApprove, "")

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		apps.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVotingService_SetQuorum(t *testing.T) {
	votingRepo := new(MockVotingRepo)
	evalRepo := new(MockEvaluationRepo)
	appRepo := new(MockApplicationRepo)
	svc := service.NewVotingService(votingRepo, evalRepo, appRepo, new(MockApplicationService), 3)
	ctx := context.Background()

	t.Run("Out of range", func(t *testing.T) {
		_, err := svc.SetQuorum(ctx, adminSession, "app-1", 0)
		assert.True(t, domain.IsValidationError(err))
		_, err = svc.SetQuorum(ctx, adminSession, "app-1", 21)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("Success", func(t *testing.T) {
		appRepo.On("GetByID", ctx, "app-1").Return(&domain.Application{ID: "app-1"}, nil).Once()
		votingRepo.On("SetQuorum", ctx, "app-1", 1).Return(nil).Once()
		votingRepo.On("Get", ctx, "app-1").Return(&domain.VotingDecision{ApplicationID: "app-1", VotingResult: domain.VotingResult{QuorumRequired: 1}}, nil).Once()
		evalRepo.On("ListByApplication", ctx, "app-1").Return([]domain.Evaluation{submitted("e1", domain.RecommendationReject)}, nil).Once()
		votingRepo.On("SaveResult", ctx, "app-1", mock.Anything).Return(nil).Once()

		res, err := svc.SetQuorum(ctx, adminSession, "app-1", 1)

		assert.NoError(t, err)
		assert.True(t, res.QuorumReached)
		if assert.NotNil(t, res.CalculatedDecision) {
			assert.Equal(t, domain.DecisionReject, *res.CalculatedDecision)
		}
	})
}
