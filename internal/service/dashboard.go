package service

import (
	"context"
	"fmt"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
)

// ApplicationView is one row of the evaluation dashboard.
type ApplicationView struct {
	domain.Application
	Startup          domain.Startup         `json:"startup"`
	Evaluations      []EvaluationView       `json:"evaluations"`
	EvaluationCount  int                    `json:"evaluation_count"`
	AverageScore     *int                   `json:"average_score"`
	PendingDocuments int                    `json:"pending_documents"`
	Voting           *domain.VotingDecision `json:"voting"`
	MyEvaluation     *domain.Evaluation     `json:"my_evaluation"`
}

type dashboardService struct {
	appRepo       repository.ApplicationRepository
	startupRepo   repository.StartupRepository
	evalRepo      repository.EvaluationRepository
	votingRepo    repository.VotingRepository
	docReqRepo    repository.DocumentRequestRepository
	userRepo      repository.UserRepository
	defaultQuorum int
}

func NewDashboardService(
	appRepo repository.ApplicationRepository,
	startupRepo repository.StartupRepository,
	evalRepo repository.EvaluationRepository,
	votingRepo repository.VotingRepository,
	docReqRepo repository.DocumentRequestRepository,
	userRepo repository.UserRepository,
	defaultQuorum int,
) DashboardService {
	if defaultQuorum <= 0 {
		defaultQuorum = domain.DefaultQuorum
	}
	return &dashboardService{
		appRepo:       appRepo,
		startupRepo:   startupRepo,
		evalRepo:      evalRepo,
		votingRepo:    votingRepo,
		docReqRepo:    docReqRepo,
		userRepo:      userRepo,
		defaultQuorum: defaultQuorum,
	}
}

func (s *dashboardService) Load(ctx context.Context, session security.Session) ([]ApplicationView, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByStatuses(ctx, domain.ReviewStatuses)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	return s.assemble(ctx, session.UserID, apps)
}

func (s *dashboardService) LoadOne(ctx context.Context, session security.Session, applicationID string) (*ApplicationView, error) {
	if err := session.RequireEvaluator(); err != nil {
		return nil, err
	}
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	views, err := s.assemble(ctx, session.UserID, []domain.Application{*app})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// assemble fetches everything the rows reference in one query per relation, then builds
// the views. Any fetch failure fails the whole load.
func (s *dashboardService) assemble(ctx context.Context, currentUserID string, apps []domain.Application) ([]ApplicationView, error) {
	if len(apps) == 0 {
		return []ApplicationView{}, nil
	}
	appIDs := make([]string, 0, len(apps))
	startupIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		appIDs = append(appIDs, a.ID)
		startupIDs = append(startupIDs, a.StartupID)
	}

	startups, err := s.startupRepo.ListByIDs(ctx, startupIDs)
	if err != nil {
		return nil, fmt.Errorf("load startups: %w", err)
	}
	evals, err := s.evalRepo.ListByApplications(ctx, appIDs)
	if err != nil {
		return nil, fmt.Errorf("load evaluations: %w", err)
	}
	names, err := evaluatorNames(ctx, s.userRepo, evals)
	if err != nil {
		return nil, err
	}
	openDocs, err := s.docReqRepo.CountOpenByApplications(ctx, appIDs)
	if err != nil {
		return nil, fmt.Errorf("count document requests: %w", err)
	}
	decisions, err := s.votingRepo.ListByApplications(ctx, appIDs)
	if err != nil {
		return nil, fmt.Errorf("load voting decisions: %w", err)
	}

	views := buildViews(apps, startups, evals, names, openDocs, decisions, currentUserID, s.defaultQuorum)
	logger.Debug("Dashboard assembled", "applications", len(views), "evaluations", len(evals))
	return views, nil
}

// buildViews is the pure assembly step. Missing startups and evaluator names are replaced
// by placeholders; voting data is recomputed from the submitted evaluations and only the
// quorum and the final decision are taken from the stored row.
func buildViews(
	apps []domain.Application,
	startups []domain.Startup,
	evals []domain.Evaluation,
	names map[string]string,
	openDocs map[string]int,
	decisions []domain.VotingDecision,
	currentUserID string,
	defaultQuorum int,
) []ApplicationView {
	startupByID := make(map[string]domain.Startup, len(startups))
	for _, st := range startups {
		startupByID[st.ID] = st
	}
	evalsByApp := make(map[string][]domain.Evaluation)
	for _, e := range evals {
		evalsByApp[e.ApplicationID] = append(evalsByApp[e.ApplicationID], e)
	}
	decisionByApp := make(map[string]domain.VotingDecision, len(decisions))
	for _, d := range decisions {
		decisionByApp[d.ApplicationID] = d
	}

	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		startup, ok := startupByID[app.StartupID]
		if !ok {
			startup = domain.UnknownStartup(app.StartupID)
		}
		appEvals := evalsByApp[app.ID]

		vd := domain.VotingDecision{ApplicationID: app.ID}
		if stored, ok := decisionByApp[app.ID]; ok {
			vd = stored
		}
		quorum := vd.QuorumRequired
		if quorum <= 0 {
			quorum = defaultQuorum
		}
		vd.VotingResult = domain.Aggregate(domain.SubmittedRecommendations(appEvals), quorum)

		view := ApplicationView{
			Application:      app,
			Startup:          startup,
			Evaluations:      evaluationViews(appEvals, names),
			EvaluationCount:  domain.CountSubmitted(appEvals),
			AverageScore:     domain.AverageSubmittedScore(appEvals),
			PendingDocuments: openDocs[app.ID],
			Voting:           &vd,
		}
		for i := range appEvals {
			if currentUserID != "" && appEvals[i].EvaluatorID == currentUserID {
				mine := appEvals[i]
				view.MyEvaluation = &mine
				break
			}
		}
		views = append(views, view)
	}
	return views
}
