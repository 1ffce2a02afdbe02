package jobs

import (
	"context"
	"fmt"
	"time"

	"labelstartup-backend/internal/config"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/service"
)

const jobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    Repositories
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Repositories holds the data access needed by jobs
type Repositories struct {
	Applications     repository.ApplicationRepository
	Startups         repository.StartupRepository
	Users            repository.UserRepository
	Drafts           repository.DraftRepository
	Evaluations      repository.EvaluationRepository
	DocumentRequests repository.DocumentRequestRepository
	Stats            repository.StatsRepository
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email  service.EmailService
	Voting service.VotingService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos Repositories, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:    repos,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a deadline
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) (int, error)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	n, err := jobFunc(ctx)
	if err != nil {
		logger.Error("Job failed", "job", jobName, "processed", n, "error", err)
		return err
	}
	logger.Info("Job completed", "job", jobName, "processed", n, "duration", time.Since(start))
	return nil
}

// Job names accepted by Run.
const (
	JobRecomputeVotingDecisions     = "recompute-voting-decisions"
	JobSendDocumentRequestReminders = "send-document-request-reminders"
	JobRefreshPlatformStats         = "refresh-platform-stats"
	JobPurgeStaleDrafts             = "purge-stale-drafts"
	JobAll                          = "all"
)

// JobNames lists the jobs Run accepts, in execution order for JobAll.
var JobNames = []string{
	JobRecomputeVotingDecisions,
	JobSendDocumentRequestReminders,
	JobRefreshPlatformStats,
	JobPurgeStaleDrafts,
}

// Run executes one job by name (for manual execution).
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobRecomputeVotingDecisions:
		return jr.runWithRecovery("RecomputeVotingDecisions", jr.recomputeVotingDecisions)
	case JobSendDocumentRequestReminders:
		return jr.runWithRecovery("SendDocumentRequestReminders", jr.sendDocumentRequestReminders)
	case JobRefreshPlatformStats:
		return jr.runWithRecovery("RefreshPlatformStats", jr.refreshPlatformStats)
	case JobPurgeStaleDrafts:
		return jr.runWithRecovery("PurgeStaleDrafts", jr.purgeStaleDrafts)
	case JobAll:
		var firstErr error
		for _, n := range JobNames {
			if err := jr.Run(n); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return fmt.Errorf("unknown job %q", name)
}

// Cron entry points; errors are already logged by runWithRecovery.

func (jr *JobRunner) RecomputeVotingDecisions()     { _ = jr.Run(JobRecomputeVotingDecisions) }
func (jr *JobRunner) SendDocumentRequestReminders() { _ = jr.Run(JobSendDocumentRequestReminders) }
func (jr *JobRunner) RefreshPlatformStats()         { _ = jr.Run(JobRefreshPlatformStats) }
func (jr *JobRunner) PurgeStaleDrafts()             { _ = jr.Run(JobPurgeStaleDrafts) }
