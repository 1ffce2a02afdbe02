package jobs

import (
	"context"
	"fmt"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
)

// recomputeVotingDecisions reconciles the cached vote tally of every application still
// under review. One failing application does not stop the others.
func (jr *JobRunner) recomputeVotingDecisions(ctx context.Context) (int, error) {
	apps, err := jr.repos.Applications.ListByStatuses(ctx, domain.ReviewStatuses)
	if err != nil {
		return 0, fmt.Errorf("list applications under review: %w", err)
	}

	count := 0
	for _, app := range apps {
		if _, err := jr.services.Voting.Recompute(ctx, app.ID); err != nil {
			logger.Error("Failed to recompute voting decision", "applicationID", app.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}
