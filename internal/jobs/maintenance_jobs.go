package jobs

import (
	"context"
	"fmt"
	"time"

	"labelstartup-backend/internal/domain"
)

// refreshPlatformStats recomputes the public counters shown on the home page.
func (jr *JobRunner) refreshPlatformStats(ctx context.Context) (int, error) {
	labeled, err := jr.repos.Startups.CountLabeled(ctx)
	if err != nil {
		return 0, fmt.Errorf("count labeled startups: %w", err)
	}
	byStatus, err := jr.repos.Applications.CountByStatus(ctx)
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	evaluations, err := jr.repos.Evaluations.CountSubmitted(ctx)
	if err != nil {
		return 0, fmt.Errorf("count evaluations: %w", err)
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}
	pending := byStatus[domain.ApplicationStatusPending] + byStatus[domain.ApplicationStatusUnderReview] +
		byStatus[domain.ApplicationStatusIncomplete]

	stats := []struct {
		key   string
		value int64
	}{
		{domain.StatLabeledStartups, labeled},
		{domain.StatApplicationsTotal, total},
		{domain.StatApplicationsPending, pending},
		{domain.StatApplicationsApproved, byStatus[domain.ApplicationStatusApproved]},
		{domain.StatEvaluationsSubmitted, evaluations},
	}
	for i, s := range stats {
		if err := jr.repos.Stats.Upsert(ctx, s.key, s.value); err != nil {
			return i, fmt.Errorf("store stat %s: %w", s.key, err)
		}
	}
	return len(stats), nil
}

// purgeStaleDrafts deletes application drafts untouched for drafts.stale_after_days.
func (jr *JobRunner) purgeStaleDrafts(ctx context.Context) (int, error) {
	days := jr.config.Drafts.StaleAfterDays
	if days <= 0 {
		return 0, nil
	}
	cutoff := jr.now().Add(-time.Duration(days) * 24 * time.Hour)
	n, err := jr.repos.Drafts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}
	return int(n), nil
}
