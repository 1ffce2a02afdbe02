package jobs

import (
	"context"
	"fmt"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/service"
)

// sendDocumentRequestReminders emails applicants whose document request has been open for
// a whole multiple of scheduler.reminder_after_days, so a request is reminded every N days
// rather than on every run.
func (jr *JobRunner) sendDocumentRequestReminders(ctx context.Context) (int, error) {
	every := jr.config.Scheduler.ReminderAfterDays
	if every <= 0 {
		every = 3
	}
	now := jr.now()
	cutoff := now.Add(-time.Duration(every) * 24 * time.Hour)

	reqs, err := jr.repos.DocumentRequests.ListOpenCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list open document requests: %w", err)
	}

	apps := map[string]*domain.Application{}
	startupNames := map[string]string{}
	count := 0
	for _, req := range reqs {
		days := int(now.Sub(req.CreatedAt).Hours() / 24)
		if days < every || days%every != 0 {
			continue
		}

		app, ok := apps[req.ApplicationID]
		if !ok {
			app, err = jr.repos.Applications.GetByID(ctx, req.ApplicationID)
			if err != nil {
				logger.Error("Failed to load application for reminder", "requestID", req.ID, "error", err)
				continue
			}
			apps[req.ApplicationID] = app
		}
		if !app.Status.IsOpen() {
			continue
		}

		name, ok := startupNames[app.StartupID]
		if !ok {
			name = domain.UnknownStartupName
			if st, err := jr.repos.Startups.GetByID(ctx, app.StartupID); err == nil {
				name = st.Name
			}
			startupNames[app.StartupID] = name
		}

		to, err := service.ApplicantRecipient(ctx, jr.repos.Users, app.ApplicantID)
		if err != nil {
			logger.Error("Failed to resolve applicant", "applicationID", app.ID, "error", err)
			continue
		}
		if _, err := jr.services.Email.SendDocumentRequestReminder(ctx, to, name, req.DocumentLabel, req.CreatedAt); err != nil {
			logger.Error("Failed to send document request reminder",
				"requestID", req.ID,
				"applicationID", app.ID,
				"error", err)
			continue
		}

		count++
		logger.Debug("Sent document request reminder", "requestID", req.ID, "days", days)
	}
	return count, nil
}
