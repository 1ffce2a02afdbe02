package domain

import (
	"encoding/json"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusIncomplete  ApplicationStatus = "incomplete"
)

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case ApplicationStatusPending, ApplicationStatusUnderReview, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusIncomplete:
		return ApplicationStatus(s), true
	}
	return "", false
}

// ReviewStatuses are the statuses shown on the evaluation dashboard.
var ReviewStatuses = []ApplicationStatus{ApplicationStatusPending, ApplicationStatusUnderReview}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:     {ApplicationStatusUnderReview, ApplicationStatusIncomplete, ApplicationStatusRejected},
	ApplicationStatusUnderReview: {ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusIncomplete},
	ApplicationStatusIncomplete:  {ApplicationStatusPending, ApplicationStatusUnderReview},
}

// CanTransition reports whether an admin may move an application from one status to another.
// Approved and rejected are terminal.
func (s ApplicationStatus) CanTransition(to ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Application struct {
	ID          string            `json:"id"`
	StartupID   string            `json:"startup_id"`
	ApplicantID string            `json:"applicant_id"`
	Status      ApplicationStatus `json:"status"`
	SubmittedAt *time.Time        `json:"submitted_at,omitempty"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// StatusChange is one application transition plus the writes that commit with it.
type StatusChange struct {
	ApplicationID string
	StartupID     string
	Status        ApplicationStatus
	Notes         string
	LabeledAt     *time.Time // set when the change grants the label
	Final         *FinalDecision
}

// FinalDecision is the human override recorded when voting is closed.
type FinalDecision struct {
	Decision  Decision
	DecidedBy string
	Notes     string
	DecidedAt time.Time
}

// ApplicationDraft is the auto-saved, resumable state of the multi-step application form.
type ApplicationDraft struct {
	UserID      string          `json:"user_id"`
	CurrentStep int             `json:"current_step"`
	Data        json.RawMessage `json:"data"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DraftForm is the field set of the application form. Drafts may hold any subset of it;
// the validation tags apply only when the draft is submitted.
type DraftForm struct {
	StartupName  string `json:"startup_name" validate:"required,min=2,max=120"`
	Sector       string `json:"sector" validate:"required,max=80"`
	Stage        string `json:"stage" validate:"required,oneof=idea prototype mvp growth scale"`
	Description  string `json:"description" validate:"required,min=50,max=5000"`
	TeamSize     int    `json:"team_size" validate:"required,min=1,max=10000"`
	Website      string `json:"website" validate:"omitempty,url,max=255"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=20"`
	Notes        string `json:"notes" validate:"max=2000"`
	AcceptsTerms bool   `json:"accepts_terms" validate:"eq=true"`

	// Storage keys uploaded while the form was in progress, under the "draft" startup segment.
	Documents      StartupDocs `json:"documents"`
	OtherDocuments []string    `json:"other_documents" validate:"max=10"`
}

// DraftStepCount is the number of steps of the application form.
const DraftStepCount = 5

// DraftStartupSegment replaces the startup id in keys of documents uploaded before submission.
const DraftStartupSegment = "draft"

// OpenStatuses are the statuses of an application still being processed.
var OpenStatuses = []ApplicationStatus{ApplicationStatusPending, ApplicationStatusUnderReview, ApplicationStatusIncomplete}

func (s ApplicationStatus) IsOpen() bool {
	for _, o := range OpenStatuses {
		if s == o {
			return true
		}
	}
	return false
}
