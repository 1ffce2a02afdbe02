package domain

import "time"

type ContentKind string

const (
	ContentKindEvent       ContentKind = "event"
	ContentKindOpportunity ContentKind = "opportunity"
	ContentKindResource    ContentKind = "resource"
)

func ParseContentKind(s string) (ContentKind, bool) {
	switch ContentKind(s) {
	case ContentKindEvent, ContentKindOpportunity, ContentKindResource:
		return ContentKind(s), true
	}
	return "", false
}

// Label returns the French noun used in notification titles.
func (k ContentKind) Label() string {
	switch k {
	case ContentKindEvent:
		return "Nouvel événement"
	case ContentKindOpportunity:
		return "Nouvelle opportunité"
	case ContentKindResource:
		return "Nouvelle ressource"
	}
	return "Nouveau contenu"
}

// Path is the SPA route listing content of this kind.
func (k ContentKind) Path() string {
	switch k {
	case ContentKindEvent:
		return "/accompagnement#evenements"
	case ContentKindOpportunity:
		return "/accompagnement#opportunites"
	case ContentKindResource:
		return "/accompagnement#ressources"
	}
	return "/accompagnement"
}

// LabelContent is an event, opportunity or resource published to labeled startups.
type LabelContent struct {
	ID          string      `json:"id"`
	Kind        ContentKind `json:"kind"`
	Title       string      `json:"title" validate:"required,min=3,max=200"`
	Summary     string      `json:"summary" validate:"max=500"`
	Body        string      `json:"body" validate:"max=10000"`
	URL         string      `json:"url" validate:"omitempty,url"`
	StartsAt    *time.Time  `json:"starts_at,omitempty"`
	IsPublished bool        `json:"is_published"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
}

type PlatformStat struct {
	Key       string    `json:"key"`
	Value     int64     `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	StatLabeledStartups      = "labeled_startups"
	StatApplicationsTotal    = "applications_total"
	StatApplicationsPending  = "applications_pending"
	StatApplicationsApproved = "applications_approved"
	StatEvaluationsSubmitted = "evaluations_submitted"
)
