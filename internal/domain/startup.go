package domain

import "time"

type LabelStatus string

const (
	LabelStatusNone    LabelStatus = "none"
	LabelStatusLabeled LabelStatus = "labeled"
	LabelStatusRevoked LabelStatus = "revoked"
)

// DocumentType names one of the six fixed document slots of a startup, or "other".
type DocumentType string

const (
	DocumentRCCM           DocumentType = "rccm"
	DocumentTaxCertificate DocumentType = "tax_certificate"
	DocumentStatutes       DocumentType = "statutes"
	DocumentBusinessPlan   DocumentType = "business_plan"
	DocumentTeamCVs        DocumentType = "team_cvs"
	DocumentPitchDeck      DocumentType = "pitch_deck"
	DocumentOther          DocumentType = "other"
)

var DocumentSlots = []DocumentType{
	DocumentRCCM,
	DocumentTaxCertificate,
	DocumentStatutes,
	DocumentBusinessPlan,
	DocumentTeamCVs,
	DocumentPitchDeck,
}

func ParseDocumentType(s string) (DocumentType, bool) {
	switch DocumentType(s) {
	case DocumentRCCM, DocumentTaxCertificate, DocumentStatutes, DocumentBusinessPlan,
		DocumentTeamCVs, DocumentPitchDeck, DocumentOther:
		return DocumentType(s), true
	}
	return "", false
}

type Startup struct {
	ID             string      `json:"id"`
	OwnerID        string      `json:"owner_id"`
	Name           string      `json:"name"`
	Sector         string      `json:"sector"`
	Stage          string      `json:"stage"`
	Description    string      `json:"description"`
	TeamSize       int         `json:"team_size"`
	Website        string      `json:"website"`
	Documents      StartupDocs `json:"documents"`
	OtherDocuments []string    `json:"other_documents"`
	IsVisible      bool        `json:"is_visible"`
	LabelStatus    LabelStatus `json:"label_status"`
	LabeledAt      *time.Time  `json:"labeled_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// StartupDocs holds the storage keys of the six fixed slots; empty means not uploaded.
type StartupDocs struct {
	RCCM           string `json:"rccm"`
	TaxCertificate string `json:"tax_certificate"`
	Statutes       string `json:"statutes"`
	BusinessPlan   string `json:"business_plan"`
	TeamCVs        string `json:"team_cvs"`
	PitchDeck      string `json:"pitch_deck"`
}

// Set stores key in the slot for t. It returns false for DocumentOther, which has no slot.
func (d *StartupDocs) Set(t DocumentType, key string) bool {
	switch t {
	case DocumentRCCM:
		d.RCCM = key
	case DocumentTaxCertificate:
		d.TaxCertificate = key
	case DocumentStatutes:
		d.Statutes = key
	case DocumentBusinessPlan:
		d.BusinessPlan = key
	case DocumentTeamCVs:
		d.TeamCVs = key
	case DocumentPitchDeck:
		d.PitchDeck = key
	default:
		return false
	}
	return true
}

func (d StartupDocs) Get(t DocumentType) string {
	switch t {
	case DocumentRCCM:
		return d.RCCM
	case DocumentTaxCertificate:
		return d.TaxCertificate
	case DocumentStatutes:
		return d.Statutes
	case DocumentBusinessPlan:
		return d.BusinessPlan
	case DocumentTeamCVs:
		return d.TeamCVs
	case DocumentPitchDeck:
		return d.PitchDeck
	}
	return ""
}

// Missing lists the fixed slots that are still empty.
func (d StartupDocs) Missing() []DocumentType {
	var out []DocumentType
	for _, t := range DocumentSlots {
		if d.Get(t) == "" {
			out = append(out, t)
		}
	}
	return out
}

// Owns reports whether key belongs to this startup, either in a slot or in the open list.
func (s *Startup) Owns(key string) bool {
	if key == "" {
		return false
	}
	for _, t := range DocumentSlots {
		if s.Documents.Get(t) == key {
			return true
		}
	}
	for _, k := range s.OtherDocuments {
		if k == key {
			return true
		}
	}
	return false
}

// UnknownStartupName is shown when an application references a startup row that could not be loaded.
const UnknownStartupName = "Startup inconnue"

// UnknownStartup is the placeholder substituted for a missing startup on dashboard rows.
func UnknownStartup(id string) Startup {
	return Startup{
		ID:          id,
		Name:        UnknownStartupName,
		LabelStatus: LabelStatusNone,
	}
}
