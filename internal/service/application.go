package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/storage"
	"labelstartup-backend/internal/validation"
)

// maxDraftBytes bounds the JSON stored for one draft.
const maxDraftBytes = 256 << 10

// DraftSaveResult tells the client whether the save reached the store. Saved is false when
// the draft already held the same step and values.
type DraftSaveResult struct {
	Draft *domain.ApplicationDraft `json:"draft"`
	Saved bool                     `json:"saved"`
}

// TrackedApplication is what an applicant sees on the tracking page.
type TrackedApplication struct {
	domain.Application
	Startup          domain.Startup           `json:"startup"`
	MissingDocuments []domain.DocumentType    `json:"missing_documents"`
	OpenRequests     []domain.DocumentRequest `json:"open_requests"`
	FinalDecision    *domain.Decision         `json:"final_decision"`
}

var draftFieldMessages = map[string]string{
	"startup_name":  "Le nom de la startup est requis (2-120 caractères)",
	"sector":        "Le secteur d'activité est requis",
	"stage":         "Le stade de développement est requis",
	"description":   "La description doit contenir entre 50 et 5000 caractères",
	"team_size":     "La taille de l'équipe doit être d'au moins 1 personne",
	"website":       "L'adresse du site web est invalide",
	"accepts_terms": "Vous devez accepter les conditions d'éligibilité",
}

type applicationService struct {
	appRepo     repository.ApplicationRepository
	startupRepo repository.StartupRepository
	draftRepo   repository.DraftRepository
	docReqRepo  repository.DocumentRequestRepository
	votingRepo  repository.VotingRepository
	userRepo    repository.UserRepository
	notifier    NotificationService
	emailSvc    EmailService
	draftLocks  *keyedMutex
	now         func() time.Time
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	startupRepo repository.StartupRepository,
	draftRepo repository.DraftRepository,
	docReqRepo repository.DocumentRequestRepository,
	votingRepo repository.VotingRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	emailSvc EmailService,
) ApplicationService {
	return &applicationService{
		appRepo:     appRepo,
		startupRepo: startupRepo,
		draftRepo:   draftRepo,
		docReqRepo:  docReqRepo,
		votingRepo:  votingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		emailSvc:    emailSvc,
		draftLocks:  newKeyedMutex(),
		now:         time.Now,
	}
}

func requireApplicant(session security.Session) error {
	if err := session.RequireAuth(); err != nil {
		return err
	}
	if !session.Role.CanApply() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *applicationService) GetDraft(ctx context.Context, session security.Session) (*domain.ApplicationDraft, error) {
	if err := requireApplicant(session); err != nil {
		return nil, err
	}
	return s.draftRepo.Get(ctx, session.UserID)
}

// SaveDraft stores the step and field values as sent. Saves of one user's draft run one at a
// time, so an auto-save and a manual save cannot interleave.
func (s *applicationService) SaveDraft(ctx context.Context, session security.Session, step int, data json.RawMessage) (*DraftSaveResult, error) {
	if err := requireApplicant(session); err != nil {
		return nil, err
	}
	if step < 1 || step > domain.DraftStepCount {
		return nil, domain.NewValidationError("current_step", fmt.Sprintf("L'étape doit être comprise entre 1 et %d", domain.DraftStepCount))
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	if len(data) > maxDraftBytes {
		return nil, domain.NewValidationError("data", "Le brouillon est trop volumineux")
	}
	fields, err := decodeObject(data)
	if err != nil || fields == nil {
		return nil, domain.NewValidationError("data", "Le brouillon doit être un objet JSON")
	}

	unlock := s.draftLocks.Lock(session.UserID)
	defer unlock()

	current, err := s.draftRepo.Get(ctx, session.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if current != nil && current.CurrentStep == step && sameJSON(current.Data, fields) {
		return &DraftSaveResult{Draft: current, Saved: false}, nil
	}

	draft := &domain.ApplicationDraft{
		UserID:      session.UserID,
		CurrentStep: step,
		Data:        append(json.RawMessage(nil), data...),
	}
	if err := s.draftRepo.Upsert(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return &DraftSaveResult{Draft: draft, Saved: true}, nil
}

// decodeObject keeps numbers as json.Number so large integers compare exactly.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	return fields, nil
}

// sameJSON compares values, not bytes: the store may reorder keys and drop whitespace.
func sameJSON(stored json.RawMessage, fields map[string]any) bool {
	prev, err := decodeObject(stored)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(prev, fields)
}

func (s *applicationService) DeleteDraft(ctx context.Context, session security.Session) error {
	if err := requireApplicant(session); err != nil {
		return err
	}
	unlock := s.draftLocks.Lock(session.UserID)
	defer unlock()
	return s.draftRepo.Delete(ctx, session.UserID)
}

func (s *applicationService) Submit(ctx context.Context, session security.Session) (*domain.Application, error) {
	if err := requireApplicant(session); err != nil {
		return nil, err
	}
	logger.EnterMethod("applicationService.Submit", "userID", session.UserID)

	unlock := s.draftLocks.Lock(session.UserID)
	defer unlock()

	draft, err := s.draftRepo.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("draft", "Aucun brouillon à soumettre")
		}
		return nil, err
	}
	var form domain.DraftForm
	if err := json.Unmarshal(draft.Data, &form); err != nil {
		return nil, domain.NewValidationError("data", "Le brouillon est illisible")
	}
	if err := validation.Struct(form, draftFieldMessages); err != nil {
		return nil, err
	}
	if err := checkDraftDocuments(session.UserID, form); err != nil {
		return nil, err
	}

	existing, err := s.appRepo.ListByApplicant(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.Status.IsOpen() {
			return nil, fmt.Errorf("application %s is still %s: %w", a.ID, a.Status, domain.ErrConflict)
		}
	}

	startup := &domain.Startup{
		OwnerID:        session.UserID,
		Name:           form.StartupName,
		Sector:         form.Sector,
		Stage:          form.Stage,
		Description:    form.Description,
		TeamSize:       form.TeamSize,
		Website:        form.Website,
		Documents:      form.Documents,
		OtherDocuments: form.OtherDocuments,
		LabelStatus:    domain.LabelStatusNone,
	}
	now := s.now()
	app := &domain.Application{
		ApplicantID: session.UserID,
		Status:      domain.ApplicationStatusPending,
		SubmittedAt: &now,
		Notes:       form.Notes,
	}
	if err := s.appRepo.Submit(ctx, startup, app); err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	if err := s.draftRepo.Delete(ctx, session.UserID); err != nil {
		logger.Warn("Failed to delete submitted draft", "userID", session.UserID, "error", err)
	}
	s.notifyAdmins(ctx, app, startup.Name)

	logger.ExitMethod("applicationService.Submit", "applicationID", app.ID)
	return app, nil
}

// checkDraftDocuments rejects storage keys that were not uploaded by the applicant.
func checkDraftDocuments(userID string, form domain.DraftForm) error {
	keys := append([]string{}, form.OtherDocuments...)
	for _, t := range domain.DocumentSlots {
		if k := form.Documents.Get(t); k != "" {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		if storage.KeyOwner(k) != userID {
			return domain.NewValidationError("documents", "Un des documents joints est invalide")
		}
	}
	return nil
}

func (s *applicationService) notifyAdmins(ctx context.Context, app *domain.Application, startupName string) {
	admins, err := s.userRepo.ListUserIDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		logger.Warn("Failed to list admins", "error", err)
		return
	}
	if len(admins) == 0 {
		return
	}
	_, err = s.notifier.NotifyMany(ctx, admins, domain.Notification{
		Kind:       domain.NotificationKindNewApplication,
		Title:      "Nouvelle candidature",
		Message:    fmt.Sprintf("%s a soumis une candidature au label.", startupName),
		Link:       "/admin/applications/" + app.ID,
		Attributes: map[string]string{"application_id": app.ID},
	})
	if err != nil {
		logger.Warn("Failed to notify admins", "applicationID", app.ID, "error", err)
	}
}

func (s *applicationService) ChangeStatus(ctx context.Context, session security.Session, applicationID string, status domain.ApplicationStatus, notes string) (*domain.Application, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	if len(notes) > 2000 {
		return nil, domain.NewValidationError("notes", "Les notes ne doivent pas dépasser 2000 caractères")
	}
	return s.transition(ctx, session, applicationID, status, notes, nil)
}

func (s *applicationService) Decide(ctx context.Context, session security.Session, applicationID string, decision domain.Decision, notes string) (*domain.Application, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	if !domain.IsFinalDecision(decision) {
		return nil, domain.NewValidationError("decision", "La décision finale doit être « approve » ou « reject »")
	}
	if len(notes) > 2000 {
		return nil, domain.NewValidationError("notes", "Les notes ne doivent pas dépasser 2000 caractères")
	}
	status := domain.ApplicationStatusRejected
	if decision == domain.DecisionApprove {
		status = domain.ApplicationStatusApproved
	}
	final := &domain.FinalDecision{Decision: decision, DecidedBy: session.UserID, Notes: notes}
	return s.transition(ctx, session, applicationID, status, notes, final)
}

// transition commits the status change, the label on approval and the final decision if any
// as one write, then notifies the applicant.
func (s *applicationService) transition(ctx context.Context, session security.Session, applicationID string, status domain.ApplicationStatus, notes string, final *domain.FinalDecision) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransition(status) {
		return nil, fmt.Errorf("%s -> %s: %w", app.Status, status, domain.ErrInvalidTransition)
	}

	now := s.now()
	change := domain.StatusChange{
		ApplicationID: app.ID,
		StartupID:     app.StartupID,
		Status:        status,
		Notes:         notes,
		Final:         final,
	}
	if status == domain.ApplicationStatusApproved {
		change.LabeledAt = &now
	}
	if final != nil {
		final.DecidedAt = now
	}
	if err := s.appRepo.Transition(ctx, change); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	logger.Info("Application status changed", "applicationID", applicationID, "from", app.Status, "to", status, "by", session.UserID)

	app.Status = status
	app.Notes = notes
	s.notifyApplicant(ctx, app, notes)
	return app, nil
}

// notifyApplicant sends the in-app and email notices of a status change. Failures are logged.
func (s *applicationService) notifyApplicant(ctx context.Context, app *domain.Application, notes string) {
	startupName := domain.UnknownStartupName
	if st, err := s.startupRepo.GetByID(ctx, app.StartupID); err == nil {
		startupName = st.Name
	}

	note := &domain.Notification{
		UserID:     app.ApplicantID,
		Kind:       domain.NotificationKindStatus,
		Title:      "Candidature " + statusLabel(app.Status),
		Message:    fmt.Sprintf("La candidature de %s est désormais %s.", startupName, statusLabel(app.Status)),
		Link:       "/suivi-candidature",
		Attributes: map[string]string{"application_id": app.ID, "status": string(app.Status)},
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		logger.Warn("Failed to notify applicant", "applicationID", app.ID, "error", err)
	}

	to, err := ApplicantRecipient(ctx, s.userRepo, app.ApplicantID)
	if err != nil {
		logger.Warn("Failed to resolve applicant email", "applicationID", app.ID, "error", err)
		return
	}
	if _, err := s.emailSvc.SendApplicationStatus(ctx, to, startupName, app.Status, notes); err != nil {
		logger.Warn("Failed to email applicant", "applicationID", app.ID, "error", err)
	}
}

// ApplicantRecipient prefers the profile's name and contact email over the login email.
func ApplicantRecipient(ctx context.Context, userRepo repository.UserRepository, userID string) (Recipient, error) {
	profile, err := userRepo.GetProfile(ctx, userID)
	if err == nil && profile.Email != "" {
		return Recipient{Name: profile.DisplayName(), Email: profile.Email}, nil
	}
	user, uerr := userRepo.GetByID(ctx, userID)
	if uerr != nil {
		return Recipient{}, uerr
	}
	r := Recipient{Email: user.Email}
	if profile != nil {
		r.Name = profile.FullName
	}
	return r, nil
}

func (s *applicationService) Track(ctx context.Context, session security.Session) ([]TrackedApplication, error) {
	if err := session.RequireAuth(); err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByApplicant(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]TrackedApplication, 0, len(apps))
	for _, app := range apps {
		t := TrackedApplication{Application: app, OpenRequests: []domain.DocumentRequest{}}

		startup, err := s.startupRepo.GetByID(ctx, app.StartupID)
		switch {
		case err == nil:
			t.Startup = *startup
		case errors.Is(err, domain.ErrNotFound):
			t.Startup = domain.UnknownStartup(app.StartupID)
		default:
			return nil, err
		}
		t.MissingDocuments = t.Startup.Documents.Missing()

		reqs, err := s.docReqRepo.ListByApplication(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range reqs {
			if r.IsOpen() {
				t.OpenRequests = append(t.OpenRequests, r)
			}
		}

		vd, err := s.votingRepo.Get(ctx, app.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if vd != nil {
			t.FinalDecision = vd.FinalDecision
		}
		out = append(out, t)
	}
	return out, nil
}
