package service

import (
	"bytes"
	"context"
	"fmt"
	htmltmpl "html/template"
	texttmpl "text/template"
	"time"

	"labelstartup-backend/internal/domain"
)

// Recipient is a named email address.
type Recipient struct {
	Name  string
	Email string
}

// Message is one rendered email.
type Message struct {
	To      Recipient
	ReplyTo *Recipient
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a rendered message and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type disabledMailer struct{}

// NewDisabledMailer is used when no email provider is configured.
func NewDisabledMailer() Mailer {
	return disabledMailer{}
}

func (disabledMailer) Send(ctx context.Context, msg Message) (string, error) {
	return "", fmt.Errorf("email provider: %w", domain.ErrNotConfigured)
}

type emailTemplate struct {
	subject string
	text    *texttmpl.Template
	html    *htmltmpl.Template
}

func newEmailTemplate(name, subject, text, html string) emailTemplate {
	return emailTemplate{
		subject: subject,
		text:    texttmpl.Must(texttmpl.New(name).Option("missingkey=error").Parse(text)),
		html:    htmltmpl.Must(htmltmpl.New(name).Option("missingkey=error").Parse(htmlLayoutStart + html + htmlLayoutEnd)),
	}
}

// render executes both bodies. The HTML template escapes every interpolated value.
func (t emailTemplate) render(data any) (string, string, error) {
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	return text.String(), html.String(), nil
}

type emailService struct {
	mailer       Mailer
	contactInbox Recipient
	portalURL    string
}

func NewEmailService(mailer Mailer, contactInbox, portalURL string) EmailService {
	return &emailService{
		mailer:       mailer,
		contactInbox: Recipient{Name: "Label Startup Numérique", Email: contactInbox},
		portalURL:    portalURL,
	}
}

type templateData struct {
	PortalURL string
	Name      string
	Data      any
}

func (s *emailService) send(ctx context.Context, tmpl emailTemplate, to Recipient, replyTo *Recipient, subject string, data any) (string, error) {
	text, html, err := tmpl.render(templateData{PortalURL: s.portalURL, Name: to.Name, Data: data})
	if err != nil {
		return "", err
	}
	if subject == "" {
		subject = tmpl.subject
	}
	return s.mailer.Send(ctx, Message{
		To:      to,
		ReplyTo: replyTo,
		Subject: subject,
		Text:    text,
		HTML:    html,
	})
}

func (s *emailService) SendDocumentRequest(ctx context.Context, to Recipient, startupName, documentLabel, message string) (string, error) {
	data := map[string]string{
		"StartupName":   startupName,
		"DocumentLabel": documentLabel,
		"Message":       message,
	}
	subject := fmt.Sprintf("Document requis : %s", documentLabel)
	return s.send(ctx, documentRequestTemplate, to, nil, subject, data)
}

func (s *emailService) SendDocumentRequestReminder(ctx context.Context, to Recipient, startupName, documentLabel string, requestedAt time.Time) (string, error) {
	data := map[string]string{
		"StartupName":   startupName,
		"DocumentLabel": documentLabel,
		"RequestedAt":   requestedAt.Format("02/01/2006"),
	}
	subject := fmt.Sprintf("Rappel : document requis (%s)", documentLabel)
	return s.send(ctx, documentReminderTemplate, to, nil, subject, data)
}

func (s *emailService) SendApplicationStatus(ctx context.Context, to Recipient, startupName string, status domain.ApplicationStatus, notes string) (string, error) {
	data := map[string]string{
		"StartupName": startupName,
		"Status":      statusLabel(status),
		"Notes":       notes,
	}
	return s.send(ctx, applicationStatusTemplate, to, nil, "", data)
}

func (s *emailService) SendContactConfirmation(ctx context.Context, req domain.ContactRequest) (string, error) {
	to := Recipient{Name: req.Name, Email: req.Email}
	return s.send(ctx, contactConfirmationTemplate, to, nil, "", req)
}

func (s *emailService) SendContactNotification(ctx context.Context, req domain.ContactRequest) (string, error) {
	if s.contactInbox.Email == "" {
		return "", fmt.Errorf("contact inbox: %w", domain.ErrNotConfigured)
	}
	replyTo := &Recipient{Name: req.Name, Email: req.Email}
	subject := fmt.Sprintf("[Contact] %s", req.Subject)
	return s.send(ctx, contactNotificationTemplate, s.contactInbox, replyTo, subject, req)
}

func statusLabel(status domain.ApplicationStatus) string {
	switch status {
	case domain.ApplicationStatusPending:
		return "en attente"
	case domain.ApplicationStatusUnderReview:
		return "en cours d'évaluation"
	case domain.ApplicationStatusApproved:
		return "approuvée"
	case domain.ApplicationStatusRejected:
		return "rejetée"
	case domain.ApplicationStatusIncomplete:
		return "incomplète"
	}
	return string(status)
}

const htmlLayoutStart = `<!DOCTYPE html><html lang="fr"><body style="font-family:Arial,sans-serif;color:#1f2937;max-width:600px;margin:0 auto">
<div style="background:#f97316;color:#fff;padding:16px 24px"><strong>Label Startup Numérique</strong></div>
<div style="padding:24px">`

const htmlLayoutEnd = `</div>
<div style="padding:16px 24px;font-size:12px;color:#6b7280">Ministère de la Transition Numérique et de la Digitalisation, Côte d'Ivoire</div>
</body></html>`

var documentRequestTemplate = newEmailTemplate("document_request", "Document requis",
	`Bonjour {{.Name}},

Dans le cadre de l'examen de la candidature de {{.Data.StartupName}}, le comité vous demande de fournir le document suivant : {{.Data.DocumentLabel}}.
{{if .Data.Message}}
Message du comité : {{.Data.Message}}
{{end}}
Déposez-le depuis votre espace : {{.PortalURL}}/suivi-candidature

L'équipe Label Startup Numérique
`,
	`<p>Bonjour {{.Name}},</p>
<p>Dans le cadre de l'examen de la candidature de <strong>{{.Data.StartupName}}</strong>, le comité vous demande de fournir le document suivant : <strong>{{.Data.DocumentLabel}}</strong>.</p>
{{if .Data.Message}}<blockquote style="border-left:3px solid #f97316;padding-left:12px">{{.Data.Message}}</blockquote>{{end}}
<p><a href="{{.PortalURL}}/suivi-candidature">Déposer le document</a></p>`)

var documentReminderTemplate = newEmailTemplate("document_reminder", "Rappel : document requis",
	`Bonjour {{.Name}},

Le document « {{.Data.DocumentLabel}} » demandé le {{.Data.RequestedAt}} pour {{.Data.StartupName}} n'a pas encore été déposé.
Votre candidature reste en attente tant qu'il manque.

{{.PortalURL}}/suivi-candidature
`,
	`<p>Bonjour {{.Name}},</p>
<p>Le document « {{.Data.DocumentLabel}} » demandé le {{.Data.RequestedAt}} pour <strong>{{.Data.StartupName}}</strong> n'a pas encore été déposé.</p>
<p>Votre candidature reste en attente tant qu'il manque.</p>
<p><a href="{{.PortalURL}}/suivi-candidature">Déposer le document</a></p>`)

var applicationStatusTemplate = newEmailTemplate("application_status", "Mise à jour de votre candidature",
	`Bonjour {{.Name}},

La candidature de {{.Data.StartupName}} est désormais {{.Data.Status}}.
{{if .Data.Notes}}
Commentaire : {{.Data.Notes}}
{{end}}
Suivre votre candidature : {{.PortalURL}}/suivi-candidature
`,
	`<p>Bonjour {{.Name}},</p>
<p>La candidature de <strong>{{.Data.StartupName}}</strong> est désormais <strong>{{.Data.Status}}</strong>.</p>
{{if .Data.Notes}}<p>Commentaire : {{.Data.Notes}}</p>{{end}}
<p><a href="{{.PortalURL}}/suivi-candidature">Suivre votre candidature</a></p>`)

var contactConfirmationTemplate = newEmailTemplate("contact_confirmation", "Nous avons bien reçu votre message",
	`Bonjour {{.Name}},

Merci d'avoir contacté Label Startup Numérique. Votre message « {{.Data.Subject}} » a bien été reçu, nous vous répondrons dans les meilleurs délais.

L'équipe Label Startup Numérique
`,
	`<p>Bonjour {{.Name}},</p>
<p>Merci d'avoir contacté Label Startup Numérique. Votre message « {{.Data.Subject}} » a bien été reçu, nous vous répondrons dans les meilleurs délais.</p>`)

var contactNotificationTemplate = newEmailTemplate("contact_notification", "Nouveau message de contact",
	`Nouveau message reçu depuis le formulaire de contact.

Nom : {{.Data.Name}}
Email : {{.Data.Email}}
Téléphone : {{.Data.Phone}}
Entreprise : {{.Data.CompanyName}} ({{.Data.CompanyEmail}})
Sujet : {{.Data.Subject}}

{{.Data.Message}}
`,
	`<h2>Nouveau message de contact</h2>
<table>
<tr><td><strong>Nom</strong></td><td>{{.Data.Name}}</td></tr>
<tr><td><strong>Email</strong></td><td>{{.Data.Email}}</td></tr>
<tr><td><strong>Téléphone</strong></td><td>{{.Data.Phone}}</td></tr>
<tr><td><strong>Entreprise</strong></td><td>{{.Data.CompanyName}} ({{.Data.CompanyEmail}})</td></tr>
<tr><td><strong>Sujet</strong></td><td>{{.Data.Subject}}</td></tr>
</table>
<p style="white-space:pre-wrap">{{.Data.Message}}</p>`)
