package domain

import "time"

type NotificationKind string

const (
	NotificationKindStatus          NotificationKind = "application_status"
	NotificationKindDocumentRequest NotificationKind = "document_request"
	NotificationKindMention         NotificationKind = "mention"
	NotificationKindNewContent      NotificationKind = "new_content"
	NotificationKindNewApplication  NotificationKind = "new_application"
)

type Notification struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Kind       NotificationKind  `json:"kind"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Link       string            `json:"link"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedAt  time.Time         `json:"created_at"`
}

type PushToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
