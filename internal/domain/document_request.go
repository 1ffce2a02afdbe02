package domain

import "time"

type DocumentRequestStatus string

const (
	DocumentRequestOpen      DocumentRequestStatus = "open"
	DocumentRequestFulfilled DocumentRequestStatus = "fulfilled"
	DocumentRequestCancelled DocumentRequestStatus = "cancelled"
)

type DocumentRequest struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	RequestedBy   string     `json:"requested_by"`
	DocumentType  string     `json:"document_type"`
	DocumentLabel string     `json:"document_label"`
	Message       string     `json:"message"`
	DocumentPath  string     `json:"document_path,omitempty"`
	FulfilledAt   *time.Time `json:"fulfilled_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (r *DocumentRequest) Status() DocumentRequestStatus {
	switch {
	case r.CancelledAt != nil:
		return DocumentRequestCancelled
	case r.FulfilledAt != nil:
		return DocumentRequestFulfilled
	default:
		return DocumentRequestOpen
	}
}

func (r *DocumentRequest) IsOpen() bool {
	return r.Status() == DocumentRequestOpen
}
