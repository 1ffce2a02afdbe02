package domain

import "time"

// ContactRequest is the body of the send-contact-email endpoint.
type ContactRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone" validate:"omitempty,max=20,phone"`
	Subject      string `json:"subject" validate:"required,min=3,max=200"`
	Message      string `json:"message" validate:"required,min=10,max=2000"`
	CompanyName  string `json:"companyName" validate:"required,max=200"`
	CompanyEmail string `json:"companyEmail" validate:"required,email,max=255"`
}

// ContactFieldMessages are the user-facing errors for each invalid contact field.
var ContactFieldMessages = map[string]string{
	"name":         "Nom invalide (2-100 caractères requis)",
	"email":        "Email invalide",
	"phone":        "Numéro de téléphone invalide",
	"subject":      "Sujet invalide (3-200 caractères requis)",
	"message":      "Message invalide (10-2000 caractères requis)",
	"companyName":  "Nom de l'entreprise requis",
	"companyEmail": "Email de l'entreprise invalide",
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
