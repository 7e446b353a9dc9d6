package entity

import (
	"time"

	"github.com/google/uuid"
)

// Delivery é o registro imutável de uma tentativa de envio de lead
// ao CRM: até onde o fluxo chegou e com quais IDs.
type Delivery struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	ContactID int       `json:"contact_id,omitempty"`
	LeadID    int       `json:"lead_id,omitempty"`
	Stage     string    `json:"stage"`
	ErrorKind string    `json:"error_kind,omitempty"`
	ErrorText string    `json:"error_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDelivery monta o registro de uma tentativa concluída (bem ou mal).
func NewDelivery(phone string, contactID, leadID int, stage Stage, errKind, errText string) *Delivery {
	return &Delivery{
		ID:        uuid.New().String(),
		Phone:     phone,
		ContactID: contactID,
		LeadID:    leadID,
		Stage:     stage.String(),
		ErrorKind: errKind,
		ErrorText: errText,
		CreatedAt: time.Now(),
	}
}
