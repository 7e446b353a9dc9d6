package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// QueueProducerInterface é o que o handler precisa da fila.
type QueueProducerInterface interface {
	PublishDelivery(ctx context.Context, payload queue.LeadDeliveryPayload) error
}

type WebhookHandler struct {
	Producer QueueProducerInterface
}

func NewWebhookHandler(producer QueueProducerInterface) *WebhookHandler {
	return &WebhookHandler{Producer: producer}
}

// LeadWebhookRequest é o JSON que as landing pages enviam.
// Só o telefone é obrigatório; o resto enriquece o lead.
type LeadWebhookRequest struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Source      string `json:"source,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Responsible string `json:"responsible,omitempty"`
}

type LeadWebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	EventID string `json:"event_id,omitempty"`
}

// Handle aceita o webhook e enfileira. A criação no CRM acontece no
// worker; aqui a resposta é 202 assim que o evento está na fila.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LeadWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, LeadWebhookResponse{
			Status:  "error",
			Message: "JSON inválido",
		})
		return
	}

	if req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, LeadWebhookResponse{
			Status:  "error",
			Message: "telefone é obrigatório",
		})
		return
	}

	middleware.RecordLeadReceived(req.Source)

	payload := queue.LeadDeliveryPayload{
		EventID:     uuid.New().String(),
		Phone:       req.Phone,
		Name:        req.Name,
		Email:       req.Email,
		Source:      req.Source,
		Comment:     req.Comment,
		Responsible: req.Responsible,
	}

	if err := h.Producer.PublishDelivery(r.Context(), payload); err != nil {
		log.Printf("❌ Erro ao publicar webhook na fila: %v", err)
		writeJSON(w, http.StatusInternalServerError, LeadWebhookResponse{
			Status:  "error",
			Message: "erro ao enfileirar o lead",
		})
		return
	}

	writeJSON(w, http.StatusAccepted, LeadWebhookResponse{
		Status:  "accepted",
		EventID: payload.EventID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
